package ledger

import (
	"path/filepath"
	"testing"
	"time"
)

func TestOpenMigratesAndRecordsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghtc.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, ok := l.LastHash(); ok {
		t.Fatal("expected no prior run in a fresh ledger")
	}

	run := &Run{
		StartedAt:     time.Unix(1700000000, 0),
		HeaderCount:   2,
		FeatureCount:  1,
		ScenarioCount: 3,
		ErrorCount:    0,
		ContentHash:   42,
	}
	if err := l.Record(run); err != nil {
		t.Fatalf("Record: %v", err)
	}

	hash, ok := l.LastHash()
	if !ok {
		t.Fatal("expected a run after Record")
	}
	if hash != 42 {
		t.Fatalf("LastHash = %d, want 42", hash)
	}
}

func TestContentHashIsDeterministicAndOrderSensitive(t *testing.T) {
	a, err := ContentHash([][]byte{[]byte("foo"), []byte("bar")})
	if err != nil {
		t.Fatalf("ContentHash: %v", err)
	}
	b, err := ContentHash([][]byte{[]byte("foo"), []byte("bar")})
	if err != nil {
		t.Fatalf("ContentHash: %v", err)
	}
	if a != b {
		t.Fatalf("same input produced different hashes: %d != %d", a, b)
	}

	reordered, err := ContentHash([][]byte{[]byte("bar"), []byte("foo")})
	if err != nil {
		t.Fatalf("ContentHash: %v", err)
	}
	if a == reordered {
		t.Fatal("reordering inputs should change the digest")
	}
}
