package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalkExtFindsMatchingFilesSortedAndIgnoresOthers(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	write := func(name string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
		return path
	}
	writeNested := func(name string) string {
		path := filepath.Join(sub, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
		return path
	}

	write("b.h")
	write("a.h")
	write("notes.txt")
	nested := writeNested("c.h")

	got, err := walkExt(dir, ".h")
	if err != nil {
		t.Fatalf("walkExt: %v", err)
	}

	want := []string{filepath.Join(dir, "a.h"), filepath.Join(dir, "b.h"), nested}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWalkExtReturnsEmptyForNoMatches(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := walkExt(dir, ".feature")
	if err != nil {
		t.Fatalf("walkExt: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestLedgerPathSitsAlongsideOutput(t *testing.T) {
	got := ledgerPath(filepath.Join("build", "src", "tests.cc"))
	want := filepath.Join("build", "src", ".ghtc-ledger.db")
	if got != want {
		t.Fatalf("ledgerPath = %s, want %s", got, want)
	}
}

func TestCompileCmdRequiresSrcAndTests(t *testing.T) {
	cmd := newCompileCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when --src and --tests are missing")
	}
}
