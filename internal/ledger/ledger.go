// Package ledger persists a history of compiler runs to a local SQLite
// database, so a caller can ask "did the input set change since the last
// run" (ContentHash) without re-reading and re-diffing every source file.
package ledger

import (
	"time"

	"github.com/minio/highwayhash"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// hashKey is fixed (not secret) — HighwayHash needs a 32-byte key but the
// ledger only uses the digest for change detection, not authentication.
var hashKey = []byte("ghtc-compile-ledger-0123456789AB")

// Run is one compile invocation's summary, stored as a row.
type Run struct {
	ID             uint `gorm:"primaryKey"`
	StartedAt      time.Time
	HeaderCount    int
	FeatureCount   int
	ScenarioCount  int
	ErrorCount     int
	ContentHash    uint64
	DurationMillis int64
}

// Ledger wraps the gorm/sqlite handle.
type Ledger struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the Run table.
func Open(path string) (*Ledger, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Record inserts run as a new row.
func (l *Ledger) Record(run *Run) error {
	return l.db.Create(run).Error
}

// LastHash returns the ContentHash of the most recently started run, or
// (0, false) if the ledger is empty.
func (l *Ledger) LastHash() (uint64, bool) {
	var run Run
	if err := l.db.Order("started_at desc").First(&run).Error; err != nil {
		return 0, false
	}
	return run.ContentHash, true
}

// ContentHash digests the concatenation of every source file's bytes, in
// the order given, so reordering inputs changes the digest (deliberately —
// the compile output can depend on input order via scenario/class index).
func ContentHash(contents [][]byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	for _, c := range contents {
		if _, err := h.Write(c); err != nil {
			return 0, err
		}
	}
	return h.Sum64(), nil
}
