package repositories

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
)

// OpenDB opens the Badger database at path. An empty path opens an in-memory
// database, which is what tests use.
func OpenDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Stats counts the live entries of each kind in the database.
type Stats struct {
	Sessions int
	Uploads  int
}

func ReadStats(db *badger.DB) (Stats, error) {
	var stats Stats
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			switch {
			case bytes.HasPrefix(key, []byte(SessionKeyPrefix)):
				stats.Sessions++
			case bytes.HasPrefix(key, []byte(UploadKeyPrefix)) && bytes.HasSuffix(key, []byte("/meta")):
				stats.Uploads++
			}
		}
		return nil
	})
	return stats, err
}
