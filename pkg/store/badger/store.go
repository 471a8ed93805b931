// Package badger provides a persistent metadata store backed by BadgerDB.
//
// BadgerDB is a fast embedded key-value store with WAL-based crash recovery,
// which makes it a good fit for the metadata workload: frequent small
// reads/writes, point lookups by id, and prefix scans for room and scope
// listings. See keys.go for the key schema.
package badger

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/marmos91/dataroom/pkg/dataroom"
)

// Config contains configuration for creating a BadgerDB metadata store.
type Config struct {
	// DBPath is the directory where BadgerDB stores its files (value log,
	// LSM tree, etc.)
	DBPath string `mapstructure:"db_path"`

	// BlockCacheSizeMB is the block cache size in megabytes (default 64)
	BlockCacheSizeMB int64 `mapstructure:"block_cache_size_mb"`

	// IndexCacheSizeMB is the index cache size in megabytes (default 32)
	IndexCacheSizeMB int64 `mapstructure:"index_cache_size_mb"`

	// InMemory runs BadgerDB without touching disk, for tests
	InMemory bool `mapstructure:"in_memory"`
}

// Store is a persistent implementation of dataroom.Store backed by BadgerDB.
//
// Thread Safety:
// BadgerDB transactions provide snapshot isolation, and every operation here
// runs inside a single transaction, so the store is safe for concurrent use
// without additional locking.
type Store struct {
	db *badger.DB
}

// New opens (or creates) a BadgerDB metadata store at config.DBPath.
func New(ctx context.Context, config Config) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(config.DBPath)
	opts = opts.WithLoggingLevel(badger.WARNING)
	opts = opts.WithCompression(options.None) // metadata values are tiny

	if config.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	blockCacheMB := config.BlockCacheSizeMB
	if blockCacheMB == 0 {
		blockCacheMB = 64
	}
	indexCacheMB := config.IndexCacheSizeMB
	if indexCacheMB == 0 {
		indexCacheMB = 32
	}
	opts = opts.WithBlockCacheSize(blockCacheMB << 20)
	opts = opts.WithIndexCacheSize(indexCacheMB << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", config.DBPath, err)
	}

	return &Store{db: db}, nil
}

// Healthcheck verifies the database can serve a read transaction.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return dataroom.DatabaseError("metadata database is closed", nil)
	}
	err := s.db.View(func(txn *badger.Txn) error { return nil })
	if err != nil {
		return dataroom.DatabaseError("metadata database is not responding", err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// listIDs collects the value of every index entry under prefix.
func listIDs(txn *badger.Txn, prefix []byte) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Rewind(); it.Valid(); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			ids = append(ids, string(val))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
