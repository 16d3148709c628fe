package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/merklevote/merklevote-go/pkg/persistence"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Key prefixes for namespacing
const (
	keyPrefixVoter       = "voter:"
	keyPrefixVoterIndex  = "voterindex:"
	keyVoterCount        = "metadata:voter_count"
	keyCheckpoint        = "checkpoint:latest"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
)

// BadgerPersistence is a production-ready persistence implementation using Badger.
// Provides durable, disk-based storage with ACID guarantees.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	// appendMu serializes log appends so the sequence counter never conflicts
	appendMu sync.Mutex
	closed   bool
}

// NewBadgerPersistence creates a new Badger-backed persistence layer.
// The database is opened at the specified path with SyncWrites enabled for durability.
// A background goroutine is started for garbage collection.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve absolute path")
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = newBadgerLoggerAdapter(logger)
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger database at %s", absPath)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger persistence initialized", "path", absPath)

	return bp, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return errors.Wrap(err, "failed to read schema version")
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return errors.Wrap(err, "failed to read schema version value")
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

// runGC runs periodic garbage collection in the background
func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(0.5)
			if err != nil && err != badgerdb.ErrNoRewrite {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func voterKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefixVoter, seq))
}

func voterIndexKey(id common.Address) []byte {
	return append([]byte(keyPrefixVoterIndex), id.Bytes()...)
}

func readCount(txn *badgerdb.Txn) (uint64, error) {
	item, err := txn.Get([]byte(keyVoterCount))
	if err == badgerdb.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var count uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("invalid voter count data length: %d", len(val))
		}
		count = binary.BigEndian.Uint64(val)
		return nil
	})
	return count, err
}

// AppendIdentifier records an identifier at the end of the admission log
func (b *BadgerPersistence) AppendIdentifier(id common.Address) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return false, fmt.Errorf("persistence layer is closed")
	}

	b.appendMu.Lock()
	defer b.appendMu.Unlock()

	added := false
	err := b.db.Update(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(voterIndexKey(id))
		if err == nil {
			return nil
		}
		if err != badgerdb.ErrKeyNotFound {
			return err
		}

		seq, err := readCount(txn)
		if err != nil {
			return err
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, seq)
		if err := txn.Set(voterIndexKey(id), buf); err != nil {
			return err
		}
		if err := txn.Set(voterKey(seq), id.Bytes()); err != nil {
			return err
		}

		next := make([]byte, 8)
		binary.BigEndian.PutUint64(next, seq+1)
		if err := txn.Set([]byte(keyVoterCount), next); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed to append identifier %s", id.Hex())
	}

	return added, nil
}

// ListIdentifiers returns the admission log in order.
// Keys are zero-padded so lexical iteration is admission order.
func (b *BadgerPersistence) ListIdentifiers() ([]common.Address, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	ids := make([]common.Address, 0)

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixVoter)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				if len(val) != common.AddressLength {
					return fmt.Errorf("invalid identifier length %d at key %s", len(val), string(item.Key()))
				}
				ids = append(ids, common.BytesToAddress(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list identifiers")
	}

	return ids, nil
}

// CountIdentifiers returns the admission log length
func (b *BadgerPersistence) CountIdentifiers() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, fmt.Errorf("persistence layer is closed")
	}

	var count uint64
	err := b.db.View(func(txn *badgerdb.Txn) error {
		var err error
		count, err = readCount(txn)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count identifiers")
	}
	return int(count), nil
}

// SaveRootCheckpoint overwrites the latest checkpoint
func (b *BadgerPersistence) SaveRootCheckpoint(cp *persistence.RootCheckpoint) error {
	if cp == nil {
		return fmt.Errorf("cannot save nil RootCheckpoint")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalRootCheckpoint(cp)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyCheckpoint), data)
	})
}

// LoadRootCheckpoint returns the latest checkpoint, or nil on first run
func (b *BadgerPersistence) LoadRootCheckpoint() (*persistence.RootCheckpoint, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keyCheckpoint))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load RootCheckpoint")
	}

	if data == nil {
		return nil, nil
	}

	return persistence.UnmarshalRootCheckpoint(data)
}

// Close shuts down the persistence layer
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return errors.Wrap(err, "failed to close badger database")
	}

	b.logger.Sugar().Info("Badger persistence closed")
	return nil
}

// HealthCheck verifies the persistence layer is operational
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}
