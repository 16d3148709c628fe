package memory

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/merklevote/merklevote-go/pkg/persistence"
)

// MemoryPersistence is an in-memory implementation of IVoterPersistence.
// This implementation is intended for TESTING and local runs only.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
type MemoryPersistence struct {
	mu sync.RWMutex

	// Admission log in order, plus a membership index for idempotent appends
	identifiers []common.Address
	seen        map[common.Address]struct{}

	checkpoint *persistence.RootCheckpoint

	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
// Logs a loud warning since this should not back a real election.
func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory persistence - ALL ADMITTED VOTERS WILL BE LOST ON RESTART",
			"hint", "set VOTER_PERSISTENCE_TYPE=badger or redis for durable storage")
	}

	return &MemoryPersistence{
		identifiers: make([]common.Address, 0),
		seen:        make(map[common.Address]struct{}),
	}
}

// AppendIdentifier records an identifier at the end of the admission log.
func (m *MemoryPersistence) AppendIdentifier(id common.Address) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, fmt.Errorf("persistence layer is closed")
	}

	if _, ok := m.seen[id]; ok {
		return false, nil
	}
	m.seen[id] = struct{}{}
	m.identifiers = append(m.identifiers, id)
	return true, nil
}

// ListIdentifiers returns the admission log in order.
func (m *MemoryPersistence) ListIdentifiers() ([]common.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	out := make([]common.Address, len(m.identifiers))
	copy(out, m.identifiers)
	return out, nil
}

// CountIdentifiers returns the admission log length.
func (m *MemoryPersistence) CountIdentifiers() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, fmt.Errorf("persistence layer is closed")
	}
	return len(m.identifiers), nil
}

// SaveRootCheckpoint overwrites the latest checkpoint.
func (m *MemoryPersistence) SaveRootCheckpoint(cp *persistence.RootCheckpoint) error {
	if cp == nil {
		return fmt.Errorf("cannot save nil RootCheckpoint")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	c := *cp
	m.checkpoint = &c
	return nil
}

// LoadRootCheckpoint returns the latest checkpoint, or nil on first run.
func (m *MemoryPersistence) LoadRootCheckpoint() (*persistence.RootCheckpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}
	if m.checkpoint == nil {
		return nil, nil
	}

	c := *m.checkpoint
	return &c, nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return nil
}
