package persistence

import "github.com/ethereum/go-ethereum/common"

// IVoterPersistence persists the admission log across restarts.
// All implementations must be thread-safe.
//
// The interface supports:
// - Admission log (append in order, list in order)
// - Root checkpoints (the last root published and how many leaves it covers)
// - Lifecycle management (close, health check)
type IVoterPersistence interface {
	// Admission Log

	// AppendIdentifier records an admitted identifier at the end of the log.
	// Returns false without error if the identifier is already recorded (idempotent).
	AppendIdentifier(id common.Address) (bool, error)

	// ListIdentifiers returns every recorded identifier in admission order.
	// Returns empty slice if none exist, error only on storage failure.
	ListIdentifiers() ([]common.Address, error)

	// CountIdentifiers returns the length of the admission log.
	CountIdentifiers() (int, error)

	// Root Checkpoints

	// SaveRootCheckpoint overwrites the latest checkpoint.
	SaveRootCheckpoint(cp *RootCheckpoint) error

	// LoadRootCheckpoint returns the latest checkpoint.
	// Returns nil if none exists (first run), error only on storage failure.
	LoadRootCheckpoint() (*RootCheckpoint, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations should return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	HealthCheck() error
}
