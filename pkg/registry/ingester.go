package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/merklevote/merklevote-go/pkg/accumulator"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/persistence"
	"go.uber.org/zap"
)

const defaultBatchSize = 256

// IngesterConfig configures an Ingester
type IngesterConfig struct {
	// BatchSize is how many identifiers are admitted per rebuild. Defaults to 256.
	BatchSize int
	// Persistence records every newly admitted identifier and the root
	// checkpoint after each batch. Optional.
	Persistence persistence.IVoterPersistence
	Logger      *zap.Logger
}

// IngestStats summarizes a completed Run
type IngestStats struct {
	Read     int
	Admitted int
	Invalid  int
	Batches  int
	Root     common.Hash
}

// Ingester drains a Feed into an Accumulator
type Ingester struct {
	feed      Feed
	acc       *accumulator.Accumulator
	store     persistence.IVoterPersistence
	batchSize int
	logger    *zap.Logger
}

// NewIngester creates an ingester for feed into acc
func NewIngester(feed Feed, acc *accumulator.Accumulator, cfg *IngesterConfig) *Ingester {
	if cfg == nil {
		cfg = &IngesterConfig{}
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Ingester{
		feed:      feed,
		acc:       acc,
		store:     cfg.Persistence,
		batchSize: batchSize,
		logger:    l,
	}
}

// Run reads the feed to exhaustion. Malformed identifiers are logged and
// skipped; any other feed error, a persistence failure or ctx cancellation
// stops the run after flushing what was already read.
func (in *Ingester) Run(ctx context.Context) (*IngestStats, error) {
	stats := &IngestStats{}
	batch := make([]common.Address, 0, in.batchSize)

	for {
		id, err := in.feed.Next(ctx)
		if err != nil {
			if errors.Is(err, merkle.ErrInvalidIdentifier) {
				stats.Invalid++
				in.logger.Sugar().Warnw("Skipping invalid registry entry", "error", err)
				continue
			}
			if flushErr := in.flush(batch, stats); flushErr != nil {
				return stats, flushErr
			}
			if errors.Is(err, io.EOF) {
				stats.Root = common.Hash(in.acc.Root())
				in.logger.Sugar().Infow("Registry ingestion complete",
					"read", stats.Read,
					"admitted", stats.Admitted,
					"invalid", stats.Invalid,
					"batches", stats.Batches,
					"root", stats.Root.Hex(),
				)
				return stats, nil
			}
			return stats, err
		}

		stats.Read++
		batch = append(batch, id)
		if len(batch) >= in.batchSize {
			if err := in.flush(batch, stats); err != nil {
				return stats, err
			}
			batch = batch[:0]
		}
	}
}

// flush persists then admits one batch, rebuilding once, and checkpoints the root
func (in *Ingester) flush(batch []common.Address, stats *IngestStats) error {
	if len(batch) == 0 {
		return nil
	}

	if in.store != nil {
		for _, id := range batch {
			if _, err := in.store.AppendIdentifier(id); err != nil {
				return fmt.Errorf("failed to persist identifier %s: %w", id.Hex(), err)
			}
		}
	}

	admitted, root := in.acc.AdmitBatch(batch)
	stats.Admitted += len(admitted)
	stats.Batches++
	stats.Root = common.Hash(root)

	in.logger.Sugar().Debugw("Ingested registry batch",
		"size", len(batch),
		"admitted", len(admitted),
		"root", stats.Root.Hex(),
	)

	if in.store == nil {
		return nil
	}
	root, count := in.acc.State()
	cp := &persistence.RootCheckpoint{
		Root:         common.Hash(root),
		LeafCount:    count,
		HashFunction: in.acc.Codec().Hasher().Name(),
		UpdatedAt:    time.Now().Unix(),
	}
	if err := in.store.SaveRootCheckpoint(cp); err != nil {
		return fmt.Errorf("failed to save root checkpoint: %w", err)
	}
	return nil
}
