package node

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/merklevote/merklevote-go/pkg/accumulator"
	"github.com/merklevote/merklevote-go/pkg/ledger"
	"github.com/merklevote/merklevote-go/pkg/logger"
	"github.com/merklevote/merklevote-go/pkg/membership"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/metrics"
	"github.com/merklevote/merklevote-go/pkg/persistence"
	"github.com/merklevote/merklevote-go/pkg/registry"
	"github.com/merklevote/merklevote-go/pkg/types"
)

const (
	// VoteTimeout bounds a single ledger submission
	VoteTimeout = 2 * time.Minute
)

// Node owns the voter accumulator and serves it over HTTP
type Node struct {
	Port int

	// Dependencies
	accumulator *accumulator.Accumulator
	persistence persistence.IVoterPersistence
	ledger      ledger.Ledger
	metrics     *metrics.Metrics
	limiter     *rate.Limiter
	server      *Server
	logger      *zap.Logger

	// admitMu keeps the persisted log in the same order as the set
	admitMu sync.Mutex
}

// Config holds node configuration
type Config struct {
	Port int
	// Codec defaults to keccak256 over 20 byte addresses
	Codec          *merkle.LeafCodec
	ProofCacheSize int
	// RateLimit is requests per second across the server. 0 disables limiting.
	RateLimit float64
	RateBurst int
	Logger    *zap.Logger // Optional logger, will create default if nil
}

// NewNode creates a node and restores the accumulator from the persisted admission log
func NewNode(cfg Config, p persistence.IVoterPersistence, l ledger.Ledger, m *metrics.Metrics) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("persistence is required")
	}
	if l == nil {
		return nil, fmt.Errorf("ledger is required")
	}

	nodeLogger := cfg.Logger
	if nodeLogger == nil {
		nodeLogger, _ = logger.NewLogger(&logger.LoggerConfig{Debug: false})
	}
	if m == nil {
		m = metrics.NewMetrics()
	}

	acc, err := accumulator.NewAccumulator(membership.NewMembershipSet(), &accumulator.Config{
		Codec:          cfg.Codec,
		ProofCacheSize: cfg.ProofCacheSize,
		Observer:       m,
		Logger:         nodeLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create accumulator: %w", err)
	}

	n := &Node{
		Port:        cfg.Port,
		accumulator: acc,
		persistence: p,
		ledger:      l,
		metrics:     m,
		logger:      nodeLogger,
	}
	if cfg.RateLimit > 0 {
		n.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	if err := n.restore(); err != nil {
		return nil, err
	}

	n.server = NewServer(n, cfg.Port)
	return n, nil
}

// restore replays the admission log and compares the result with the last checkpoint
func (n *Node) restore() error {
	ids, err := n.persistence.ListIdentifiers()
	if err != nil {
		return fmt.Errorf("failed to load admission log: %w", err)
	}
	_, root := n.accumulator.AdmitBatch(ids)
	count := n.accumulator.Len()
	hashName := n.accumulator.Codec().Hasher().Name()

	cp, err := n.persistence.LoadRootCheckpoint()
	if err != nil {
		return fmt.Errorf("failed to load root checkpoint: %w", err)
	}

	switch {
	case cp == nil:
		n.logger.Sugar().Infow("No root checkpoint found, starting fresh", "voters", count)
	case cp.Matches(root, count, hashName):
		n.logger.Sugar().Infow("Restored voters from persistence", "voters", count, "root", merkle.RootHex(root))
	default:
		n.logger.Sugar().Warnw("Rebuilt root does not match checkpoint",
			"voters", count,
			"root", merkle.RootHex(root),
			"checkpoint_root", cp.Root.Hex(),
			"checkpoint_voters", cp.LeafCount,
			"checkpoint_hash_function", cp.HashFunction,
		)
	}

	if cp == nil && count == 0 {
		return nil
	}
	if cp.Matches(root, count, hashName) {
		return nil
	}
	return n.checkpoint(root, count)
}

func (n *Node) checkpoint(root [32]byte, count int) error {
	return n.persistence.SaveRootCheckpoint(&persistence.RootCheckpoint{
		Root:         common.Hash(root),
		LeafCount:    count,
		HashFunction: n.accumulator.Codec().Hasher().Name(),
		UpdatedAt:    time.Now().Unix(),
	})
}

// Start starts the node's HTTP server
func (n *Node) Start() error {
	return n.server.Start()
}

// Stop stops the HTTP server and releases the ledger and persistence layer
func (n *Node) Stop() error {
	var errs []error
	if err := n.server.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop server: %w", err))
	}
	if err := n.ledger.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close ledger: %w", err))
	}
	if err := n.persistence.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close persistence: %w", err))
	}
	return errors.Join(errs...)
}

// Handler returns the node's HTTP handler
func (n *Node) Handler() http.Handler {
	return n.server.GetHandler()
}

// Accumulator returns the node's accumulator
func (n *Node) Accumulator() *accumulator.Accumulator {
	return n.accumulator
}

// Admit persists and admits a voter. Already-admitted voters return false with the current root.
func (n *Node) Admit(id common.Address) (bool, [32]byte, int, error) {
	n.admitMu.Lock()
	defer n.admitMu.Unlock()

	if n.accumulator.Contains(id) {
		root, count := n.accumulator.State()
		return false, root, count, nil
	}

	if _, err := n.persistence.AppendIdentifier(id); err != nil {
		return false, [32]byte{}, 0, fmt.Errorf("failed to persist voter: %w", err)
	}
	admitted := n.accumulator.Admit(id)
	root, count := n.accumulator.State()

	if err := n.checkpoint(root, count); err != nil {
		n.logger.Sugar().Warnw("Failed to save root checkpoint", "error", err)
	}

	n.logger.Sugar().Debugw("Admitted voter", "voter", id.Hex(), "root", merkle.RootHex(root), "voters", count)
	return admitted, root, count, nil
}

// Preload drains a registry feed into the accumulator before serving
func (n *Node) Preload(ctx context.Context, feed registry.Feed, batchSize int) (*registry.IngestStats, error) {
	n.admitMu.Lock()
	defer n.admitMu.Unlock()

	ing := registry.NewIngester(feed, n.accumulator, &registry.IngesterConfig{
		BatchSize:   batchSize,
		Persistence: n.persistence,
		Logger:      n.logger,
	})
	return ing.Run(ctx)
}

// Vote admits the voter if new, proves membership against the current root and submits to the ledger
func (n *Node) Vote(ctx context.Context, voter common.Address, candidateID uint64) (*types.VoteReceipt, error) {
	if _, _, _, err := n.Admit(voter); err != nil {
		return nil, err
	}

	proof, root, err := n.accumulator.Prove(voter)
	if err != nil {
		return nil, fmt.Errorf("failed to prove voter membership: %w", err)
	}

	receipt, err := n.ledger.SubmitVote(ctx, &types.VoteRequest{
		Voter:       voter,
		CandidateID: new(big.Int).SetUint64(candidateID),
		Proof:       proof,
		Root:        root,
	})
	n.metrics.ObserveVote(voteResult(err))
	if err != nil {
		return nil, err
	}

	n.logger.Sugar().Infow("Vote recorded",
		"voter", voter.Hex(),
		"candidate", receipt.UpdatedCandidate.Name,
		"root", merkle.RootHex(root),
		"tx_hash", receipt.TxHash,
	)
	return receipt, nil
}

func voteResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ledger.ErrProofRejected):
		return "proof_rejected"
	case errors.Is(err, ledger.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ledger.ErrUnknownCandidate):
		return "unknown_candidate"
	default:
		return "error"
	}
}
