package ledger

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/types"
	"go.uber.org/zap"
)

// MemoryLedger verifies and tallies votes in process. It applies the same
// checks a MerkleVoting deployment does: the proof must fold to the submitted
// root and each voter votes once.
type MemoryLedger struct {
	mu     sync.Mutex
	codec  *merkle.LeafCodec
	names  []string
	counts []uint64
	voted  map[common.Address]struct{}
	logger *zap.Logger
}

// NewMemoryLedger creates a ledger with candidates numbered from 0 in the given order
func NewMemoryLedger(candidates []string, codec *merkle.LeafCodec, logger *zap.Logger) (*MemoryLedger, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("at least one candidate is required")
	}
	if codec == nil {
		codec = merkle.DefaultCodec
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	names := make([]string, len(candidates))
	copy(names, candidates)

	return &MemoryLedger{
		codec:  codec,
		names:  names,
		counts: make([]uint64, len(names)),
		voted:  make(map[common.Address]struct{}),
		logger: logger,
	}, nil
}

func (l *MemoryLedger) SubmitVote(ctx context.Context, req *types.VoteRequest) (*types.VoteReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil || req.CandidateID == nil {
		return nil, fmt.Errorf("%w: missing candidate", ErrUnknownCandidate)
	}
	if !req.CandidateID.IsInt64() || req.CandidateID.Sign() < 0 || req.CandidateID.Int64() >= int64(len(l.names)) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCandidate, req.CandidateID.String())
	}

	if !l.codec.Verify(req.Voter.Bytes(), req.Proof, req.Root) {
		l.logger.Sugar().Warnw("Rejected vote with invalid proof",
			"voter", req.Voter.Hex(),
			"root", common.Hash(req.Root).Hex(),
		)
		return nil, ErrProofRejected
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.voted[req.Voter]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyVoted, req.Voter.Hex())
	}

	idx := req.CandidateID.Int64()
	l.voted[req.Voter] = struct{}{}
	l.counts[idx]++

	receipt := &types.VoteReceipt{
		ID:    uuid.NewString(),
		Voter: req.Voter.Hex(),
		Root:  common.Hash(req.Root),
		UpdatedCandidate: types.Candidate{
			ID:        strconv.FormatInt(idx, 10),
			Name:      l.names[idx],
			VoteCount: strconv.FormatUint(l.counts[idx], 10),
		},
		RecordedAt: time.Now().UTC(),
	}

	l.logger.Sugar().Infow("Vote recorded",
		"receipt", receipt.ID,
		"candidate", receipt.UpdatedCandidate.Name,
		"voteCount", receipt.UpdatedCandidate.VoteCount,
	)
	return receipt, nil
}

func (l *MemoryLedger) Candidates(ctx context.Context) ([]types.Candidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.Candidate, len(l.names))
	for i, name := range l.names {
		out[i] = types.Candidate{
			ID:        strconv.Itoa(i),
			Name:      name,
			VoteCount: strconv.FormatUint(l.counts[i], 10),
		}
	}
	return out, nil
}

// HasVoted reports whether voter has a recorded vote
func (l *MemoryLedger) HasVoted(voter common.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.voted[voter]
	return ok
}

func (l *MemoryLedger) Close() error {
	return nil
}
