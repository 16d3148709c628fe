package ledger

import (
	"context"
	"errors"

	"github.com/merklevote/merklevote-go/pkg/types"
)

var (
	// ErrProofRejected means the membership proof did not fold to the submitted root
	ErrProofRejected = errors.New("membership proof rejected")
	// ErrAlreadyVoted means the voter has a recorded vote
	ErrAlreadyVoted = errors.New("voter has already voted")
	// ErrUnknownCandidate means the candidate ID is out of range
	ErrUnknownCandidate = errors.New("unknown candidate")
)

// Ledger records votes from proven members
type Ledger interface {
	SubmitVote(ctx context.Context, req *types.VoteRequest) (*types.VoteReceipt, error)
	Candidates(ctx context.Context) ([]types.Candidate, error)
	Close() error
}
