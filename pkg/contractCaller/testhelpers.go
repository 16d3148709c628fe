package contractCaller

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/merklevote/merklevote-go/pkg/contractCaller/caller"
	"github.com/merklevote/merklevote-go/pkg/types"
)

// SubmittedVote records one SubmitVote call made against a MockContractCaller
type SubmittedVote struct {
	ContractAddress common.Address
	CandidateID     *big.Int
	Proof           [][32]byte
	Root            [32]byte
}

// MockContractCaller is an in-process IContractCaller for tests.
// It tallies votes per candidate index and lets tests inject failures.
type MockContractCaller struct {
	mu sync.Mutex

	Names  []string
	Counts []int64
	Votes  []SubmittedVote

	// SubmitErr, when set, is returned by SubmitVote
	SubmitErr error

	blockNumber uint64
}

// NewMockContractCaller creates a mock with the given candidate names
func NewMockContractCaller(names ...string) *MockContractCaller {
	return &MockContractCaller{
		Names:  names,
		Counts: make([]int64, len(names)),
	}
}

func (m *MockContractCaller) SubmitVote(
	ctx context.Context,
	contractAddress common.Address,
	candidateID *big.Int,
	proof [][32]byte,
	root [32]byte,
) (*ethTypes.Receipt, *caller.VoteCast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SubmitErr != nil {
		return nil, nil, m.SubmitErr
	}
	if !candidateID.IsInt64() || candidateID.Int64() < 0 || candidateID.Int64() >= int64(len(m.Names)) {
		return nil, nil, fmt.Errorf("execution reverted: invalid candidate")
	}

	idx := candidateID.Int64()
	m.Counts[idx]++
	m.blockNumber++
	m.Votes = append(m.Votes, SubmittedVote{
		ContractAddress: contractAddress,
		CandidateID:     new(big.Int).Set(candidateID),
		Proof:           proof,
		Root:            root,
	})

	receipt := &ethTypes.Receipt{
		Status:      ethTypes.ReceiptStatusSuccessful,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(m.blockNumber)),
		BlockNumber: new(big.Int).SetUint64(m.blockNumber),
	}
	event := &caller.VoteCast{
		Id:        new(big.Int).Set(candidateID),
		Name:      m.Names[idx],
		VoteCount: big.NewInt(m.Counts[idx]),
	}
	return receipt, event, nil
}

func (m *MockContractCaller) GetAllCandidates(ctx context.Context, contractAddress common.Address) ([]types.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.Candidate, len(m.Names))
	for i, name := range m.Names {
		out[i] = types.Candidate{
			ID:        fmt.Sprintf("%d", i),
			Name:      name,
			VoteCount: fmt.Sprintf("%d", m.Counts[i]),
		}
	}
	return out, nil
}

var _ IContractCaller = (*MockContractCaller)(nil)
