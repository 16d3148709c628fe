package contractCaller

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/merklevote/merklevote-go/pkg/contractCaller/caller"
	"github.com/merklevote/merklevote-go/pkg/types"
)

type IContractCaller interface {
	// SubmitVote sends vote(candidateId, proof, root) and returns the mined
	// receipt together with the VoteCast event it emitted.
	SubmitVote(
		ctx context.Context,
		contractAddress common.Address,
		candidateID *big.Int,
		proof [][32]byte,
		root [32]byte,
	) (*ethereumTypes.Receipt, *caller.VoteCast, error)

	// GetAllCandidates reads getAllCandidatesDetails()
	GetAllCandidates(ctx context.Context, contractAddress common.Address) ([]types.Candidate, error)
}

var _ IContractCaller = (*caller.ContractCaller)(nil)
