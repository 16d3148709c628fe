package caller

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/merklevote/merklevote-go/pkg/middleware-bindings/MerkleVoting"
	"github.com/merklevote/merklevote-go/pkg/types"
	"github.com/pkg/errors"
)

// VoteCast is the decoded VoteCast event
type VoteCast = MerkleVoting.MerkleVotingVoteCast

// SubmitVote casts a vote for candidateID with a membership proof against root
func (cc *ContractCaller) SubmitVote(
	ctx context.Context,
	contractAddress common.Address,
	candidateID *big.Int,
	proof [][32]byte,
	root [32]byte,
) (*ethereumTypes.Receipt, *VoteCast, error) {
	voting, err := MerkleVoting.NewMerkleVoting(contractAddress, cc.backend)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create MerkleVoting instance")
	}

	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build transaction options")
	}

	tx, err := voting.Vote(txOpts, candidateID, proof, root)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create vote transaction for candidate %s", candidateID.String())
	}

	cc.logger.Sugar().Infow("Submitting vote to MerkleVoting",
		"contract", contractAddress.Hex(),
		"candidateId", candidateID.String(),
		"proofLength", len(proof),
		"root", common.Bytes2Hex(root[:]),
	)

	receipt, err := cc.signAndSendTransaction(ctx, tx, "Vote")
	if err != nil {
		return nil, nil, err
	}

	event, err := ParseVoteCast(&voting.MerkleVotingFilterer, receipt)
	if err != nil {
		return receipt, nil, err
	}
	return receipt, event, nil
}

// ParseVoteCast finds the VoteCast event among a receipt's logs
func ParseVoteCast(filterer *MerkleVoting.MerkleVotingFilterer, receipt *ethereumTypes.Receipt) (*VoteCast, error) {
	for _, log := range receipt.Logs {
		if log == nil {
			continue
		}
		event, err := filterer.ParseVoteCast(*log)
		if err != nil {
			continue
		}
		return event, nil
	}
	return nil, fmt.Errorf("VoteCast event not found in logs of tx %s", receipt.TxHash.Hex())
}

// GetAllCandidates reads the full candidate table
func (cc *ContractCaller) GetAllCandidates(ctx context.Context, contractAddress common.Address) ([]types.Candidate, error) {
	voting, err := MerkleVoting.NewMerkleVotingCaller(contractAddress, cc.backend)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MerkleVoting caller")
	}

	details, err := voting.GetAllCandidatesDetails(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate details")
	}

	if len(details.Ids) != len(details.Names) || len(details.Ids) != len(details.VoteCounts) {
		return nil, fmt.Errorf("mismatched candidate detail lengths: ids=%d names=%d votes=%d",
			len(details.Ids), len(details.Names), len(details.VoteCounts))
	}

	candidates := make([]types.Candidate, len(details.Ids))
	for i := range details.Ids {
		candidates[i] = types.Candidate{
			ID:        details.Ids[i].String(),
			Name:      details.Names[i],
			VoteCount: details.VoteCounts[i].String(),
		}
	}
	return candidates, nil
}

// CandidateFromEvent converts a VoteCast event into the updated candidate
func CandidateFromEvent(event *VoteCast) types.Candidate {
	return types.Candidate{
		ID:        event.Id.String(),
		Name:      event.Name,
		VoteCount: event.VoteCount.String(),
	}
}
