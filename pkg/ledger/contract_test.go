package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/merklevote/merklevote-go/pkg/contractCaller"
	"github.com/merklevote/merklevote-go/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testContractAddress = common.HexToAddress("0x69A78592B1C0d6699eb30ea05A1b1e0420E5E468")

func TestContractLedger_SubmitVote(t *testing.T) {
	mock := contractCaller.NewMockContractCaller("Alice", "Bob")
	l := NewContractLedger(mock, testContractAddress, testutil.NewTestLogger(t))

	voters := testutil.CreateTestVoters(3, 0)
	req := proveVote(t, voters, voters[1], 0)

	receipt, err := l.SubmitVote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Alice", receipt.UpdatedCandidate.Name)
	assert.Equal(t, "1", receipt.UpdatedCandidate.VoteCount)
	assert.Equal(t, receipt.TxHash, receipt.ID)
	assert.Equal(t, uint64(1), receipt.BlockNumber)

	require.Len(t, mock.Votes, 1)
	sent := mock.Votes[0]
	assert.Equal(t, testContractAddress, sent.ContractAddress)
	assert.Equal(t, req.Root, sent.Root)
	assert.Equal(t, [][32]byte(req.Proof), sent.Proof)

	candidates, err := l.Candidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", candidates[0].VoteCount)
}

func TestContractLedger_SubmitError(t *testing.T) {
	mock := contractCaller.NewMockContractCaller("Alice")
	mock.SubmitErr = errors.New("execution reverted: Invalid Merkle proof")
	l := NewContractLedger(mock, testContractAddress, nil)

	voters := testutil.CreateTestVoters(2, 0)
	_, err := l.SubmitVote(context.Background(), proveVote(t, voters, voters[0], 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Merkle proof")
}

func TestContractLedger_MissingCandidate(t *testing.T) {
	l := NewContractLedger(contractCaller.NewMockContractCaller("Alice"), testContractAddress, nil)
	_, err := l.SubmitVote(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnknownCandidate)
}
