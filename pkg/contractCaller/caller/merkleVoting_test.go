package caller

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/merklevote/merklevote-go/pkg/middleware-bindings/MerkleVoting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voteCastLog(t *testing.T, id int64, name string, count int64) *ethereumTypes.Log {
	t.Helper()
	parsed, err := MerkleVoting.MerkleVotingMetaData.GetAbi()
	require.NoError(t, err)

	ev := parsed.Events["VoteCast"]
	data, err := ev.Inputs.NonIndexed().Pack(big.NewInt(id), name, big.NewInt(count))
	require.NoError(t, err)

	return &ethereumTypes.Log{
		Topics: []common.Hash{ev.ID},
		Data:   data,
	}
}

func TestParseVoteCast(t *testing.T) {
	filterer, err := MerkleVoting.NewMerkleVotingFilterer(common.HexToAddress("0x01"), nil)
	require.NoError(t, err)

	receipt := &ethereumTypes.Receipt{
		TxHash: common.HexToHash("0xabc"),
		Logs: []*ethereumTypes.Log{
			{Topics: []common.Hash{common.HexToHash("0xdead")}},
			voteCastLog(t, 2, "Bob", 5),
		},
	}

	event, err := ParseVoteCast(filterer, receipt)
	require.NoError(t, err)
	assert.Equal(t, "Bob", event.Name)

	candidate := CandidateFromEvent(event)
	assert.Equal(t, "2", candidate.ID)
	assert.Equal(t, "5", candidate.VoteCount)
}

func TestParseVoteCast_Missing(t *testing.T) {
	filterer, err := MerkleVoting.NewMerkleVotingFilterer(common.HexToAddress("0x01"), nil)
	require.NoError(t, err)

	_, err = ParseVoteCast(filterer, &ethereumTypes.Receipt{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VoteCast event not found")
}

func TestSubmitVote_RequiresSigner(t *testing.T) {
	cc := NewContractCaller(nil, nil, nil)
	_, err := cc.buildTransactionOpts(context.Background())
	require.Error(t, err)
}
