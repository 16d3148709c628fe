package node

import (
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merklevote/merklevote-go/pkg/ledger"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/persistence"
	"github.com/merklevote/merklevote-go/pkg/persistence/memory"
	"github.com/merklevote/merklevote-go/pkg/registry"
	"github.com/merklevote/merklevote-go/pkg/testutil"
)

type testNode struct {
	node        *Node
	persistence *memory.MemoryPersistence
	ledger      *ledger.MemoryLedger
}

func newTestNode(t *testing.T, cfg Config) *testNode {
	t.Helper()

	l := testutil.NewTestLogger(t)
	cfg.Logger = l

	p := memory.NewMemoryPersistence(l)
	led, err := ledger.NewMemoryLedger([]string{"alice", "bob", "carol"}, cfg.Codec, l)
	require.NoError(t, err)

	n, err := NewNode(cfg, p, led, nil)
	require.NoError(t, err)
	return &testNode{node: n, persistence: p, ledger: led}
}

func rebuildAddresses(t *testing.T, ids []common.Address) [32]byte {
	t.Helper()
	raw := make([][]byte, len(ids))
	for i, id := range ids {
		raw[i] = id.Bytes()
	}
	root, err := merkle.Rebuild(raw)
	require.NoError(t, err)
	return root
}

func TestNewNode_RequiresDependencies(t *testing.T) {
	l := testutil.NewTestLogger(t)
	led, err := ledger.NewMemoryLedger([]string{"alice"}, nil, l)
	require.NoError(t, err)

	_, err = NewNode(Config{Logger: l}, nil, led, nil)
	require.Error(t, err)

	_, err = NewNode(Config{Logger: l}, memory.NewMemoryPersistence(l), nil, nil)
	require.Error(t, err)
}

func TestNewNode_EmptyStartsAtEmptyRoot(t *testing.T) {
	tn := newTestNode(t, Config{})

	root, count := tn.node.Accumulator().State()
	assert.Equal(t, 0, count)
	assert.Equal(t, merkle.DefaultCodec.EmptyRoot(), root)

	cp, err := tn.persistence.LoadRootCheckpoint()
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestNewNode_RestoresFromPersistence(t *testing.T) {
	l := testutil.NewTestLogger(t)
	p := memory.NewMemoryPersistence(l)
	voters := testutil.CreateTestVoters(5, 0)
	for _, v := range voters {
		_, err := p.AppendIdentifier(v)
		require.NoError(t, err)
	}
	// Stale checkpoint from before the last two admissions
	require.NoError(t, p.SaveRootCheckpoint(&persistence.RootCheckpoint{
		Root:         common.Hash(rebuildAddresses(t, voters[:3])),
		LeafCount:    3,
		HashFunction: merkle.HashFunctionKeccak256,
	}))

	led, err := ledger.NewMemoryLedger([]string{"alice"}, nil, l)
	require.NoError(t, err)
	n, err := NewNode(Config{Logger: l}, p, led, nil)
	require.NoError(t, err)

	expected := rebuildAddresses(t, voters)
	root, count := n.Accumulator().State()
	assert.Equal(t, 5, count)
	assert.Equal(t, expected, root)
	assert.Equal(t, voters, n.Accumulator().Snapshot())

	cp, err := p.LoadRootCheckpoint()
	require.NoError(t, err)
	assert.True(t, cp.Matches(expected, 5, merkle.HashFunctionKeccak256))
}

func TestNode_Admit(t *testing.T) {
	tn := newTestNode(t, Config{})
	voters := testutil.CreateTestVoters(3, 0)

	for i, v := range voters {
		admitted, root, count, err := tn.node.Admit(v)
		require.NoError(t, err)
		assert.True(t, admitted)
		assert.Equal(t, i+1, count)
		assert.Equal(t, rebuildAddresses(t, voters[:i+1]), root)
	}

	t.Run("readmission is a no-op", func(t *testing.T) {
		before, _ := tn.node.Accumulator().State()
		admitted, root, count, err := tn.node.Admit(voters[1])
		require.NoError(t, err)
		assert.False(t, admitted)
		assert.Equal(t, 3, count)
		assert.Equal(t, before, root)
	})

	t.Run("log and checkpoint follow the set", func(t *testing.T) {
		logged, err := tn.persistence.ListIdentifiers()
		require.NoError(t, err)
		assert.Equal(t, voters, logged)

		cp, err := tn.persistence.LoadRootCheckpoint()
		require.NoError(t, err)
		root, count := tn.node.Accumulator().State()
		assert.True(t, cp.Matches(root, count, merkle.HashFunctionKeccak256))
	})
}

func TestNode_AdmitFailsWhenPersistenceClosed(t *testing.T) {
	tn := newTestNode(t, Config{})
	require.NoError(t, tn.persistence.Close())

	_, _, _, err := tn.node.Admit(testutil.CreateTestVoters(1, 0)[0])
	require.Error(t, err)
	assert.Equal(t, 0, tn.node.Accumulator().Len())
}

func TestNode_Preload(t *testing.T) {
	tn := newTestNode(t, Config{})
	voters := testutil.CreateTestVoters(4, 10)

	lines := make([]string, 0, len(voters)+2)
	lines = append(lines, "# registry export")
	for _, v := range voters {
		lines = append(lines, v.Hex())
	}
	lines = append(lines, "not-an-address")

	stats, err := tn.node.Preload(context.Background(), registry.NewReaderFeed(strings.NewReader(strings.Join(lines, "\n"))), 2)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Admitted)
	assert.Equal(t, 1, stats.Invalid)
	assert.Equal(t, common.Hash(rebuildAddresses(t, voters)), stats.Root)

	logged, err := tn.persistence.ListIdentifiers()
	require.NoError(t, err)
	assert.Equal(t, voters, logged)
}

func TestNode_Vote(t *testing.T) {
	tn := newTestNode(t, Config{})
	voters := testutil.CreateTestVoters(3, 0)
	for _, v := range voters[:2] {
		_, _, _, err := tn.node.Admit(v)
		require.NoError(t, err)
	}

	t.Run("admits a new voter and records the vote", func(t *testing.T) {
		receipt, err := tn.node.Vote(context.Background(), voters[2], 1)
		require.NoError(t, err)
		assert.Equal(t, "bob", receipt.UpdatedCandidate.Name)
		assert.Equal(t, "1", receipt.UpdatedCandidate.VoteCount)
		assert.Equal(t, common.Hash(rebuildAddresses(t, voters)), receipt.Root)
		assert.True(t, tn.node.Accumulator().Contains(voters[2]))
		assert.True(t, tn.ledger.HasVoted(voters[2]))
	})

	t.Run("second vote is rejected", func(t *testing.T) {
		_, err := tn.node.Vote(context.Background(), voters[2], 0)
		require.ErrorIs(t, err, ledger.ErrAlreadyVoted)
	})

	t.Run("unknown candidate", func(t *testing.T) {
		_, err := tn.node.Vote(context.Background(), voters[0], 99)
		require.ErrorIs(t, err, ledger.ErrUnknownCandidate)
	})
}

func TestNode_Stop(t *testing.T) {
	tn := newTestNode(t, Config{Port: 0})
	require.NoError(t, tn.node.Stop())
	require.Error(t, tn.persistence.HealthCheck())
}

func TestVoteResult(t *testing.T) {
	assert.Equal(t, "accepted", voteResult(nil))
	assert.Equal(t, "proof_rejected", voteResult(ledger.ErrProofRejected))
	assert.Equal(t, "already_voted", voteResult(ledger.ErrAlreadyVoted))
	assert.Equal(t, "unknown_candidate", voteResult(ledger.ErrUnknownCandidate))
	assert.Equal(t, "error", voteResult(context.Canceled))
}
