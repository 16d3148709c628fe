package registry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/merklevote/merklevote-go/pkg/accumulator"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/persistence/memory"
	"github.com/merklevote/merklevote-go/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccumulator(t *testing.T) *accumulator.Accumulator {
	t.Helper()
	acc, err := accumulator.NewAccumulator(nil, &accumulator.Config{})
	require.NoError(t, err)
	return acc
}

func TestIngester_Run(t *testing.T) {
	voters := testutil.CreateTestVoters(10, 0)
	ch := make(chan common.Address, 12)
	for _, v := range voters {
		ch <- v
	}
	ch <- voters[0]
	ch <- voters[1]
	close(ch)

	acc := newAccumulator(t)
	store := memory.NewMemoryPersistence(nil)
	defer func() { _ = store.Close() }()

	in := NewIngester(NewChannelFeed(ch), acc, &IngesterConfig{
		BatchSize:   4,
		Persistence: store,
		Logger:      testutil.NewTestLogger(t),
	})

	stats, err := in.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Read)
	assert.Equal(t, 10, stats.Admitted)
	assert.Equal(t, 3, stats.Batches)

	raw := make([][]byte, len(voters))
	for i, v := range voters {
		raw[i] = v.Bytes()
	}
	expected, err := merkle.Rebuild(raw)
	require.NoError(t, err)
	assert.Equal(t, common.Hash(expected), stats.Root)

	persisted, err := store.ListIdentifiers()
	require.NoError(t, err)
	assert.Equal(t, voters, persisted)

	cp, err := store.LoadRootCheckpoint()
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.True(t, cp.Matches(expected, 10, merkle.HashFunctionKeccak256))
}

func TestIngester_SkipsInvalidLines(t *testing.T) {
	input := "0x0000000000000000000000000000000000000001\nbogus\n0x0000000000000000000000000000000000000002\n"

	acc := newAccumulator(t)
	stats, err := NewIngester(NewReaderFeed(strings.NewReader(input)), acc, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Invalid)
	assert.Equal(t, 2, stats.Admitted)
	assert.Equal(t, 2, acc.Len())
}

func TestIngester_EmptyFeed(t *testing.T) {
	ch := make(chan common.Address)
	close(ch)

	acc := newAccumulator(t)
	stats, err := NewIngester(NewChannelFeed(ch), acc, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Batches)
	assert.Equal(t, common.Hash(merkle.DefaultCodec.EmptyRoot()), stats.Root)
}

func TestIngester_ContextCancelled(t *testing.T) {
	ch := make(chan common.Address, 1)
	ch <- common.HexToAddress("0x01")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	acc := newAccumulator(t)
	_, err := NewIngester(NewChannelFeed(ch), acc, &IngesterConfig{BatchSize: 10}).Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// the partial batch is flushed before returning
	assert.Equal(t, 1, acc.Len())
}
