package testutil

import (
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merklevote/merklevote-go/pkg/logger"
	"github.com/merklevote/merklevote-go/pkg/persistence"
	"go.uber.org/zap"
)

// CreateTestVoters creates n distinct voter addresses starting at offset+1
func CreateTestVoters(n int, offset int) []common.Address {
	voters := make([]common.Address, n)
	for i := 0; i < n; i++ {
		voters[i] = common.BigToAddress(big.NewInt(int64(offset + i + 1)))
	}
	return voters
}

// NewTestLogger returns a non-debug logger for tests
func NewTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)
	return l
}

// PersistenceFactory opens a fresh, empty persistence layer for one subtest
type PersistenceFactory func(t *testing.T) persistence.IVoterPersistence

// RunPersistenceSuite exercises the IVoterPersistence contract against a backend.
func RunPersistenceSuite(t *testing.T, open PersistenceFactory) {
	t.Run("AppendAndList", func(t *testing.T) {
		p := open(t)
		defer func() { _ = p.Close() }()

		voters := CreateTestVoters(5, 0)
		for _, v := range voters {
			added, err := p.AppendIdentifier(v)
			require.NoError(t, err)
			assert.True(t, added)
		}

		listed, err := p.ListIdentifiers()
		require.NoError(t, err)
		assert.Equal(t, voters, listed)

		count, err := p.CountIdentifiers()
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("AppendIsIdempotent", func(t *testing.T) {
		p := open(t)
		defer func() { _ = p.Close() }()

		v := CreateTestVoters(1, 100)[0]
		added, err := p.AppendIdentifier(v)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = p.AppendIdentifier(v)
		require.NoError(t, err)
		assert.False(t, added)

		listed, err := p.ListIdentifiers()
		require.NoError(t, err)
		assert.Equal(t, []common.Address{v}, listed)
	})

	t.Run("EmptyList", func(t *testing.T) {
		p := open(t)
		defer func() { _ = p.Close() }()

		listed, err := p.ListIdentifiers()
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("Checkpoint", func(t *testing.T) {
		p := open(t)
		defer func() { _ = p.Close() }()

		loaded, err := p.LoadRootCheckpoint()
		require.NoError(t, err)
		assert.Nil(t, loaded)

		cp := &persistence.RootCheckpoint{
			Root:         common.HexToHash("0x01"),
			LeafCount:    1,
			HashFunction: "keccak256",
			UpdatedAt:    1700000000,
		}
		require.NoError(t, p.SaveRootCheckpoint(cp))

		cp2 := &persistence.RootCheckpoint{
			Root:         common.HexToHash("0x02"),
			LeafCount:    2,
			HashFunction: "keccak256",
			UpdatedAt:    1700000001,
		}
		require.NoError(t, p.SaveRootCheckpoint(cp2))

		loaded, err = p.LoadRootCheckpoint()
		require.NoError(t, err)
		assert.Equal(t, cp2, loaded)

		err = p.SaveRootCheckpoint(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil RootCheckpoint")
	})

	t.Run("ConcurrentAppends", func(t *testing.T) {
		p := open(t)
		defer func() { _ = p.Close() }()

		voters := CreateTestVoters(50, 1000)
		var wg sync.WaitGroup
		for w := 0; w < 5; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for _, v := range voters {
					_, err := p.AppendIdentifier(v)
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		count, err := p.CountIdentifiers()
		require.NoError(t, err)
		assert.Equal(t, 50, count)
	})

	t.Run("ClosedOperationsFail", func(t *testing.T) {
		p := open(t)
		require.NoError(t, p.HealthCheck())
		require.NoError(t, p.Close())
		require.NoError(t, p.Close(), "close must be idempotent")

		_, err := p.AppendIdentifier(CreateTestVoters(1, 0)[0])
		require.Error(t, err)
		_, err = p.ListIdentifiers()
		require.Error(t, err)
		_, err = p.LoadRootCheckpoint()
		require.Error(t, err)
		require.Error(t, p.HealthCheck())
	})
}
