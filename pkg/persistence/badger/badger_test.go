package badger

import (
	"testing"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/merklevote/merklevote-go/pkg/logger"
	"github.com/merklevote/merklevote-go/pkg/persistence"
	"github.com/merklevote/merklevote-go/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerPersistence(t *testing.T) {
	testutil.RunPersistenceSuite(t, func(t *testing.T) persistence.IVoterPersistence {
		bp, err := NewBadgerPersistence(t.TempDir(), testutil.NewTestLogger(t))
		require.NoError(t, err)
		return bp
	})
}

func TestBadgerPersistence_AcrossRestarts(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	bp1, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)

	voters := testutil.CreateTestVoters(12, 0)
	for _, v := range voters {
		_, err := bp1.AppendIdentifier(v)
		require.NoError(t, err)
	}
	cp := &persistence.RootCheckpoint{
		Root:         common.HexToHash("0xabcdef"),
		LeafCount:    12,
		HashFunction: "keccak256",
		UpdatedAt:    1234567890,
	}
	require.NoError(t, bp1.SaveRootCheckpoint(cp))
	require.NoError(t, bp1.Close())

	bp2, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)
	defer func() { _ = bp2.Close() }()

	listed, err := bp2.ListIdentifiers()
	require.NoError(t, err)
	assert.Equal(t, voters, listed)

	loaded, err := bp2.LoadRootCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, cp, loaded)

	// Dedup index survives the restart as well
	added, err := bp2.AppendIdentifier(voters[3])
	require.NoError(t, err)
	assert.False(t, added)

	added, err = bp2.AppendIdentifier(testutil.CreateTestVoters(1, 500)[0])
	require.NoError(t, err)
	assert.True(t, added)

	count, err := bp2.CountIdentifiers()
	require.NoError(t, err)
	assert.Equal(t, 13, count)
}

func TestBadgerPersistence_OrderBeyondTenEntries(t *testing.T) {
	bp, err := NewBadgerPersistence(t.TempDir(), testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = bp.Close() }()

	// Keys must sort numerically, not as "voter:1" < "voter:10" < "voter:2"
	voters := testutil.CreateTestVoters(25, 0)
	for i := len(voters) - 1; i >= 0; i-- {
		_, err := bp.AppendIdentifier(voters[i])
		require.NoError(t, err)
	}

	listed, err := bp.ListIdentifiers()
	require.NoError(t, err)
	require.Len(t, listed, 25)
	for i := range listed {
		assert.Equal(t, voters[len(voters)-1-i], listed[i])
	}
}

func TestBadgerPersistence_RejectsUnknownSchema(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger := testutil.NewTestLogger(t)

	bp, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)
	require.NoError(t, bp.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keySchemaVersion), []byte("v0"))
	}))
	require.NoError(t, bp.Close())

	_, err = NewBadgerPersistence(tmpDir, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}
