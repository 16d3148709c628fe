package persistence

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRootCheckpoint_RoundTrip(t *testing.T) {
	original := &RootCheckpoint{
		Root:         common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		LeafCount:    42,
		HashFunction: "keccak256",
		UpdatedAt:    1700000000,
	}

	data, err := MarshalRootCheckpoint(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"root":"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"`)

	restored, err := UnmarshalRootCheckpoint(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestMarshalRootCheckpoint_NilInput(t *testing.T) {
	_, err := MarshalRootCheckpoint(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil RootCheckpoint")
}

func TestUnmarshalRootCheckpoint_InvalidInput(t *testing.T) {
	_, err := UnmarshalRootCheckpoint(nil)
	require.Error(t, err)

	_, err = UnmarshalRootCheckpoint([]byte(`{"leafCount": "many"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestRootCheckpoint_Matches(t *testing.T) {
	root := [32]byte{1, 2, 3}
	cp := &RootCheckpoint{Root: common.Hash(root), LeafCount: 3, HashFunction: "keccak256"}

	assert.True(t, cp.Matches(root, 3, "keccak256"))
	assert.False(t, cp.Matches(root, 4, "keccak256"))
	assert.False(t, cp.Matches([32]byte{9}, 3, "keccak256"))
	assert.False(t, cp.Matches(root, 3, "blake3"))

	var none *RootCheckpoint
	assert.False(t, none.Matches(root, 3, "keccak256"))
}
