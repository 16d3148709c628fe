package persistence

import (
	"github.com/ethereum/go-ethereum/common"
)

// RootCheckpoint records the last root the node published.
// On restart the node rebuilds from the admission log and compares against it.
type RootCheckpoint struct {
	// Root is the merkle root over the first LeafCount identifiers
	Root common.Hash `json:"root"`

	// LeafCount is the number of identifiers covered by Root
	LeafCount int `json:"leafCount"`

	// HashFunction names the hasher the root was built with
	HashFunction string `json:"hashFunction"`

	// UpdatedAt is the Unix timestamp of the checkpoint
	UpdatedAt int64 `json:"updatedAt"`
}

// Matches reports whether a rebuilt root agrees with this checkpoint
func (rc *RootCheckpoint) Matches(root [32]byte, leafCount int, hashFunction string) bool {
	if rc == nil {
		return false
	}
	return rc.Root == common.Hash(root) && rc.LeafCount == leafCount && rc.HashFunction == hashFunction
}
