package merkle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MerkleTree is a binary merkle tree over identifiers in admission order.
// Unpaired nodes at the end of a level are promoted, never duplicated.
type MerkleTree struct {
	// Leaves contains the leaf hashes in admission order
	Leaves [][32]byte

	// Root is the merkle root hash, or the codec's EmptyRoot for no leaves
	Root [32]byte

	// levels stores all tree levels for proof generation
	// levels[0] = leaves, levels[len-1] = root
	levels [][][32]byte

	codec *LeafCodec
}

// Proof is the ordered list of sibling hashes from leaf to root.
// It carries no left/right flags: the sorted pair rule makes them unnecessary.
type Proof [][32]byte

// MerkleProof is a Proof plus the bookkeeping used to generate it.
type MerkleProof struct {
	// LeafIndex is the position of the leaf in admission order
	LeafIndex int

	// Leaf is the hash of the identifier being proven
	Leaf [32]byte

	// Proof contains the sibling hashes from leaf to root.
	// Levels where the node was promoted unpaired contribute nothing.
	Proof Proof
}

// Hex renders the proof as 0x-prefixed lowercase hex strings
func (p Proof) Hex() []string {
	out := make([]string, len(p))
	for i, h := range p {
		out[i] = hexutil.Encode(h[:])
	}
	return out
}

// Hashes converts the proof into go-ethereum hashes for JSON transport
func (p Proof) Hashes() []common.Hash {
	out := make([]common.Hash, len(p))
	for i, h := range p {
		out[i] = common.Hash(h)
	}
	return out
}

// ProofFromHashes is the inverse of Proof.Hashes
func ProofFromHashes(hashes []common.Hash) Proof {
	out := make(Proof, len(hashes))
	for i, h := range hashes {
		out[i] = [32]byte(h)
	}
	return out
}

// ProofFromHex parses a proof rendered by Proof.Hex.
func ProofFromHex(elements []string) (Proof, error) {
	out := make(Proof, len(elements))
	for i, e := range elements {
		b, err := hexutil.Decode(e)
		if err != nil {
			return nil, fmt.Errorf("proof element %d: %w", i, err)
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("proof element %d: expected 32 bytes, got %d", i, len(b))
		}
		copy(out[i][:], b)
	}
	return out, nil
}

// RootHex renders a root as 0x-prefixed lowercase hex
func RootHex(root [32]byte) string {
	return hexutil.Encode(root[:])
}
