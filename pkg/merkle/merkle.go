package merkle

import (
	"fmt"
)

// BuildMerkleTree creates a binary merkle tree from identifiers in the order given.
//
// Each level is reduced by combining fixed adjacent pairs (node[2i], node[2i+1]).
// If a level has an odd number of nodes the last one moves up unchanged.
// An empty identifier list yields a tree whose root is codec.EmptyRoot().
func (c *LeafCodec) BuildMerkleTree(identifiers [][]byte) (*MerkleTree, error) {
	leaves := make([][32]byte, len(identifiers))
	for i, id := range identifiers {
		leaf, err := c.Encode(id)
		if err != nil {
			return nil, fmt.Errorf("leaf %d: %w", i, err)
		}
		leaves[i] = leaf
	}

	return c.BuildFromLeaves(leaves), nil
}

// BuildFromLeaves builds the tree over already-encoded leaf hashes. It cannot
// fail: width checks belong to Encode.
func (c *LeafCodec) BuildFromLeaves(leaves [][32]byte) *MerkleTree {
	if len(leaves) == 0 {
		return &MerkleTree{
			Leaves: leaves,
			Root:   c.EmptyRoot(),
			codec:  c,
		}
	}

	levels := make([][][32]byte, 0)
	levels = append(levels, leaves)

	currentLevel := leaves
	for len(currentLevel) > 1 {
		nextLevel := make([][32]byte, 0, (len(currentLevel)+1)/2)

		for i := 0; i < len(currentLevel); i += 2 {
			if i+1 < len(currentLevel) {
				nextLevel = append(nextLevel, c.Combine(currentLevel[i], currentLevel[i+1]))
			} else {
				// promote
				nextLevel = append(nextLevel, currentLevel[i])
			}
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	return &MerkleTree{
		Leaves: leaves,
		Root:   currentLevel[0],
		levels: levels,
		codec:  c,
	}
}

// IndexOf returns the first leaf index holding the identifier's leaf hash.
func (mt *MerkleTree) IndexOf(identifier []byte) (int, error) {
	leaf, err := mt.codec.Encode(identifier)
	if err != nil {
		return -1, err
	}
	for i, l := range mt.Leaves {
		if l == leaf {
			return i, nil
		}
	}
	return -1, ErrNotAMember
}

// GenerateProof creates a merkle proof for the leaf at the given index.
// The proof consists of sibling hashes along the path from leaf to root.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*MerkleProof, error) {
	if leafIndex < 0 || leafIndex >= len(mt.Leaves) {
		return nil, fmt.Errorf("leaf index %d out of bounds (tree has %d leaves)", leafIndex, len(mt.Leaves))
	}

	proof := make(Proof, 0, len(mt.levels))
	index := leafIndex

	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		var siblingIndex int
		if index%2 == 0 {
			siblingIndex = index + 1
		} else {
			siblingIndex = index - 1
		}

		// An even node without a partner is promoted; nothing to record.
		if siblingIndex < len(currentLevel) {
			proof = append(proof, currentLevel[siblingIndex])
		}

		index = index / 2
	}

	return &MerkleProof{
		LeafIndex: leafIndex,
		Leaf:      mt.Leaves[leafIndex],
		Proof:     proof,
	}, nil
}

// ProveIdentifier locates the identifier and generates its proof.
func (mt *MerkleTree) ProveIdentifier(identifier []byte) (*MerkleProof, error) {
	index, err := mt.IndexOf(identifier)
	if err != nil {
		return nil, err
	}
	return mt.GenerateProof(index)
}

// Depth returns the number of levels above the leaves
func (mt *MerkleTree) Depth() int {
	if len(mt.levels) == 0 {
		return 0
	}
	return len(mt.levels) - 1
}

// Rebuild computes the root over identifiers in the order given.
func (c *LeafCodec) Rebuild(identifiers [][]byte) ([32]byte, error) {
	tree, err := c.BuildMerkleTree(identifiers)
	if err != nil {
		return [32]byte{}, err
	}
	return tree.Root, nil
}

// Prove builds the tree over identifiers and returns the sibling path for target.
// Returns ErrNotAMember if target is absent.
func (c *LeafCodec) Prove(identifiers [][]byte, target []byte) (Proof, error) {
	if _, err := c.Encode(target); err != nil {
		return nil, err
	}

	tree, err := c.BuildMerkleTree(identifiers)
	if err != nil {
		return nil, err
	}

	mp, err := tree.ProveIdentifier(target)
	if err != nil {
		return nil, err
	}
	return mp.Proof, nil
}

// Verify recomputes the root from the identifier and its proof.
// It never fails: malformed input, a stale proof and a forged proof all
// simply return false.
func (c *LeafCodec) Verify(identifier []byte, proof Proof, expectedRoot [32]byte) bool {
	leaf, err := c.Encode(identifier)
	if err != nil {
		return false
	}
	return c.verifyLeaf(leaf, proof, expectedRoot)
}

// VerifyProof verifies a MerkleProof against the given root.
func (c *LeafCodec) VerifyProof(proof *MerkleProof, root [32]byte) bool {
	if proof == nil {
		return false
	}
	return c.verifyLeaf(proof.Leaf, proof.Proof, root)
}

func (c *LeafCodec) verifyLeaf(leaf [32]byte, proof Proof, root [32]byte) bool {
	current := leaf
	for _, sibling := range proof {
		current = c.Combine(current, sibling)
	}
	return current == root
}

// Rebuild computes the keccak256 root over identifiers.
func Rebuild(identifiers [][]byte) ([32]byte, error) {
	return DefaultCodec.Rebuild(identifiers)
}

// Prove generates a keccak256 proof for target over identifiers.
func Prove(identifiers [][]byte, target []byte) (Proof, error) {
	return DefaultCodec.Prove(identifiers, target)
}

// Verify checks a keccak256 proof. This is the same computation the ledger
// contract performs on-chain.
func Verify(identifier []byte, proof Proof, expectedRoot [32]byte) bool {
	return DefaultCodec.Verify(identifier, proof, expectedRoot)
}

// VerifyProof checks a keccak256 MerkleProof.
func VerifyProof(proof *MerkleProof, root [32]byte) bool {
	return DefaultCodec.VerifyProof(proof, root)
}
