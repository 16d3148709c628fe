package merkle

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func toDigest(b []byte) [32]byte {
	var d [32]byte
	copy(d[:], b)
	return d
}

func TestAccumulatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("combine is order independent", prop.ForAll(
		func(a, b []byte) bool {
			x, y := toDigest(a), toDigest(b)
			return Combine(x, y) == Combine(y, x)
		},
		gen.SliceOfN(32, gen.UInt8()),
		gen.SliceOfN(32, gen.UInt8()),
	))

	properties.Property("rebuild is deterministic", prop.ForAll(
		func(n int) bool {
			ids := createTestIdentifiers(n)
			r1, err1 := Rebuild(ids)
			r2, err2 := Rebuild(ids)
			return err1 == nil && err2 == nil && r1 == r2
		},
		gen.IntRange(0, 80),
	))

	properties.Property("every member proves and verifies", prop.ForAll(
		func(n int) bool {
			ids := createTestIdentifiers(n)
			tree, err := DefaultCodec.BuildMerkleTree(ids)
			if err != nil {
				return false
			}
			for _, id := range ids {
				proof, err := Prove(ids, id)
				if err != nil || !Verify(id, proof, tree.Root) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 40),
	))

	properties.Property("non members are rejected", prop.ForAll(
		func(n int) bool {
			ids := createTestIdentifiers(n)
			outsider := createTestIdentifiers(n + 1)[n]
			_, err := Prove(ids, outsider)
			return err == ErrNotAMember
		},
		gen.IntRange(0, 40),
	))

	properties.Property("flipping any proof byte breaks verification", prop.ForAll(
		func(n, target, element, bytePos int) bool {
			ids := createTestIdentifiers(n)
			root, err := Rebuild(ids)
			if err != nil {
				return false
			}
			id := ids[target%n]
			proof, err := Prove(ids, id)
			if err != nil {
				return false
			}
			if len(proof) == 0 {
				return true
			}
			tampered := make(Proof, len(proof))
			copy(tampered, proof)
			tampered[element%len(proof)][bytePos%32] ^= 0x01
			return !Verify(id, tampered, root)
		},
		gen.IntRange(2, 40),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 31),
	))

	properties.Property("a different root is rejected", prop.ForAll(
		func(n int) bool {
			ids := createTestIdentifiers(n)
			root, _ := Rebuild(ids)
			other, _ := Rebuild(ids[:n-1])
			proof, err := Prove(ids, ids[0])
			if err != nil {
				return false
			}
			return bytes.Equal(root[:], other[:]) || !Verify(ids[0], proof, other)
		},
		gen.IntRange(2, 40),
	))

	properties.TestingRun(t)
}
