package merkle

import (
	"fmt"
	"testing"
)

// BenchmarkMerkleTreeBuild benchmarks merkle tree construction with various sizes
func BenchmarkMerkleTreeBuild(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			ids := createTestIdentifiers(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = DefaultCodec.BuildMerkleTree(ids)
			}
		})
	}
}

// BenchmarkMerkleProofGeneration benchmarks proof generation on a prebuilt tree
func BenchmarkMerkleProofGeneration(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		ids := createTestIdentifiers(size)
		tree, _ := DefaultCodec.BuildMerkleTree(ids)

		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = tree.GenerateProof(i % size)
			}
		})
	}
}

// BenchmarkMerkleProofVerification benchmarks proof verification
func BenchmarkMerkleProofVerification(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		ids := createTestIdentifiers(size)
		tree, _ := DefaultCodec.BuildMerkleTree(ids)
		proof, _ := tree.GenerateProof(0)

		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = Verify(ids[0], proof.Proof, tree.Root)
			}
		})
	}
}

func BenchmarkHashers(b *testing.B) {
	for _, h := range []Hasher{Keccak256, Blake3} {
		codec := NewLeafCodec(h, IdentifierLength)
		left, right := [32]byte{1}, [32]byte{2}
		b.Run(h.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = codec.Combine(left, right)
			}
		})
	}
}
