package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzCombineCommutative(f *testing.F) {
	f.Add(make([]byte, 32), make([]byte, 32))
	f.Add([]byte{0xff}, []byte{0x00, 0x01})

	f.Fuzz(func(t *testing.T, a, b []byte) {
		x, y := toDigest(a), toDigest(b)
		require.Equal(t, Combine(x, y), Combine(y, x))
	})
}

func FuzzVerifyIsTotal(f *testing.F) {
	f.Add(make([]byte, 20), make([]byte, 64), make([]byte, 32))
	f.Add([]byte{}, []byte{}, []byte{})

	f.Fuzz(func(t *testing.T, identifier, proofBytes, rootBytes []byte) {
		proof := make(Proof, len(proofBytes)/32)
		for i := range proof {
			copy(proof[i][:], proofBytes[i*32:(i+1)*32])
		}
		// must not panic, result is irrelevant
		_ = Verify(identifier, proof, toDigest(rootBytes))
	})
}
