package merkle

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zeebo/blake3"
)

// Supported hash function names
const (
	HashFunctionKeccak256 = "keccak256"
	HashFunctionBlake3    = "blake3"
)

// Hasher is the one-way function used for both leaves and interior nodes.
type Hasher interface {
	Hash(data []byte) [32]byte
	Name() string
}

type keccak256Hasher struct{}

// Hash returns keccak256(data), the digest Solidity's keccak256 builtin produces
func (keccak256Hasher) Hash(data []byte) [32]byte {
	return [32]byte(crypto.Keccak256Hash(data))
}

func (keccak256Hasher) Name() string { return HashFunctionKeccak256 }

type blake3Hasher struct{}

func (blake3Hasher) Hash(data []byte) [32]byte {
	return blake3.Sum256(data)
}

func (blake3Hasher) Name() string { return HashFunctionBlake3 }

var (
	// Keccak256 is the ledger-compatible hasher and the default.
	Keccak256 Hasher = keccak256Hasher{}

	// Blake3 trades ledger compatibility for speed. Proofs built with it only
	// verify against roots built with it.
	Blake3 Hasher = blake3Hasher{}
)

// NewHasher resolves a hash function by name
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", HashFunctionKeccak256:
		return Keccak256, nil
	case HashFunctionBlake3:
		return Blake3, nil
	default:
		return nil, fmt.Errorf("unsupported hash function: %s", name)
	}
}

// GetSupportedHashFunctionsString returns supported hash functions for CLI help
func GetSupportedHashFunctionsString() string {
	return fmt.Sprintf("%s (default, ledger compatible), %s", HashFunctionKeccak256, HashFunctionBlake3)
}
