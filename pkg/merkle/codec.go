package merkle

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// IdentifierLength is the byte width of an address-like identifier
const IdentifierLength = common.AddressLength

var (
	// ErrInvalidIdentifier is returned when an identifier has the wrong byte width.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNotAMember is returned when a proof is requested for an identifier
	// that is not in the leaf list.
	ErrNotAMember = errors.New("identifier is not a member")
)

// LeafCodec canonicalizes identifiers into leaf hashes and combines node hashes.
// A LeafCodec is immutable and safe for concurrent use.
type LeafCodec struct {
	hasher Hasher
	width  int
}

// DefaultCodec hashes 20 byte identifiers with keccak256.
var DefaultCodec = NewLeafCodec(Keccak256, IdentifierLength)

// NewLeafCodec creates a codec for identifiers of exactly width bytes.
// A nil hasher selects keccak256.
func NewLeafCodec(hasher Hasher, width int) *LeafCodec {
	if hasher == nil {
		hasher = Keccak256
	}
	if width <= 0 {
		width = IdentifierLength
	}
	return &LeafCodec{hasher: hasher, width: width}
}

// Hasher returns the underlying hash function
func (c *LeafCodec) Hasher() Hasher {
	return c.hasher
}

// Width returns the identifier width in bytes
func (c *LeafCodec) Width() int {
	return c.width
}

// Encode hashes the raw identifier bytes into a leaf hash.
func (c *LeafCodec) Encode(identifier []byte) ([32]byte, error) {
	if len(identifier) != c.width {
		return [32]byte{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentifier, c.width, len(identifier))
	}
	return c.hasher.Hash(identifier), nil
}

// Combine hashes two node hashes into their parent. The pair is sorted
// ascending by unsigned byte value before concatenation, so
// Combine(a, b) == Combine(b, a) and proofs need no position flags.
func (c *LeafCodec) Combine(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}

	data := make([]byte, 64)
	copy(data[0:32], a[:])
	copy(data[32:64], b[:])

	return c.hasher.Hash(data)
}

// EmptyRoot is the sentinel root of a tree with no leaves: the hash of the
// empty byte string.
func (c *LeafCodec) EmptyRoot() [32]byte {
	return c.hasher.Hash([]byte{})
}

// Combine merges two digests with the default keccak256 codec
func Combine(a, b [32]byte) [32]byte {
	return DefaultCodec.Combine(a, b)
}

// EncodeLeaf hashes an identifier with the default keccak256 codec
func EncodeLeaf(identifier []byte) ([32]byte, error) {
	return DefaultCodec.Encode(identifier)
}
