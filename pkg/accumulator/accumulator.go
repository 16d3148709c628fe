// Package accumulator owns a MembershipSet and the merkle tree derived from it.
//
// The tree is a pure function of the set snapshot. It is cached against the
// snapshot length, which is a valid version because the set never shrinks.
package accumulator

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/merklevote/merklevote-go/pkg/membership"
	"github.com/merklevote/merklevote-go/pkg/merkle"
)

const defaultProofCacheSize = 4096

// Observer receives accumulator events. Implementations must be cheap and
// non-blocking; pkg/metrics provides the Prometheus one.
type Observer interface {
	ObserveAdmit(admitted bool)
	ObserveRebuild(leafCount int, seconds float64)
	ObserveProof(found bool)
	ObserveVerify(valid bool)
}

type noopObserver struct{}

func (noopObserver) ObserveAdmit(bool)           {}
func (noopObserver) ObserveRebuild(int, float64) {}
func (noopObserver) ObserveProof(bool)           {}
func (noopObserver) ObserveVerify(bool)          {}

type proofKey struct {
	root [32]byte
	id   common.Address
}

// Accumulator is the explicitly owned handle over a membership set.
type Accumulator struct {
	set      *membership.MembershipSet
	codec    *merkle.LeafCodec
	logger   *zap.Logger
	observer Observer

	treeMu sync.RWMutex
	tree   *merkle.MerkleTree
	// treeLen is the set length the cached tree was built from
	treeLen int

	proofs *lru.Cache[proofKey, merkle.Proof]
}

// Config holds accumulator options
type Config struct {
	// Codec defaults to merkle.DefaultCodec (keccak256, 20 byte identifiers)
	Codec *merkle.LeafCodec
	// ProofCacheSize bounds memoized proofs. 0 selects the default, negative disables.
	ProofCacheSize int
	Observer       Observer
	Logger         *zap.Logger
}

// NewAccumulator creates an accumulator over set. A nil set starts empty.
func NewAccumulator(set *membership.MembershipSet, cfg *Config) (*Accumulator, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if set == nil {
		set = membership.NewMembershipSet()
	}

	codec := cfg.Codec
	if codec == nil {
		codec = merkle.DefaultCodec
	}
	if codec.Width() != common.AddressLength {
		return nil, fmt.Errorf("codec width %d does not match address length %d", codec.Width(), common.AddressLength)
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	obs := cfg.Observer
	if obs == nil {
		obs = noopObserver{}
	}

	a := &Accumulator{
		set:      set,
		codec:    codec,
		logger:   l,
		observer: obs,
		treeLen:  -1,
	}

	if cfg.ProofCacheSize >= 0 {
		size := cfg.ProofCacheSize
		if size == 0 {
			size = defaultProofCacheSize
		}
		cache, err := lru.New[proofKey, merkle.Proof](size)
		if err != nil {
			return nil, fmt.Errorf("failed to create proof cache: %w", err)
		}
		a.proofs = cache
	}

	return a, nil
}

// Codec returns the leaf codec in use
func (a *Accumulator) Codec() *merkle.LeafCodec {
	return a.codec
}

// Admit adds id to the set. It does not rebuild; the next read does.
func (a *Accumulator) Admit(id common.Address) bool {
	admitted := a.set.Admit(id)
	a.observer.ObserveAdmit(admitted)
	if admitted {
		a.logger.Sugar().Debugw("Admitted identifier", "address", id.Hex())
	}
	return admitted
}

// AdmitBatch admits ids in order and rebuilds once. It returns the newly
// admitted identifiers and the resulting root.
func (a *Accumulator) AdmitBatch(ids []common.Address) ([]common.Address, [32]byte) {
	admitted := a.set.AdmitAll(ids)
	for range admitted {
		a.observer.ObserveAdmit(true)
	}
	for i := 0; i < len(ids)-len(admitted); i++ {
		a.observer.ObserveAdmit(false)
	}

	tree, _ := a.currentTree()
	return admitted, tree.Root
}

// Len returns the number of admitted identifiers
func (a *Accumulator) Len() int {
	return a.set.Len()
}

// Contains reports whether id has been admitted
func (a *Accumulator) Contains(id common.Address) bool {
	return a.set.Contains(id)
}

// Snapshot returns the admitted identifiers in admission order
func (a *Accumulator) Snapshot() []common.Address {
	return a.set.Snapshot()
}

// Rebuild builds the tree over the current snapshot, ignoring any cached tree.
func (a *Accumulator) Rebuild() [32]byte {
	snapshot := a.set.Snapshot()
	tree := a.build(snapshot)
	a.store(tree, len(snapshot))
	return tree.Root
}

// Root returns the root over the current set, rebuilding if the set grew.
func (a *Accumulator) Root() [32]byte {
	tree, _ := a.currentTree()
	return tree.Root
}

// State returns the root together with the leaf count it covers
func (a *Accumulator) State() ([32]byte, int) {
	tree, n := a.currentTree()
	return tree.Root, n
}

// Prove returns the proof for id against the root it was generated from.
// Returns merkle.ErrNotAMember if id has not been admitted.
func (a *Accumulator) Prove(id common.Address) (merkle.Proof, [32]byte, error) {
	tree, _ := a.currentTree()

	key := proofKey{root: tree.Root, id: id}
	if a.proofs != nil {
		if cached, ok := a.proofs.Get(key); ok {
			a.observer.ObserveProof(true)
			return copyProof(cached), tree.Root, nil
		}
	}

	mp, err := tree.ProveIdentifier(id.Bytes())
	if err != nil {
		a.observer.ObserveProof(false)
		return nil, tree.Root, err
	}
	a.observer.ObserveProof(true)

	if a.proofs != nil {
		a.proofs.Add(key, copyProof(mp.Proof))
	}
	return mp.Proof, tree.Root, nil
}

// Verify checks a proof with this accumulator's codec. It is pure and never
// fails; a stale or forged proof is simply false.
func (a *Accumulator) Verify(id common.Address, proof merkle.Proof, expectedRoot [32]byte) bool {
	valid := a.codec.Verify(id.Bytes(), proof, expectedRoot)
	a.observer.ObserveVerify(valid)
	return valid
}

// currentTree returns a tree consistent with some snapshot taken during the call.
func (a *Accumulator) currentTree() (*merkle.MerkleTree, int) {
	n := a.set.Len()

	a.treeMu.RLock()
	if a.tree != nil && a.treeLen == n {
		tree := a.tree
		a.treeMu.RUnlock()
		return tree, n
	}
	a.treeMu.RUnlock()

	snapshot := a.set.Snapshot()
	tree := a.build(snapshot)
	a.store(tree, len(snapshot))
	return tree, len(snapshot)
}

func (a *Accumulator) build(snapshot []common.Address) *merkle.MerkleTree {
	start := time.Now()

	// Addresses are exactly the codec width (checked in NewAccumulator), so
	// hashing them directly is LeafCodec.Encode without the error path.
	hasher := a.codec.Hasher()
	leaves := make([][32]byte, len(snapshot))
	for i := range snapshot {
		leaves[i] = hasher.Hash(snapshot[i].Bytes())
	}
	tree := a.codec.BuildFromLeaves(leaves)

	elapsed := time.Since(start)
	a.observer.ObserveRebuild(len(snapshot), elapsed.Seconds())
	a.logger.Sugar().Debugw("Rebuilt merkle tree",
		"leaves", len(snapshot),
		"root", merkle.RootHex(tree.Root),
		"duration", elapsed,
	)
	return tree
}

// store keeps the newest tree; a slower rebuild of an older snapshot never
// replaces a newer one.
func (a *Accumulator) store(tree *merkle.MerkleTree, n int) {
	a.treeMu.Lock()
	defer a.treeMu.Unlock()

	if n >= a.treeLen {
		a.tree = tree
		a.treeLen = n
	}
}

func copyProof(p merkle.Proof) merkle.Proof {
	out := make(merkle.Proof, len(p))
	copy(out, p)
	return out
}
