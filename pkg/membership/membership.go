package membership

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MembershipSet is an ordered, deduplicated, grow-only list of identifiers.
// Insertion order determines leaf order in the tree.
//
// Admission is serialized: the duplicate check and the append happen in one
// critical section. Readers receive copies, never the internal slice.
type MembershipSet struct {
	mu      sync.RWMutex
	members []common.Address
	index   map[common.Address]int
}

// NewMembershipSet creates an empty set
func NewMembershipSet() *MembershipSet {
	return &MembershipSet{
		members: make([]common.Address, 0),
		index:   make(map[common.Address]int),
	}
}

// Admit appends the identifier if it is not already present and reports
// whether an insertion happened. Duplicates are a silent no-op.
func (s *MembershipSet) Admit(id common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.admitLocked(id)
}

func (s *MembershipSet) admitLocked(id common.Address) bool {
	if _, exists := s.index[id]; exists {
		return false
	}
	s.index[id] = len(s.members)
	s.members = append(s.members, id)
	return true
}

// AdmitAll admits ids in order under a single lock and returns the ones that
// were newly inserted.
func (s *MembershipSet) AdmitAll(ids []common.Address) []common.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	admitted := make([]common.Address, 0, len(ids))
	for _, id := range ids {
		if s.admitLocked(id) {
			admitted = append(admitted, id)
		}
	}
	return admitted
}

// Restore bulk-loads a previously persisted admission log and returns how
// many entries were new. Same dedup rules as Admit.
func (s *MembershipSet) Restore(ids []common.Address) int {
	return len(s.AdmitAll(ids))
}

// Snapshot returns a copy of the members in insertion order.
func (s *MembershipSet) Snapshot() []common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Address, len(s.members))
	copy(out, s.members)
	return out
}

// Len returns the number of members. Since the set never shrinks the length
// doubles as a version number.
func (s *MembershipSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.members)
}

// Contains reports whether id has been admitted
func (s *MembershipSet) Contains(id common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[id]
	return ok
}

// IndexOf returns the admission position of id, or -1
func (s *MembershipSet) IndexOf(id common.Address) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}
