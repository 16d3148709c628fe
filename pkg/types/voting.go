package types

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/merklevote/merklevote-go/pkg/merkle"
)

// ParseIdentifier converts raw identifier bytes into an address.
// Any width other than 20 bytes is merkle.ErrInvalidIdentifier.
func ParseIdentifier(raw []byte) (common.Address, error) {
	if len(raw) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", merkle.ErrInvalidIdentifier, common.AddressLength, len(raw))
	}
	return common.BytesToAddress(raw), nil
}

// ParseIdentifierHex parses a 0x-prefixed (or bare) hex address.
func ParseIdentifierHex(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", merkle.ErrInvalidIdentifier, err)
	}
	return ParseIdentifier(raw)
}

// AdmitRequest asks the node to admit a voter address
type AdmitRequest struct {
	Address string `json:"address"`
}

// AdmitResponse reports the admission outcome and the resulting root
type AdmitResponse struct {
	Address  common.Address `json:"address"`
	Admitted bool           `json:"admitted"`
	Root     common.Hash    `json:"root"`
	Count    int            `json:"count"`
}

// RootResponse is the current accumulator root
type RootResponse struct {
	Root         common.Hash `json:"root"`
	Count        int         `json:"count"`
	HashFunction string      `json:"hashFunction"`
}

// ProofResponse carries a membership proof and the root it was produced against
type ProofResponse struct {
	Address common.Address `json:"address"`
	Root    common.Hash    `json:"root"`
	Proof   []common.Hash  `json:"proof"`
}

// VerifyRequest asks the node to check a proof
type VerifyRequest struct {
	Address string        `json:"address"`
	Proof   []common.Hash `json:"proof"`
	Root    common.Hash   `json:"root"`
}

// VerifyResponse is the verification result. A false result is not an error.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// VoteHTTPRequest is the /vote request body
type VoteHTTPRequest struct {
	Voter       string `json:"voter"`
	CandidateID uint64 `json:"candidateId"`
}

// VoteHTTPResponse is the /vote response body
type VoteHTTPResponse struct {
	Receipt   *VoteReceipt `json:"receipt"`
	TimeTaken float64      `json:"timeTaken"`
}

// CandidatesResponse lists candidates and their tallies
type CandidatesResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// VoteRequest is what the node hands to a Ledger
type VoteRequest struct {
	Voter       common.Address `json:"voter"`
	CandidateID *big.Int       `json:"candidateId"`
	Proof       merkle.Proof   `json:"-"`
	Root        [32]byte       `json:"-"`
}

// Candidate is a ledger candidate and its current vote count
type Candidate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	VoteCount string `json:"voteCount"`
}

// VoteReceipt is the ledger's record of an accepted vote
type VoteReceipt struct {
	ID               string      `json:"id"`
	Voter            string      `json:"voter"`
	Root             common.Hash `json:"root"`
	UpdatedCandidate Candidate   `json:"updatedCandidate"`
	TxHash           string      `json:"txHash,omitempty"`
	BlockNumber      uint64      `json:"blockNumber,omitempty"`
	RecordedAt       time.Time   `json:"recordedAt"`
}
