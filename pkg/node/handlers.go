package node

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/merklevote/merklevote-go/pkg/ledger"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/types"
)

// handleAdmitVoter handles POST /voters
func (s *Server) handleAdmitVoter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req types.AdmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse request", err.Error())
		return
	}

	voter, err := types.ParseIdentifierHex(req.Address)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid address", err.Error())
		return
	}

	admitted, root, count, err := s.node.Admit(voter)
	if err != nil {
		s.node.logger.Sugar().Errorw("Failed to admit voter", "voter", voter.Hex(), "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to admit voter", "")
		return
	}

	s.writeJSON(w, http.StatusOK, types.AdmitResponse{
		Address:  voter,
		Admitted: admitted,
		Root:     common.Hash(root),
		Count:    count,
	})
}

// handleGetRoot handles GET /root
func (s *Server) handleGetRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	root, count := s.node.accumulator.State()
	s.writeJSON(w, http.StatusOK, types.RootResponse{
		Root:         common.Hash(root),
		Count:        count,
		HashFunction: s.node.accumulator.Codec().Hasher().Name(),
	})
}

// handleGetProof handles GET /proof?address=0x..
func (s *Server) handleGetProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	voter, err := types.ParseIdentifierHex(r.URL.Query().Get("address"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid address", err.Error())
		return
	}

	proof, root, err := s.node.accumulator.Prove(voter)
	if errors.Is(err, merkle.ErrNotAMember) {
		s.writeError(w, http.StatusNotFound, "address is not a member", voter.Hex())
		return
	}
	if err != nil {
		s.node.logger.Sugar().Errorw("Failed to generate proof", "voter", voter.Hex(), "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to generate proof", "")
		return
	}

	s.writeJSON(w, http.StatusOK, types.ProofResponse{
		Address: voter,
		Root:    common.Hash(root),
		Proof:   proof.Hashes(),
	})
}

// handleVerifyProof handles POST /verify
func (s *Server) handleVerifyProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req types.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse request", err.Error())
		return
	}

	voter, err := types.ParseIdentifierHex(req.Address)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid address", err.Error())
		return
	}

	valid := s.node.accumulator.Verify(voter, merkle.ProofFromHashes(req.Proof), req.Root)
	s.writeJSON(w, http.StatusOK, types.VerifyResponse{Valid: valid})
}

// handleVote handles POST /vote
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req types.VoteHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse request", err.Error())
		return
	}

	voter, err := types.ParseIdentifierHex(req.Voter)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid voter address", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), VoteTimeout)
	defer cancel()

	start := time.Now()
	receipt, err := s.node.Vote(ctx, voter, req.CandidateID)
	if err != nil {
		status := voteErrorStatus(err)
		if status == http.StatusInternalServerError {
			s.node.logger.Sugar().Errorw("Vote submission failed", "voter", voter.Hex(), "candidate_id", req.CandidateID, "error", err)
			s.writeError(w, status, "vote submission failed", "")
			return
		}
		s.writeError(w, status, "vote rejected", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, types.VoteHTTPResponse{
		Receipt:   receipt,
		TimeTaken: time.Since(start).Seconds(),
	})
}

func voteErrorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrProofRejected), errors.Is(err, ledger.ErrUnknownCandidate):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// handleGetCandidates handles GET /candidates
func (s *Server) handleGetCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	candidates, err := s.node.ledger.Candidates(r.Context())
	if err != nil {
		s.node.logger.Sugar().Errorw("Failed to list candidates", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to list candidates", "")
		return
	}

	s.writeJSON(w, http.StatusOK, types.CandidatesResponse{Candidates: candidates})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	if err := s.node.persistence.HealthCheck(); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "persistence unhealthy", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.node.logger.Sugar().Errorw("Failed to encode response", "status", status, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, details string) {
	s.writeJSON(w, status, types.ErrorResponse{Error: msg, Details: details})
}
