package node

import (
	"fmt"
	"net/http"
	"time"
)

/*
Server exposes the voter accumulator over HTTP.

Admission:
  POST /voters       { address }                -> { address, admitted, root, count }
    - The voter is appended to the persisted log before it enters the set
    - Re-admitting a voter is a no-op that returns the current root

Proofs:
  GET  /root                                    -> { root, count, hashFunction }
  GET  /proof?address=0x..                      -> { address, root, proof[] }
    - 404 when the address was never admitted, 400 when it is not a 20 byte address
  POST /verify       { address, proof[], root } -> { valid }
    - A proof that does not fold to root is valid=false, never an error status

Voting:
  POST /vote         { voter, candidateId }     -> { receipt, timeTaken }
    - Admits the voter if new, proves membership at the current root and
      submits (voter, candidate, proof, root) to the ledger
  GET  /candidates                              -> { candidates[] }

Operations:
  GET  /metrics  Prometheus exposition
  GET  /health   persistence health check

Every route except /metrics and /health shares one token bucket and answers
429 once it is exhausted.
*/

// Server handles HTTP requests for the node
type Server struct {
	node       *Node
	httpServer *http.Server
}

// NewServer creates a new server instance
func NewServer(node *Node, port int) *Server {
	s := &Server{
		node: node,
	}

	mux := http.NewServeMux()

	// Admission and proof endpoints
	s.handle(mux, "/voters", s.handleAdmitVoter, true)
	s.handle(mux, "/root", s.handleGetRoot, true)
	s.handle(mux, "/proof", s.handleGetProof, true)
	s.handle(mux, "/verify", s.handleVerifyProof, true)

	// Ledger endpoints
	s.handle(mux, "/vote", s.handleVote, true)
	s.handle(mux, "/candidates", s.handleGetCandidates, true)

	// Operational endpoints
	mux.Handle("/metrics", node.metrics.Handler())
	s.handle(mux, "/health", s.handleHealth, false)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// handle registers a route wrapped with request metrics and, when limited, the rate limiter
func (s *Server) handle(mux *http.ServeMux, path string, h http.HandlerFunc, limited bool) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() { s.node.metrics.ObserveRequest(path, rec.status) }()

		if limited && s.node.limiter != nil && !s.node.limiter.Allow() {
			s.writeError(rec, http.StatusTooManyRequests, "rate limit exceeded", "")
			return
		}
		h(rec, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go func() {
		s.node.logger.Sugar().Infow("Starting HTTP server", "port", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.node.logger.Sugar().Errorw("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	return s.httpServer.Close()
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
