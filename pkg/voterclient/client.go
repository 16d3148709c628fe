package voterclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/types"
)

const defaultTimeout = 30 * time.Second

// ClientConfig holds the configuration for the voter client
type ClientConfig struct {
	ServerURL string
	Logger    *zap.Logger
	// HTTPClient defaults to a client with a 30s timeout
	HTTPClient *http.Client
}

// Client talks to a voter node over HTTP
type Client struct {
	serverURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// APIError is a non-2xx response from the node
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("server returned %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a new voter client instance
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.ServerURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	u, err := url.Parse(config.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL: %q must be http(s)://host[:port]", config.ServerURL)
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		serverURL:  strings.TrimRight(config.ServerURL, "/"),
		httpClient: httpClient,
		logger:     config.Logger,
	}, nil
}

// Admit asks the node to admit a voter
func (c *Client) Admit(ctx context.Context, voter common.Address) (*types.AdmitResponse, error) {
	var resp types.AdmitResponse
	if err := c.do(ctx, http.MethodPost, "/voters", types.AdmitRequest{Address: voter.Hex()}, &resp); err != nil {
		return nil, fmt.Errorf("failed to admit voter: %w", err)
	}

	c.logger.Sugar().Infow("Voter admitted",
		"voter", voter.Hex(),
		"admitted", resp.Admitted,
		"root", resp.Root.Hex(),
		"count", resp.Count,
	)
	return &resp, nil
}

// Root fetches the node's current root
func (c *Client) Root(ctx context.Context) (*types.RootResponse, error) {
	var resp types.RootResponse
	if err := c.do(ctx, http.MethodGet, "/root", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get root: %w", err)
	}
	return &resp, nil
}

// Prove fetches a membership proof. A voter the node never admitted is merkle.ErrNotAMember.
func (c *Client) Prove(ctx context.Context, voter common.Address) (*types.ProofResponse, error) {
	var resp types.ProofResponse
	path := "/proof?address=" + url.QueryEscape(voter.Hex())
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", merkle.ErrNotAMember, voter.Hex())
		}
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}
	return &resp, nil
}

// Verify asks the node to check a proof against root
func (c *Client) Verify(ctx context.Context, voter common.Address, proof merkle.Proof, root [32]byte) (bool, error) {
	req := types.VerifyRequest{
		Address: voter.Hex(),
		Proof:   proof.Hashes(),
		Root:    root,
	}
	var resp types.VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/verify", req, &resp); err != nil {
		return false, fmt.Errorf("failed to verify proof: %w", err)
	}
	return resp.Valid, nil
}

// ProveAndVerify fetches a proof and re-verifies it locally with codec, without trusting the node's verdict
func (c *Client) ProveAndVerify(ctx context.Context, voter common.Address, codec *merkle.LeafCodec) (*types.ProofResponse, bool, error) {
	if codec == nil {
		codec = merkle.DefaultCodec
	}

	resp, err := c.Prove(ctx, voter)
	if err != nil {
		return nil, false, err
	}

	valid := codec.Verify(voter.Bytes(), merkle.ProofFromHashes(resp.Proof), resp.Root)
	if !valid {
		c.logger.Sugar().Warnw("Proof from server failed local verification",
			"voter", voter.Hex(),
			"root", resp.Root.Hex(),
			"hash_function", codec.Hasher().Name(),
		)
	}
	return resp, valid, nil
}

// Vote submits a vote through the node
func (c *Client) Vote(ctx context.Context, voter common.Address, candidateID uint64) (*types.VoteHTTPResponse, error) {
	req := types.VoteHTTPRequest{Voter: voter.Hex(), CandidateID: candidateID}
	var resp types.VoteHTTPResponse
	if err := c.do(ctx, http.MethodPost, "/vote", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit vote: %w", err)
	}
	if resp.Receipt == nil {
		return nil, fmt.Errorf("server returned no receipt")
	}

	c.logger.Sugar().Infow("Vote recorded",
		"voter", voter.Hex(),
		"candidate", resp.Receipt.UpdatedCandidate.Name,
		"vote_count", resp.Receipt.UpdatedCandidate.VoteCount,
		"time_taken", resp.TimeTaken,
	)
	return &resp, nil
}

// Candidates lists the ledger's candidates
func (c *Client) Candidates(ctx context.Context) ([]types.Candidate, error) {
	var resp types.CandidatesResponse
	if err := c.do(ctx, http.MethodGet, "/candidates", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return resp.Candidates, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp types.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Details = errResp.Details
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		c.logger.Sugar().Debugw("Server returned error", "path", path, "status_code", resp.StatusCode, "body", string(data))
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
