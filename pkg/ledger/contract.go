package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/merklevote/merklevote-go/pkg/config"
	"github.com/merklevote/merklevote-go/pkg/contractCaller"
	"github.com/merklevote/merklevote-go/pkg/contractCaller/caller"
	"github.com/merklevote/merklevote-go/pkg/transactionSigner"
	"github.com/merklevote/merklevote-go/pkg/types"
	"go.uber.org/zap"
)

// ContractLedger submits votes to a deployed MerkleVoting contract, which
// re-verifies the proof on chain with the same sorted-pair rule.
type ContractLedger struct {
	caller          contractCaller.IContractCaller
	contractAddress common.Address
	client          *ethclient.Client
	logger          *zap.Logger
}

// NewContractLedger wraps an existing contract caller
func NewContractLedger(cc contractCaller.IContractCaller, contractAddress common.Address, logger *zap.Logger) *ContractLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractLedger{
		caller:          cc,
		contractAddress: contractAddress,
		logger:          logger,
	}
}

// NewContractLedgerFromConfig dials the RPC endpoint and builds a signing caller
func NewContractLedgerFromConfig(ctx context.Context, cfg *config.LedgerConfig, logger *zap.Logger) (*ContractLedger, error) {
	client, err := ethclient.DialContext(ctx, cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", cfg.RpcUrl, err)
	}

	if cfg.ChainID != 0 {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to get chain ID: %w", err)
		}
		if config.ChainId(chainID.Uint64()) != cfg.ChainID {
			client.Close()
			return nil, fmt.Errorf("RPC chain ID %d does not match configured chain ID %d", chainID.Uint64(), cfg.ChainID)
		}
	}

	signer, err := transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{PrivateKey: cfg.PrivateKey}, client, logger)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create transaction signer: %w", err)
	}

	cl := NewContractLedger(
		caller.NewContractCaller(client, signer, logger),
		common.HexToAddress(cfg.ContractAddress),
		logger,
	)
	cl.client = client

	logger.Sugar().Infow("Using MerkleVoting contract ledger",
		"contract", cfg.ContractAddress,
		"rpcUrl", cfg.RpcUrl,
		"from", signer.GetFromAddress().Hex(),
	)
	return cl, nil
}

func (l *ContractLedger) SubmitVote(ctx context.Context, req *types.VoteRequest) (*types.VoteReceipt, error) {
	if req == nil || req.CandidateID == nil {
		return nil, fmt.Errorf("%w: missing candidate", ErrUnknownCandidate)
	}

	receipt, event, err := l.caller.SubmitVote(ctx, l.contractAddress, req.CandidateID, [][32]byte(req.Proof), req.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to submit vote for %s: %w", req.Voter.Hex(), err)
	}

	vr := &types.VoteReceipt{
		ID:               receipt.TxHash.Hex(),
		Voter:            req.Voter.Hex(),
		Root:             common.Hash(req.Root),
		UpdatedCandidate: caller.CandidateFromEvent(event),
		TxHash:           receipt.TxHash.Hex(),
		RecordedAt:       time.Now().UTC(),
	}
	if receipt.BlockNumber != nil {
		vr.BlockNumber = receipt.BlockNumber.Uint64()
	}

	l.logger.Sugar().Infow("Vote recorded on chain",
		"txHash", vr.TxHash,
		"blockNumber", vr.BlockNumber,
		"candidate", vr.UpdatedCandidate.Name,
		"voteCount", vr.UpdatedCandidate.VoteCount,
	)
	return vr, nil
}

func (l *ContractLedger) Candidates(ctx context.Context) ([]types.Candidate, error) {
	return l.caller.GetAllCandidates(ctx, l.contractAddress)
}

func (l *ContractLedger) Close() error {
	if l.client != nil {
		l.client.Close()
	}
	return nil
}
