package caller

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/merklevote/merklevote-go/pkg/transactionSigner"
	"go.uber.org/zap"
)

type ContractCaller struct {
	backend bind.ContractBackend
	signer  transactionSigner.ITransactionSigner
	logger  *zap.Logger
}

// NewContractCaller creates a caller. signer may be nil for read-only use.
func NewContractCaller(
	backend bind.ContractBackend,
	signer transactionSigner.ITransactionSigner,
	logger *zap.Logger,
) *ContractCaller {
	return &ContractCaller{
		backend: backend,
		signer:  signer,
		logger:  logger,
	}
}
