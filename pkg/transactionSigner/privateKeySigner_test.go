package transactionSigner

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/merklevote/merklevote-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anvil's first default account
const (
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

type chainIDBackend struct {
	EthBackend
	chainID *big.Int
}

func (b *chainIDBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return b.chainID, nil
}

func TestNewPrivateKeySigner(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	backend := &chainIDBackend{chainID: big.NewInt(31337)}
	signer, err := NewTransactionSigner(&SignerConfig{PrivateKey: testPrivateKey}, backend, l)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAddress), signer.GetFromAddress())

	opts, err := signer.GetTransactOpts(context.Background())
	require.NoError(t, err)
	assert.True(t, opts.NoSend)
	assert.Equal(t, signer.GetFromAddress(), opts.From)

	tx := types.NewTx(&types.LegacyTx{Nonce: 7})
	passthrough, err := opts.Signer(opts.From, tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), passthrough.Hash())
}

func TestNewPrivateKeySigner_InvalidKey(t *testing.T) {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	backend := &chainIDBackend{chainID: big.NewInt(1)}

	_, err := NewTransactionSigner(&SignerConfig{}, backend, l)
	require.Error(t, err)

	_, err = NewPrivateKeySigner("0xzz", backend, l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse private key")
}

func TestAddGasBuffer(t *testing.T) {
	assert.Equal(t, uint64(120000), addGasBuffer(100000))
	assert.Equal(t, uint64(0), addGasBuffer(0))
}
