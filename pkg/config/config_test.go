package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validServerConfig() *VoterServerConfig {
	return &VoterServerConfig{
		Port:         8080,
		HashFunction: "keccak256",
		Persistence:  PersistenceConfig{Type: PersistenceTypeMemory},
		Ledger: LedgerConfig{
			Type:       LedgerTypeMemory,
			Candidates: []string{"Alice", "Bob"},
		},
	}
}

func TestVoterServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *VoterServerConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *VoterServerConfig) {}},
		{name: "default hash function", mutate: func(c *VoterServerConfig) { c.HashFunction = "" }},
		{name: "bad port", mutate: func(c *VoterServerConfig) { c.Port = 0 }, wantErr: "port"},
		{name: "unknown hash", mutate: func(c *VoterServerConfig) { c.HashFunction = "sha1" }, wantErr: "hashFunction"},
		{
			name:    "badger without path",
			mutate:  func(c *VoterServerConfig) { c.Persistence.Type = PersistenceTypeBadger },
			wantErr: "persistence.dataPath",
		},
		{
			name:    "redis without address",
			mutate:  func(c *VoterServerConfig) { c.Persistence.Type = PersistenceTypeRedis },
			wantErr: "persistence.redisAddress",
		},
		{
			name:    "unknown persistence",
			mutate:  func(c *VoterServerConfig) { c.Persistence.Type = "sqlite" },
			wantErr: "persistence.type",
		},
		{
			name:    "memory ledger without candidates",
			mutate:  func(c *VoterServerConfig) { c.Ledger.Candidates = nil },
			wantErr: "ledger.candidates",
		},
		{
			name:    "rate limit without burst",
			mutate:  func(c *VoterServerConfig) { c.RateLimit = 10 },
			wantErr: "rateBurst",
		},
		{
			name: "contract ledger with blake3",
			mutate: func(c *VoterServerConfig) {
				c.HashFunction = "blake3"
				c.Ledger = LedgerConfig{
					Type:            LedgerTypeContract,
					RpcUrl:          "http://127.0.0.1:8545",
					ContractAddress: "0x69A78592B1C0d6699eb30ea05A1b1e0420E5E468",
					PrivateKey:      "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
				}
			},
			wantErr: "keccak256",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validServerConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLedgerConfig_Contract(t *testing.T) {
	lc := &LedgerConfig{
		Type:            LedgerTypeContract,
		RpcUrl:          "http://127.0.0.1:8545",
		ChainID:         ChainId_EthereumAnvil,
		ContractAddress: "0x69A78592B1C0d6699eb30ea05A1b1e0420E5E468",
		PrivateKey:      "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	}
	require.NoError(t, lc.Validate())

	lc.PrivateKey = "0x1234"
	lc.ContractAddress = "nope"
	lc.ChainID = 999
	err := lc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger.privateKey")
	assert.Contains(t, err.Error(), "ledger.contractAddress")
	assert.Contains(t, err.Error(), "ledger.chainId")
	assert.NotContains(t, err.Error(), "1234", "private key must never be echoed")
}

func TestIsEthereum(t *testing.T) {
	assert.True(t, IsEthereum(ChainId_EthereumMainnet))
	assert.True(t, IsEthereum(ChainId_EthereumAnvil))
	assert.False(t, IsEthereum(ChainId_PolygonZkEVMCardona))
}
