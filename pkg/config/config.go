package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for voter server configuration
const (
	EnvVoterPort            = "VOTER_PORT"
	EnvVoterHashFunction    = "VOTER_HASH_FUNCTION"
	EnvVoterPersistenceType = "VOTER_PERSISTENCE_TYPE"
	EnvVoterDataPath        = "VOTER_DATA_PATH"
	EnvVoterRedisAddress    = "VOTER_REDIS_ADDRESS"
	EnvVoterRedisPassword   = "VOTER_REDIS_PASSWORD"
	EnvVoterRedisDB         = "VOTER_REDIS_DB"
	EnvVoterRedisKeyPrefix  = "VOTER_REDIS_KEY_PREFIX"
	EnvVoterLedgerType      = "VOTER_LEDGER_TYPE"
	EnvVoterRPCURL          = "VOTER_RPC_URL"
	EnvVoterChainID         = "VOTER_CHAIN_ID"
	EnvVoterContractAddress = "VOTER_CONTRACT_ADDRESS"
	EnvVoterPrivateKey      = "VOTER_PRIVATE_KEY"
	EnvVoterCandidates      = "VOTER_CANDIDATES"
	EnvVoterRegistryFile    = "VOTER_REGISTRY_FILE"
	EnvVoterRateLimit       = "VOTER_RATE_LIMIT"
	EnvVoterRateBurst       = "VOTER_RATE_BURST"
	EnvVoterProofCacheSize  = "VOTER_PROOF_CACHE_SIZE"
	EnvVoterVerbose         = "VOTER_VERBOSE"

	EnvVoterServerURL = "VOTER_SERVER_URL"
)

type ChainId uint

const (
	ChainId_EthereumMainnet     ChainId = 1
	ChainId_EthereumSepolia     ChainId = 11155111
	ChainId_EthereumAnvil       ChainId = 31337
	ChainId_PolygonZkEVMCardona ChainId = 2442
)

type ChainName string

const (
	ChainName_EthereumMainnet     ChainName = "mainnet"
	ChainName_EthereumSepolia     ChainName = "sepolia"
	ChainName_EthereumAnvil       ChainName = "devnet"
	ChainName_PolygonZkEVMCardona ChainName = "zkevm-cardona"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet:     ChainName_EthereumMainnet,
	ChainId_EthereumSepolia:     ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:       ChainName_EthereumAnvil,
	ChainId_PolygonZkEVMCardona: ChainName_PolygonZkEVMCardona,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_EthereumMainnet:     ChainId_EthereumMainnet,
	ChainName_EthereumSepolia:     ChainId_EthereumSepolia,
	ChainName_EthereumAnvil:       ChainId_EthereumAnvil,
	ChainName_PolygonZkEVMCardona: ChainId_PolygonZkEVMCardona,
}

// IsEthereum reports whether the chain is an Ethereum L1 (or a local fork of one)
func IsEthereum(chainId ChainId) bool {
	switch chainId {
	case ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil:
		return true
	default:
		return false
	}
}

// GetSupportedChainIDs returns all supported chain IDs
func GetSupportedChainIDs() []ChainId {
	return []ChainId{
		ChainId_EthereumMainnet,
		ChainId_EthereumSepolia,
		ChainId_EthereumAnvil,
		ChainId_PolygonZkEVMCardona,
	}
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil), %d (zkevm cardona)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil, ChainId_PolygonZkEVMCardona)
}

type PersistenceType string

const (
	PersistenceTypeMemory PersistenceType = "memory"
	PersistenceTypeBadger PersistenceType = "badger"
	PersistenceTypeRedis  PersistenceType = "redis"
)

// PersistenceConfig selects and configures the admission log backend
type PersistenceConfig struct {
	Type     PersistenceType `json:"type"`
	DataPath string          `json:"data_path"`

	RedisAddress   string `json:"redis_address"`
	RedisPassword  string `json:"-"`
	RedisDB        int    `json:"redis_db"`
	RedisKeyPrefix string `json:"redis_key_prefix"`
}

func (pc *PersistenceConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch pc.Type {
	case PersistenceTypeMemory:
	case PersistenceTypeBadger:
		if pc.DataPath == "" {
			allErrors = append(allErrors, field.Required(path.Child("dataPath"), "dataPath is required for badger persistence"))
		}
	case PersistenceTypeRedis:
		if pc.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(path.Child("redisAddress"), "redisAddress is required for redis persistence"))
		}
		if pc.RedisDB < 0 || pc.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(path.Child("redisDB"), pc.RedisDB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), pc.Type,
			[]string{string(PersistenceTypeMemory), string(PersistenceTypeBadger), string(PersistenceTypeRedis)}))
	}
	return allErrors
}

// Validate validates the persistence configuration
func (pc *PersistenceConfig) Validate() error {
	if errs := pc.validate(field.NewPath("persistence")); len(errs) > 0 {
		return errs.ToAggregate()
	}
	return nil
}

type LedgerType string

const (
	LedgerTypeMemory   LedgerType = "memory"
	LedgerTypeContract LedgerType = "contract"
)

// LedgerConfig selects where votes are recorded
type LedgerConfig struct {
	Type LedgerType `json:"type"`

	// Memory ledger
	Candidates []string `json:"candidates"`

	// Contract ledger
	RpcUrl          string  `json:"rpc_url"`
	ChainID         ChainId `json:"chain_id"`
	ContractAddress string  `json:"contract_address"`
	PrivateKey      string  `json:"-"`
}

func (lc *LedgerConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch lc.Type {
	case LedgerTypeMemory:
		if len(lc.Candidates) == 0 {
			allErrors = append(allErrors, field.Required(path.Child("candidates"), "at least one candidate is required for the memory ledger"))
		}
		for i, c := range lc.Candidates {
			if strings.TrimSpace(c) == "" {
				allErrors = append(allErrors, field.Invalid(path.Child("candidates").Index(i), c, "candidate name cannot be empty"))
			}
		}
	case LedgerTypeContract:
		if lc.RpcUrl == "" {
			allErrors = append(allErrors, field.Required(path.Child("rpcUrl"), "rpcUrl is required for the contract ledger"))
		}
		if !common.IsHexAddress(lc.ContractAddress) {
			allErrors = append(allErrors, field.Invalid(path.Child("contractAddress"), lc.ContractAddress, "must be a hex address"))
		}
		if lc.PrivateKey == "" {
			allErrors = append(allErrors, field.Required(path.Child("privateKey"), "privateKey is required for the contract ledger"))
		} else {
			key := strings.TrimPrefix(lc.PrivateKey, "0x")
			if len(key) != 64 {
				allErrors = append(allErrors, field.Invalid(path.Child("privateKey"), "<redacted>",
					fmt.Sprintf("must be 32 bytes (64 hex chars), got %d chars", len(key))))
			}
		}
		if lc.ChainID != 0 {
			if _, ok := ChainIdToName[lc.ChainID]; !ok {
				allErrors = append(allErrors, field.Invalid(path.Child("chainId"), lc.ChainID,
					fmt.Sprintf("unsupported chain ID. Supported: %s", GetSupportedChainIDsString())))
			}
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), lc.Type,
			[]string{string(LedgerTypeMemory), string(LedgerTypeContract)}))
	}
	return allErrors
}

// Validate validates the ledger configuration
func (lc *LedgerConfig) Validate() error {
	if errs := lc.validate(field.NewPath("ledger")); len(errs) > 0 {
		return errs.ToAggregate()
	}
	return nil
}

// VoterServerConfig represents the complete configuration for a voter server
type VoterServerConfig struct {
	Port         int    `json:"port"`
	HashFunction string `json:"hash_function"`

	Persistence PersistenceConfig `json:"persistence"`
	Ledger      LedgerConfig      `json:"ledger"`

	// RegistryFile is an optional list of addresses admitted at startup
	RegistryFile string `json:"registry_file"`

	// RateLimit is requests per second across the server; 0 disables limiting
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`

	ProofCacheSize int `json:"proof_cache_size"`

	Debug   bool `json:"debug"`
	Verbose bool `json:"verbose"`
}

// Validate validates the voter server configuration
func (c *VoterServerConfig) Validate() error {
	var allErrors field.ErrorList

	if c.Port < 1 || c.Port > 65535 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("port"), c.Port, "must be between 1-65535"))
	}

	if _, err := merkle.NewHasher(c.HashFunction); err != nil {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("hashFunction"), c.HashFunction,
			[]string{merkle.HashFunctionKeccak256, merkle.HashFunctionBlake3}))
	}

	if c.Ledger.Type == LedgerTypeContract && c.HashFunction != "" && c.HashFunction != merkle.HashFunctionKeccak256 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("hashFunction"), c.HashFunction,
			"the contract ledger verifies keccak256 proofs only"))
	}

	if c.RateLimit < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rateLimit"), c.RateLimit, "cannot be negative"))
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rateBurst"), c.RateBurst, "must be at least 1 when rate limiting is enabled"))
	}

	allErrors = append(allErrors, c.Persistence.validate(field.NewPath("persistence"))...)
	allErrors = append(allErrors, c.Ledger.validate(field.NewPath("ledger"))...)

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
