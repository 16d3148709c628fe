package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/merklevote/merklevote-go/pkg/config"
	"github.com/merklevote/merklevote-go/pkg/ledger"
	"github.com/merklevote/merklevote-go/pkg/logger"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/metrics"
	"github.com/merklevote/merklevote-go/pkg/node"
	"github.com/merklevote/merklevote-go/pkg/persistence"
	"github.com/merklevote/merklevote-go/pkg/persistence/badger"
	"github.com/merklevote/merklevote-go/pkg/persistence/memory"
	"github.com/merklevote/merklevote-go/pkg/persistence/redis"
	"github.com/merklevote/merklevote-go/pkg/registry"
)

const registryBatchSize = 256

func main() {
	app := &cli.App{
		Name:  "voter-server",
		Usage: "Merkle voter registry and vote gateway",
		Description: `A server that maintains a merkle accumulator over registered voter addresses.

This server implements:
- Voter admission with a durable admission log (memory, badger or redis)
- Membership proofs against the current root and proof verification
- Vote submission to an in-process ledger or a MerkleVoting contract
- Prometheus metrics and rate limiting`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8080,
				Usage:   "HTTP server port",
				EnvVars: []string{config.EnvVoterPort},
			},
			&cli.StringFlag{
				Name:    "hash-function",
				Value:   merkle.HashFunctionKeccak256,
				Usage:   fmt.Sprintf("Leaf and node hash function: %s", merkle.GetSupportedHashFunctionsString()),
				EnvVars: []string{config.EnvVoterHashFunction},
			},
			&cli.StringFlag{
				Name:    "persistence-type",
				Value:   string(config.PersistenceTypeMemory),
				Usage:   "Admission log backend: memory, badger or redis",
				EnvVars: []string{config.EnvVoterPersistenceType},
			},
			&cli.StringFlag{
				Name:    "data-path",
				Value:   "./data/voters",
				Usage:   "Badger data directory",
				EnvVars: []string{config.EnvVoterDataPath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Value:   "localhost:6379",
				Usage:   "Redis server address (host:port)",
				EnvVars: []string{config.EnvVoterRedisAddress},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				EnvVars: []string{config.EnvVoterRedisPassword},
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database number (0-15)",
				EnvVars: []string{config.EnvVoterRedisDB},
			},
			&cli.StringFlag{
				Name:    "redis-key-prefix",
				Usage:   "Prefix for all Redis keys",
				EnvVars: []string{config.EnvVoterRedisKeyPrefix},
			},
			&cli.StringFlag{
				Name:    "ledger-type",
				Value:   string(config.LedgerTypeMemory),
				Usage:   "Where votes are recorded: memory or contract",
				EnvVars: []string{config.EnvVoterLedgerType},
			},
			&cli.StringFlag{
				Name:    "candidates",
				Usage:   "Comma separated candidate names for the memory ledger",
				EnvVars: []string{config.EnvVoterCandidates},
			},
			&cli.StringFlag{
				Name:    "rpc-url",
				Aliases: []string{"rpc"},
				Value:   "http://localhost:8545",
				Usage:   "Ethereum RPC endpoint URL",
				EnvVars: []string{config.EnvVoterRPCURL},
			},
			&cli.Uint64Flag{
				Name:    "chain-id",
				Aliases: []string{"chain"},
				Usage:   fmt.Sprintf("Expected chain ID (0 accepts any): %s", config.GetSupportedChainIDsString()),
				EnvVars: []string{config.EnvVoterChainID},
			},
			&cli.StringFlag{
				Name:    "contract-address",
				Usage:   "MerkleVoting contract address",
				EnvVars: []string{config.EnvVoterContractAddress},
			},
			&cli.StringFlag{
				Name:    "private-key",
				Usage:   "Hex private key that signs vote transactions",
				EnvVars: []string{config.EnvVoterPrivateKey},
			},
			&cli.StringFlag{
				Name:    "registry-file",
				Usage:   "File of voter addresses (one per line) admitted at startup",
				EnvVars: []string{config.EnvVoterRegistryFile},
			},
			&cli.Float64Flag{
				Name:    "rate-limit",
				Usage:   "Requests per second across the server (0 disables)",
				EnvVars: []string{config.EnvVoterRateLimit},
			},
			&cli.IntFlag{
				Name:    "rate-burst",
				Value:   20,
				Usage:   "Token bucket burst size",
				EnvVars: []string{config.EnvVoterRateBurst},
			},
			&cli.IntFlag{
				Name:    "proof-cache-size",
				Usage:   "Memoized proofs (0 selects the default, negative disables)",
				EnvVars: []string{config.EnvVoterProofCacheSize},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvVoterVerbose},
			},
		},
		Action: runVoterServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func runVoterServer(c *cli.Context) error {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	cfg := parseVoterServerConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hasher, err := merkle.NewHasher(cfg.HashFunction)
	if err != nil {
		return err
	}
	codec := merkle.NewLeafCodec(hasher, merkle.IdentifierLength)

	store, err := newPersistence(&cfg.Persistence, l)
	if err != nil {
		return fmt.Errorf("failed to create persistence: %w", err)
	}

	led, err := newLedger(ctx, &cfg.Ledger, codec, l)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to create ledger: %w", err)
	}

	n, err := node.NewNode(node.Config{
		Port:           cfg.Port,
		Codec:          codec,
		ProofCacheSize: cfg.ProofCacheSize,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		Logger:         l,
	}, store, led, metrics.NewMetrics())
	if err != nil {
		_ = led.Close()
		_ = store.Close()
		return fmt.Errorf("failed to create node: %w", err)
	}
	defer func() {
		if err := n.Stop(); err != nil {
			l.Sugar().Errorw("Failed to stop node cleanly", "error", err)
		}
	}()

	if cfg.RegistryFile != "" {
		if err := preloadRegistry(ctx, n, cfg.RegistryFile, l); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		l.Sugar().Infow("Voter Server Configuration",
			"port", cfg.Port,
			"hash_function", hasher.Name(),
			"persistence", cfg.Persistence.Type,
			"ledger", cfg.Ledger.Type,
			"rate_limit", cfg.RateLimit,
			"rate_burst", cfg.RateBurst,
		)
	}

	if err := n.Start(); err != nil {
		return fmt.Errorf("failed to start node: %w", err)
	}

	root, count := n.Accumulator().State()
	l.Sugar().Infow("Voter Server running", "port", cfg.Port, "voters", count, "root", merkle.RootHex(root))
	l.Sugar().Infow("Available endpoints",
		"admission", "POST /voters",
		"proofs", "GET /root, GET /proof, POST /verify",
		"voting", "POST /vote, GET /candidates",
		"operations", "GET /metrics, GET /health")
	l.Sugar().Info("Press Ctrl+C to stop")

	<-ctx.Done()
	l.Sugar().Info("Shutting down")
	return nil
}

func parseVoterServerConfig(c *cli.Context) *config.VoterServerConfig {
	return &config.VoterServerConfig{
		Port:         c.Int("port"),
		HashFunction: c.String("hash-function"),
		Persistence: config.PersistenceConfig{
			Type:           config.PersistenceType(c.String("persistence-type")),
			DataPath:       c.String("data-path"),
			RedisAddress:   c.String("redis-address"),
			RedisPassword:  c.String("redis-password"),
			RedisDB:        c.Int("redis-db"),
			RedisKeyPrefix: c.String("redis-key-prefix"),
		},
		Ledger: config.LedgerConfig{
			Type:            config.LedgerType(c.String("ledger-type")),
			Candidates:      splitCandidates(c.String("candidates")),
			RpcUrl:          c.String("rpc-url"),
			ChainID:         config.ChainId(c.Uint64("chain-id")),
			ContractAddress: c.String("contract-address"),
			PrivateKey:      c.String("private-key"),
		},
		RegistryFile:   c.String("registry-file"),
		RateLimit:      c.Float64("rate-limit"),
		RateBurst:      c.Int("rate-burst"),
		ProofCacheSize: c.Int("proof-cache-size"),
		Debug:          c.Bool("verbose"),
		Verbose:        c.Bool("verbose"),
	}
}

func splitCandidates(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func newPersistence(cfg *config.PersistenceConfig, l *zap.Logger) (persistence.IVoterPersistence, error) {
	switch cfg.Type {
	case config.PersistenceTypeMemory:
		return memory.NewMemoryPersistence(l), nil
	case config.PersistenceTypeBadger:
		return badger.NewBadgerPersistence(cfg.DataPath, l)
	case config.PersistenceTypeRedis:
		return redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, l)
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s", cfg.Type)
	}
}

func newLedger(ctx context.Context, cfg *config.LedgerConfig, codec *merkle.LeafCodec, l *zap.Logger) (ledger.Ledger, error) {
	switch cfg.Type {
	case config.LedgerTypeMemory:
		return ledger.NewMemoryLedger(cfg.Candidates, codec, l)
	case config.LedgerTypeContract:
		return ledger.NewContractLedgerFromConfig(ctx, cfg, l)
	default:
		return nil, fmt.Errorf("unsupported ledger type: %s", cfg.Type)
	}
}

func preloadRegistry(ctx context.Context, n *node.Node, path string, l *zap.Logger) error {
	feed, err := registry.NewFileFeed(path)
	if err != nil {
		return err
	}
	defer func() { _ = feed.Close() }()

	stats, err := n.Preload(ctx, feed, registryBatchSize)
	if err != nil {
		return fmt.Errorf("failed to preload registry %s: %w", path, err)
	}
	l.Sugar().Infow("Preloaded registry",
		"path", path,
		"read", stats.Read,
		"admitted", stats.Admitted,
		"invalid", stats.Invalid,
		"root", stats.Root.Hex(),
	)
	return nil
}
