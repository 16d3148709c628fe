package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/merklevote/merklevote-go/pkg/config"
	"github.com/merklevote/merklevote-go/pkg/logger"
	"github.com/merklevote/merklevote-go/pkg/merkle"
	"github.com/merklevote/merklevote-go/pkg/types"
	"github.com/merklevote/merklevote-go/pkg/voterclient"
)

func addressFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "address",
		Aliases:  []string{"a"},
		Usage:    "Voter address (0x-prefixed hex)",
		Required: true,
	}
}

func main() {
	app := &cli.App{
		Name:  "voter-client",
		Usage: "Client for a merkle voter server",
		Description: `A client for admitting voters, fetching and checking membership proofs, and voting.

Proofs fetched with 'verify' are re-checked locally with the same sorted-pair
rule the server and the ledger use, so a misbehaving server cannot vouch for a
voter on its own.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server-url",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "Voter server base URL",
				EnvVars: []string{config.EnvVoterServerURL},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "admit",
				Usage:  "Admit a voter into the registry",
				Flags:  []cli.Flag{addressFlag()},
				Action: admitCommand,
			},
			{
				Name:   "root",
				Usage:  "Print the current root",
				Action: rootCommand,
			},
			{
				Name:   "prove",
				Usage:  "Fetch a membership proof for a voter",
				Flags:  []cli.Flag{addressFlag()},
				Action: proveCommand,
			},
			{
				Name:  "verify",
				Usage: "Fetch a proof and verify it locally",
				Flags: []cli.Flag{
					addressFlag(),
					&cli.StringFlag{
						Name:  "hash-function",
						Value: merkle.HashFunctionKeccak256,
						Usage: fmt.Sprintf("Hash function the server uses: %s", merkle.GetSupportedHashFunctionsString()),
					},
				},
				Action: verifyCommand,
			},
			{
				Name:  "vote",
				Usage: "Vote for a candidate",
				Flags: []cli.Flag{
					addressFlag(),
					&cli.Uint64Flag{
						Name:     "candidate-id",
						Aliases:  []string{"c"},
						Usage:    "Candidate ID",
						Required: true,
					},
				},
				Action: voteCommand,
			},
			{
				Name:   "candidates",
				Usage:  "List candidates and vote counts",
				Action: candidatesCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// createClient creates a new voter client from CLI context
func createClient(c *cli.Context) (*voterclient.Client, error) {
	zapLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return voterclient.NewClient(&voterclient.ClientConfig{
		ServerURL: c.String("server-url"),
		Logger:    zapLogger,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func admitCommand(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}
	voter, err := types.ParseIdentifierHex(c.String("address"))
	if err != nil {
		return err
	}

	resp, err := client.Admit(c.Context, voter)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func rootCommand(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}

	resp, err := client.Root(c.Context)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func proveCommand(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}
	voter, err := types.ParseIdentifierHex(c.String("address"))
	if err != nil {
		return err
	}

	resp, err := client.Prove(c.Context, voter)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func verifyCommand(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}
	voter, err := types.ParseIdentifierHex(c.String("address"))
	if err != nil {
		return err
	}
	hasher, err := merkle.NewHasher(c.String("hash-function"))
	if err != nil {
		return err
	}

	resp, valid, err := client.ProveAndVerify(c.Context, voter, merkle.NewLeafCodec(hasher, merkle.IdentifierLength))
	if err != nil {
		return err
	}
	if err := printJSON(struct {
		*types.ProofResponse
		Valid bool `json:"valid"`
	}{resp, valid}); err != nil {
		return err
	}
	if !valid {
		return cli.Exit("proof did not verify against the returned root", 1)
	}
	return nil
}

func voteCommand(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}
	voter, err := types.ParseIdentifierHex(c.String("address"))
	if err != nil {
		return err
	}

	resp, err := client.Vote(c.Context, voter, c.Uint64("candidate-id"))
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func candidatesCommand(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}

	candidates, err := client.Candidates(c.Context)
	if err != nil {
		return err
	}
	return printJSON(types.CandidatesResponse{Candidates: candidates})
}
