// Package main provides a CLI tool for minting API bearer tokens for veripay.
// Generated tokens are meant for configuring API_TOKEN / API_TOKEN_HASH; they
// carry no claims and expire only when rotated out of the configuration.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"veripay/pkg/secrets"
)

type tokenOutput struct {
	Token string            `json:"token,omitempty"`
	Hash  string            `json:"hash,omitempty"`
	Type  string            `json:"type"`
	Usage map[string]string `json:"usage"`
}

func main() {
	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	hashCmd := flag.NewFlagSet("hash", flag.ExitOnError)
	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)

	// token flags
	tokenWithHash := tokenCmd.Bool("with-hash", false, "Also print the bcrypt hash for API_TOKEN_HASH")
	tokenJSON := tokenCmd.Bool("json", false, "Output as JSON")

	// hash flags
	hashToken := hashCmd.String("token", "", "Token to hash (required)")
	hashJSON := hashCmd.Bool("json", false, "Output as JSON")

	// verify flags
	verifyToken := verifyCmd.String("token", "", "Token to check (required)")
	verifyHash := verifyCmd.String("hash", "", "bcrypt hash to check against (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "token":
		tokenCmd.Parse(os.Args[2:])
		generateToken(*tokenWithHash, *tokenJSON)
	case "hash":
		hashCmd.Parse(os.Args[2:])
		hashExistingToken(*hashToken, *hashJSON)
	case "verify":
		verifyCmd.Parse(os.Args[2:])
		verifyTokenAgainstHash(*verifyToken, *verifyHash)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Mint API bearer tokens for veripay

Usage:
  tokengen <command> [flags]

Commands:
  token     Generate a fresh random API token
  hash      Produce the bcrypt hash of an existing token
  verify    Check a token against a bcrypt hash

Examples:
  # Generate a token and its hash in one go
  tokengen token -with-hash

  # Hash a token you already distribute to callers
  tokengen hash -token "s3cr3t-token"

  # Confirm a configured hash matches a token
  tokengen verify -token "s3cr3t-token" -hash '$2a$10$...'

  # Output as JSON
  tokengen token -json

The server reads API_TOKEN (plain, compared in constant time) or
API_TOKEN_HASH (bcrypt). When both are set the hash wins, so the plain
token never needs to live in the server environment.

Use "tokengen <command> -h" for more information about a command.`)
}

func generateToken(withHash, jsonOutput bool) {
	token, err := secrets.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	var hash string
	if withHash {
		hash, err = secrets.Hash(token)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error hashing token: %v\n", err)
			os.Exit(1)
		}
	}

	if jsonOutput {
		output := tokenOutput{
			Token: token,
			Hash:  hash,
			Type:  "api_token",
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
				"server": "API_TOKEN=<token> or API_TOKEN_HASH=<hash>",
			},
		}
		printJSON(output)
		return
	}

	fmt.Println("API Token")
	fmt.Println("=========")
	fmt.Printf("Token: %s\n", token)
	if withHash {
		fmt.Printf("Hash:  %s\n", hash)
	}
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/api/verify-invoice")
	fmt.Println()
	fmt.Println("Server configuration:")
	fmt.Println("  API_TOKEN=<token>        # plain token, constant-time compare")
	if withHash {
		fmt.Println("  API_TOKEN_HASH=<hash>    # bcrypt hash, keeps the plain token out of the env")
	}
}

func hashExistingToken(token string, jsonOutput bool) {
	if token == "" {
		fmt.Fprintln(os.Stderr, "hash: -token is required")
		os.Exit(1)
	}

	hash, err := secrets.Hash(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		output := tokenOutput{
			Hash: hash,
			Type: "api_token_hash",
			Usage: map[string]string{
				"server": "API_TOKEN_HASH=<hash>",
			},
		}
		printJSON(output)
		return
	}

	fmt.Println("bcrypt Hash")
	fmt.Println("===========")
	fmt.Printf("Hash: %s\n", hash)
	fmt.Println()
	fmt.Println("Server configuration:")
	fmt.Println("  API_TOKEN_HASH=<hash>")
}

func verifyTokenAgainstHash(token, hash string) {
	if token == "" || hash == "" {
		fmt.Fprintln(os.Stderr, "verify: -token and -hash are required")
		os.Exit(1)
	}

	if err := secrets.Verify(token, hash); err != nil {
		fmt.Println("no match")
		os.Exit(1)
	}
	fmt.Println("match")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
