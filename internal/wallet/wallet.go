package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
)

// LoadPrivateKeyFromEnv reads a hex secp256k1 key from envVar, consulting .env first.
func LoadPrivateKeyFromEnv(envVar string) (*ecdsa.PrivateKey, error) {
	_ = godotenv.Load() // best-effort
	raw := os.Getenv(envVar)
	if raw == "" {
		return nil, fmt.Errorf("%s not set", envVar)
	}
	return ParsePrivateKey(raw)
}

func ParsePrivateKey(v string) (*ecdsa.PrivateKey, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "0x")
	key, err := crypto.HexToECDSA(v)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// Address derives the account address controlled by key.
func Address(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

func ParseAddress(v string) (common.Address, error) {
	v = strings.TrimSpace(v)
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("invalid address: %q", v)
	}
	return common.HexToAddress(v), nil
}
