package wallet

import (
	"encoding/hex"
	"os"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

const testEnv = "SPEEDRUN_TEST_PRIVATE_KEY"

func TestLoadPrivateKeyFromEnv(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	os.Setenv(testEnv, "0x"+hex.EncodeToString(crypto.FromECDSA(key)))
	defer os.Unsetenv(testEnv)

	loaded, err := LoadPrivateKeyFromEnv(testEnv)
	if err != nil {
		t.Fatalf("expected key, got error: %v", err)
	}
	if Address(loaded) != Address(key) {
		t.Fatalf("expected address %s, got %s", Address(key), Address(loaded))
	}
}

func TestLoadPrivateKeyFromEnvMissing(t *testing.T) {
	os.Unsetenv(testEnv)
	if _, err := LoadPrivateKeyFromEnv(testEnv); err == nil {
		t.Fatalf("expected error when env missing")
	}
}

func TestParsePrivateKeyInvalid(t *testing.T) {
	if _, err := ParsePrivateKey("0xzz"); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0xA125fdcaa5aD91F7cFD0826306d49187502B7B31 ")
	if err != nil {
		t.Fatalf("ParseAddress returned error: %v", err)
	}
	if !strings.EqualFold(addr.Hex(), "0xa125fdcaa5ad91f7cfd0826306d49187502b7b31") {
		t.Fatalf("unexpected address: %s", addr.Hex())
	}
	if _, err := ParseAddress("0x1234"); err == nil {
		t.Fatalf("expected error for short address")
	}
	if _, err := ParseAddress(""); err == nil {
		t.Fatalf("expected error for empty address")
	}
}
