package config

import (
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "speedrun-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.MetricsAddr != ":9109" {
		t.Fatalf("unexpected App.MetricsAddr: %s", cfg.App.MetricsAddr)
	}
	if cfg.Paths.Journal != "testdata/journal.jsonl" {
		t.Fatalf("unexpected journal path: %s", cfg.Paths.Journal)
	}
	if cfg.Wallet.PrivateKeyEnv != DefaultPrivateKeyEnv {
		t.Fatalf("expected default key env, got %s", cfg.Wallet.PrivateKeyEnv)
	}

	local, err := cfg.Network("")
	if err != nil {
		t.Fatalf("Network returned error: %v", err)
	}
	if local.Name != "localhost" {
		t.Fatalf("expected default network localhost, got %s", local.Name)
	}
	if local.ChainID != 31337 || !local.AutoMine {
		t.Fatalf("unexpected localhost network: %+v", local)
	}
	if local.MaxValuePerTx != "5" {
		t.Fatalf("unexpected max value per tx: %s", local.MaxValuePerTx)
	}
	if local.TimeoutSeconds != 300 || local.ReceiptPollMs != 250 {
		t.Fatalf("expected timeout/poll defaults, got %d/%d", local.TimeoutSeconds, local.ReceiptPollMs)
	}

	sepolia, err := cfg.Network("sepolia")
	if err != nil {
		t.Fatalf("Network(sepolia) returned error: %v", err)
	}
	if sepolia.TimeoutSeconds != 900 {
		t.Fatalf("unexpected sepolia timeout: %d", sepolia.TimeoutSeconds)
	}
	if sepolia.ChainID != 0 {
		t.Fatalf("expected chain id left for the node, got %d", sepolia.ChainID)
	}
}

func TestLoadScriptDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	ex := cfg.Scripts.Exchange
	if ex.Token != "Balloons" || ex.Exchange != "DEX" {
		t.Fatalf("unexpected contract names: %s/%s", ex.Token, ex.Exchange)
	}
	if ex.Gift != "100" || ex.Allowance != "100" {
		t.Fatalf("unexpected gift/allowance: %s/%s", ex.Gift, ex.Allowance)
	}
	if ex.PoolTokens != "2" || ex.PoolETH != "2" {
		t.Fatalf("expected pool eth to follow pool tokens, got %s/%s", ex.PoolTokens, ex.PoolETH)
	}
	if ex.InitGasLimit != 200000 {
		t.Fatalf("unexpected init gas limit: %d", ex.InitGasLimit)
	}
	if ex.Recipient != "0xdcAf63dAE8C73e64A49FcF35f4718635664b1FF4" {
		t.Fatalf("unexpected recipient: %s", ex.Recipient)
	}

	v := cfg.Scripts.Vendor
	if v.Token != "YourToken" || v.Vendor != "Vendor" {
		t.Fatalf("unexpected vendor contracts: %s/%s", v.Token, v.Vendor)
	}
	if v.Inventory != "500" {
		t.Fatalf("unexpected inventory: %s", v.Inventory)
	}
	if cfg.Scripts.Token.Contract != "YourToken" {
		t.Fatalf("unexpected token contract: %s", cfg.Scripts.Token.Contract)
	}
}

func TestUnknownNetwork(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := cfg.Network("mainnet"); err == nil {
		t.Fatalf("expected error for unknown network")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load of saved config returned error: %v", err)
	}
	if again.Scripts.Vendor.Owner != cfg.Scripts.Vendor.Owner {
		t.Fatalf("vendor owner lost in round trip")
	}
	if names := again.NetworkNames(); len(names) != 2 || names[0] != "localhost" {
		t.Fatalf("unexpected networks after round trip: %v", names)
	}
	if err := Save(path, nil); err == nil {
		t.Fatalf("expected error saving nil config")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
