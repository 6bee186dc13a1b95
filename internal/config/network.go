// Package config also contains chain-specific configuration surfaces.
package config

// DefaultPrivateKeyEnv is read when wallet.private_key_env is unset.
const DefaultPrivateKeyEnv = "DEPLOYER_PRIVATE_KEY"

// Network defines an RPC endpoint and transaction defaults for one chain.
type Network struct {
	Name           string `yaml:"-"`
	RPCURL         string `yaml:"rpc_url"`
	ChainID        int64  `yaml:"chain_id"`  // 0 asks the node
	AutoMine       bool   `yaml:"auto_mine"` // send evm_mine after each tx (hardhat/anvil)
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ReceiptPollMs  int    `yaml:"receipt_poll_ms"`
	MaxValuePerTx  string `yaml:"max_value_per_tx"` // ether units, empty for no cap
}

func (n *Network) applyDefaults(name string) {
	n.Name = name
	if n.TimeoutSeconds <= 0 {
		n.TimeoutSeconds = 300
	}
	if n.ReceiptPollMs <= 0 {
		n.ReceiptPollMs = 250
	}
}

// Wallet names the environment variable holding the deployer key.
type Wallet struct {
	PrivateKeyEnv string `yaml:"private_key_env"`
}
