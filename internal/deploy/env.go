// Package deploy defines the environment deployment routines run against and
// the registry that selects and sequences them.
package deploy

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrContractNotFound is returned when a contract has no deployment record.
	ErrContractNotFound = errors.New("contract not found")
	// ErrReverted is returned when a mined transaction has a failed status.
	ErrReverted = errors.New("transaction reverted")
	// ErrUnknownSigner is returned when a routine asks to sign as an account the environment does not hold.
	ErrUnknownSigner = errors.New("unknown signer")
)

// Accounts are the named accounts available to routines.
type Accounts struct {
	Deployer common.Address
}

// DeployOptions mirrors the knobs a routine passes when deploying a contract.
type DeployOptions struct {
	From     common.Address
	Args     []any
	Log      bool
	AutoMine bool
}

// Deployment is the outcome of Env.Deploy.
type Deployment struct {
	Name    string
	Address common.Address
	TxHash  common.Hash // zero when Reused
	Reused  bool
}

// TxOptions tunes a state-changing call. Zero values let the environment estimate.
type TxOptions struct {
	Value    *big.Int
	GasLimit uint64
}

// Env is the deployment environment a routine runs against.
type Env interface {
	NamedAccounts(ctx context.Context) (Accounts, error)
	// Deploy deploys name with opts.Args unless an identical deployment is already recorded.
	Deploy(ctx context.Context, name string, opts DeployOptions) (*Deployment, error)
	// GetContract returns a handle to a recorded deployment, signing as from.
	GetContract(ctx context.Context, name string, from common.Address) (Contract, error)
}

// Contract is a handle to a deployed contract whose methods are invoked by name.
type Contract interface {
	Name() string
	Address() common.Address
	// Transact sends a transaction and blocks until it is mined.
	Transact(ctx context.Context, opts TxOptions, method string, args ...any) (*types.Receipt, error)
	Call(ctx context.Context, method string, args ...any) ([]any, error)
}
