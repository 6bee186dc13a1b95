// Package chain implements deploy.Env against a live EVM node through go-ethereum.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"speedrun-go/internal/artifacts"
	"speedrun-go/internal/deploy"
	"speedrun-go/internal/deployments"
	"speedrun-go/internal/journal"
	"speedrun-go/internal/risk"
)

// Backend is everything the environment needs from a node connection.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Options tunes an Environment.
type Options struct {
	Network      string
	AutoMine     bool // honour DeployOptions.AutoMine by asking the node to mine
	PollInterval time.Duration
	Limits       risk.Limits
	Journal      journal.Recorder
}

// Environment deploys and drives contracts as the single deployer account.
type Environment struct {
	backend   Backend
	key       *ecdsa.PrivateKey
	auth      *bind.TransactOpts
	chainID   *big.Int
	artifacts *artifacts.Store
	store     *deployments.Store
	opts      Options
	log       zerolog.Logger

	// mine produces a block on dev nodes; nil disables auto-mining.
	mine    func(ctx context.Context) error
	closeFn func()
}

// New wires an environment on top of an existing backend.
func New(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int, arts *artifacts.Store, store *deployments.Store, opts Options, log zerolog.Logger) (*Environment, error) {
	if key == nil {
		return nil, errors.New("deployer key required")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("transactor: %w", err)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	return &Environment{
		backend:   backend,
		key:       key,
		auth:      auth,
		chainID:   chainID,
		artifacts: arts,
		store:     store,
		opts:      opts,
		log:       log.With().Str("network", opts.Network).Logger(),
	}, nil
}

// DialConfig is what Dial needs besides the options.
type DialConfig struct {
	RPCURL          string
	ChainID         int64 // 0 trusts the node
	ArtifactsDir    string
	DeploymentsRoot string
}

// Dial connects to cfg.RPCURL, checks the chain id and opens the artifact and deployment stores.
func Dial(ctx context.Context, cfg DialConfig, key *ecdsa.PrivateKey, opts Options, log zerolog.Logger) (*Environment, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}
	env, err := open(ctx, client, cfg, key, opts, log)
	if err != nil {
		client.Close()
		return nil, err
	}
	rpcClient := client.Client()
	env.mine = func(ctx context.Context) error {
		return rpcClient.CallContext(ctx, nil, "evm_mine")
	}
	env.closeFn = client.Close
	return env, nil
}

func open(ctx context.Context, backend Backend, cfg DialConfig, key *ecdsa.PrivateKey, opts Options, log zerolog.Logger) (*Environment, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if cfg.ChainID != 0 && chainID.Cmp(big.NewInt(cfg.ChainID)) != 0 {
		return nil, fmt.Errorf("network %s expects chain %d, node reports %s", opts.Network, cfg.ChainID, chainID)
	}
	arts, err := artifacts.Open(cfg.ArtifactsDir)
	if err != nil {
		return nil, err
	}
	store, err := deployments.Open(cfg.DeploymentsRoot, opts.Network, chainID.Uint64())
	if err != nil {
		return nil, err
	}
	return New(backend, key, chainID, arts, store, opts, log)
}

// Close releases the node connection when the environment owns it.
func (e *Environment) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

func (e *Environment) ChainID() *big.Int { return new(big.Int).Set(e.chainID) }

// Deployments exposes the record store, e.g. for listing addresses.
func (e *Environment) Deployments() *deployments.Store { return e.store }

func (e *Environment) NamedAccounts(ctx context.Context) (deploy.Accounts, error) {
	if err := ctx.Err(); err != nil {
		return deploy.Accounts{}, err
	}
	return deploy.Accounts{Deployer: crypto.PubkeyToAddress(e.key.PublicKey)}, nil
}

// transactOpts copies the keyed transactor with per-call knobs.
func (e *Environment) transactOpts(ctx context.Context, opts deploy.TxOptions) *bind.TransactOpts {
	o := *e.auth
	o.Context = ctx
	o.Value = opts.Value
	o.GasLimit = opts.GasLimit
	return &o
}

func (e *Environment) autoMine(ctx context.Context, requested bool) {
	if !requested || !e.opts.AutoMine || e.mine == nil {
		return
	}
	if err := e.mine(ctx); err != nil {
		e.log.Debug().Err(err).Msg("evm_mine not supported, waiting for the node")
	}
}

func (e *Environment) record(entry journal.Entry) {
	if e.opts.Journal != nil {
		entry.Time = time.Now().UTC()
		e.opts.Journal.Record(entry)
	}
}
