// Package deploytest provides an in-memory deploy.Env backed by Go models of
// contracts, for exercising deployment routines without a node.
//
// Env is not safe for concurrent use; routines run sequentially.
package deploytest

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"speedrun-go/internal/deploy"
)

// DefaultDeployer is hardhat's first dev account.
var DefaultDeployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// GasPerTx is charged for every simulated transaction and compared against TxOptions.GasLimit.
const GasPerTx = 60_000

// Model is the Go stand-in for a contract's logic.
type Model interface {
	Transact(env *Env, from common.Address, value *big.Int, method string, args []any) error
	Call(env *Env, method string, args []any) ([]any, error)
}

// Factory builds a model at deployment time, playing the constructor.
type Factory func(env *Env, self, deployer common.Address, args []any) (Model, error)

// Tx is a transaction observed by the environment.
type Tx struct {
	Contract string
	Method   string
	From     common.Address
	Args     []any
	Opts     deploy.TxOptions
}

type instance struct {
	name    string
	address common.Address
	args    string
	model   Model
}

// Env implements deploy.Env in memory.
type Env struct {
	deployer  common.Address
	factories map[string]Factory
	byName    map[string]*instance
	byAddr    map[common.Address]*instance
	ether     map[common.Address]*big.Int
	nonce     uint64
	block     uint64
	reverts   map[string]string
	before    []func(Tx) error

	// Sent lists every deployment and transaction in order.
	Sent []Tx
}

// New creates an environment where deployer holds 10000 ETH and factories act as artifacts.
func New(deployer common.Address, factories map[string]Factory) *Env {
	env := &Env{
		deployer:  deployer,
		factories: factories,
		byName:    make(map[string]*instance),
		byAddr:    make(map[common.Address]*instance),
		ether:     make(map[common.Address]*big.Int),
		reverts:   make(map[string]string),
	}
	env.ether[deployer] = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(1e18))
	return env
}

// RevertOn makes every call to contract.method revert with reason.
func (e *Env) RevertOn(contract, method, reason string) {
	e.reverts[contract+"."+method] = reason
}

// BeforeTransact registers a hook run before each transaction is applied; a hook error reverts it.
func (e *Env) BeforeTransact(fn func(Tx) error) {
	e.before = append(e.before, fn)
}

// Methods lists "Contract.method" for every recorded transaction, deployments included.
func (e *Env) Methods() []string {
	out := make([]string, len(e.Sent))
	for i, tx := range e.Sent {
		out[i] = tx.Contract + "." + tx.Method
	}
	return out
}

// Model returns the model deployed at addr.
func (e *Env) Model(addr common.Address) (Model, bool) {
	inst, ok := e.byAddr[addr]
	if !ok {
		return nil, false
	}
	return inst.model, true
}

// Balance returns the ETH held by addr.
func (e *Env) Balance(addr common.Address) *big.Int {
	if b, ok := e.ether[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (e *Env) NamedAccounts(ctx context.Context) (deploy.Accounts, error) {
	return deploy.Accounts{Deployer: e.deployer}, ctx.Err()
}

func (e *Env) Deploy(ctx context.Context, name string, opts deploy.DeployOptions) (*deploy.Deployment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.From != e.deployer {
		return nil, fmt.Errorf("deploy %s from %s: %w", name, opts.From.Hex(), deploy.ErrUnknownSigner)
	}
	factory, ok := e.factories[name]
	if !ok {
		return nil, fmt.Errorf("no artifact for %s", name)
	}
	args := fmt.Sprint(opts.Args...)
	if prev, ok := e.byName[name]; ok && prev.args == args {
		return &deploy.Deployment{Name: name, Address: prev.address, Reused: true}, nil
	}
	if reason, ok := e.reverts[name+".deploy"]; ok {
		return nil, fmt.Errorf("deploy %s: %w: %s", name, deploy.ErrReverted, reason)
	}

	addr := crypto.CreateAddress(opts.From, e.nonce)
	e.nonce++
	model, err := factory(e, addr, opts.From, opts.Args)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w: %v", name, deploy.ErrReverted, err)
	}
	inst := &instance{name: name, address: addr, args: args, model: model}
	e.byName[name] = inst
	e.byAddr[addr] = inst
	e.block++
	e.Sent = append(e.Sent, Tx{Contract: name, Method: "deploy", From: opts.From, Args: opts.Args})
	return &deploy.Deployment{Name: name, Address: addr, TxHash: crypto.Keccak256Hash(addr.Bytes())}, nil
}

func (e *Env) GetContract(ctx context.Context, name string, from common.Address) (deploy.Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inst, ok := e.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", deploy.ErrContractNotFound, name)
	}
	if from != e.deployer {
		return nil, fmt.Errorf("%s as %s: %w", name, from.Hex(), deploy.ErrUnknownSigner)
	}
	return &handle{env: e, inst: inst, from: from}, nil
}

// moveEther transfers value between accounts, failing on insufficient balance.
func (e *Env) moveEther(from, to common.Address, value *big.Int) error {
	if value == nil || value.Sign() == 0 {
		return nil
	}
	bal := e.Balance(from)
	if bal.Cmp(value) < 0 {
		return fmt.Errorf("insufficient funds: have %s want %s", bal, value)
	}
	e.ether[from] = bal.Sub(bal, value)
	e.ether[to] = new(big.Int).Add(e.Balance(to), value)
	return nil
}

type handle struct {
	env  *Env
	inst *instance
	from common.Address
}

func (h *handle) Name() string            { return h.inst.name }
func (h *handle) Address() common.Address { return h.inst.address }

func (h *handle) Transact(ctx context.Context, opts deploy.TxOptions, method string, args ...any) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx := Tx{Contract: h.inst.name, Method: method, From: h.from, Args: args, Opts: opts}
	revert := func(reason string) error {
		return fmt.Errorf("%s.%s: %w: %s", h.inst.name, method, deploy.ErrReverted, reason)
	}
	for _, fn := range h.env.before {
		if err := fn(tx); err != nil {
			return nil, revert(err.Error())
		}
	}
	if reason, ok := h.env.reverts[h.inst.name+"."+method]; ok {
		return nil, revert(reason)
	}
	if opts.GasLimit != 0 && opts.GasLimit < GasPerTx {
		return nil, revert("out of gas")
	}

	// Snapshot ether so a failing model call leaves balances untouched.
	saved := make(map[common.Address]*big.Int, len(h.env.ether))
	for k, v := range h.env.ether {
		saved[k] = new(big.Int).Set(v)
	}
	if err := h.env.moveEther(h.from, h.inst.address, opts.Value); err != nil {
		return nil, revert(err.Error())
	}
	if err := h.inst.model.Transact(h.env, h.from, opts.Value, method, args); err != nil {
		h.env.ether = saved
		return nil, revert(err.Error())
	}

	h.env.block++
	h.env.Sent = append(h.env.Sent, tx)
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      crypto.Keccak256Hash(h.inst.address.Bytes(), []byte(method), new(big.Int).SetUint64(h.env.block).Bytes()),
		BlockNumber: new(big.Int).SetUint64(h.env.block),
		GasUsed:     GasPerTx,
	}, nil
}

func (h *handle) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.inst.model.Call(h.env, method, args)
}
