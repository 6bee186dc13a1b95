package deploytest

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var errUnknownMethod = errors.New("unknown method")

// ERC20 models a fixed-supply token minted to the deployer.
type ERC20 struct {
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
	supply     *big.Int
}

// NewERC20 returns a factory minting supply to the deployer; it takes no constructor args.
func NewERC20(supply *big.Int) Factory {
	return func(_ *Env, _, deployer common.Address, args []any) (Model, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("token constructor takes no args, got %d", len(args))
		}
		return &ERC20{
			balances:   map[common.Address]*big.Int{deployer: new(big.Int).Set(supply)},
			allowances: make(map[common.Address]map[common.Address]*big.Int),
			supply:     new(big.Int).Set(supply),
		}, nil
	}
}

func (t *ERC20) BalanceOf(addr common.Address) *big.Int {
	if b, ok := t.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (t *ERC20) Allowance(owner, spender common.Address) *big.Int {
	if a, ok := t.allowances[owner][spender]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

func (t *ERC20) move(from, to common.Address, amount *big.Int) error {
	bal := t.BalanceOf(from)
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("ERC20: transfer amount exceeds balance")
	}
	t.balances[from] = bal.Sub(bal, amount)
	t.balances[to] = new(big.Int).Add(t.BalanceOf(to), amount)
	return nil
}

func (t *ERC20) Transact(_ *Env, from common.Address, value *big.Int, method string, args []any) error {
	if value != nil && value.Sign() != 0 {
		return fmt.Errorf("%s is not payable", method)
	}
	switch method {
	case "transfer":
		to, amount, err := addressAmount(args, 0)
		if err != nil {
			return err
		}
		return t.move(from, to, amount)
	case "approve":
		spender, amount, err := addressAmount(args, 0)
		if err != nil {
			return err
		}
		if t.allowances[from] == nil {
			t.allowances[from] = make(map[common.Address]*big.Int)
		}
		t.allowances[from][spender] = new(big.Int).Set(amount)
		return nil
	case "transferFrom":
		owner, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		to, amount, err := addressAmount(args, 1)
		if err != nil {
			return err
		}
		allowed := t.Allowance(owner, from)
		if allowed.Cmp(amount) < 0 {
			return fmt.Errorf("ERC20: insufficient allowance")
		}
		if err := t.move(owner, to, amount); err != nil {
			return err
		}
		if t.allowances[owner] == nil {
			t.allowances[owner] = make(map[common.Address]*big.Int)
		}
		t.allowances[owner][from] = allowed.Sub(allowed, amount)
		return nil
	}
	return fmt.Errorf("%w: %s", errUnknownMethod, method)
}

func (t *ERC20) Call(_ *Env, method string, args []any) ([]any, error) {
	switch method {
	case "balanceOf":
		addr, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		return []any{t.BalanceOf(addr)}, nil
	case "allowance":
		owner, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		spender, err := argAddress(args, 1)
		if err != nil {
			return nil, err
		}
		return []any{t.Allowance(owner, spender)}, nil
	case "totalSupply":
		return []any{new(big.Int).Set(t.supply)}, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnknownMethod, method)
}

// DEX models a constant-product exchange that is seeded once through init.
type DEX struct {
	self           common.Address
	token          common.Address
	totalLiquidity *big.Int
	liquidity      map[common.Address]*big.Int
}

// NewDEX returns a factory taking the token address as sole constructor arg.
func NewDEX() Factory {
	return func(_ *Env, self, _ common.Address, args []any) (Model, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("DEX constructor takes 1 arg, got %d", len(args))
		}
		token, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		return &DEX{self: self, token: token, totalLiquidity: new(big.Int), liquidity: make(map[common.Address]*big.Int)}, nil
	}
}

func (d *DEX) Transact(env *Env, from common.Address, value *big.Int, method string, args []any) error {
	if method != "init" {
		return fmt.Errorf("%w: %s", errUnknownMethod, method)
	}
	tokens, err := argAmount(args, 0)
	if err != nil {
		return err
	}
	if d.totalLiquidity.Sign() != 0 {
		return fmt.Errorf("DEX: init - already has liquidity")
	}
	token, ok := env.Model(d.token)
	if !ok {
		return fmt.Errorf("DEX: token %s has no code", d.token.Hex())
	}
	if err := token.Transact(env, d.self, nil, "transferFrom", []any{from, d.self, tokens}); err != nil {
		return fmt.Errorf("DEX: init - transfer did not transact: %w", err)
	}
	if value == nil {
		value = new(big.Int)
	}
	d.totalLiquidity = new(big.Int).Set(value)
	d.liquidity[from] = new(big.Int).Set(value)
	return nil
}

func (d *DEX) Call(_ *Env, method string, args []any) ([]any, error) {
	switch method {
	case "token":
		return []any{d.token}, nil
	case "totalLiquidity":
		return []any{new(big.Int).Set(d.totalLiquidity)}, nil
	case "getLiquidity":
		lp, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		if v, ok := d.liquidity[lp]; ok {
			return []any{new(big.Int).Set(v)}, nil
		}
		return []any{new(big.Int)}, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnknownMethod, method)
}

// Vendor models an Ownable token shop.
type Vendor struct {
	token common.Address
	owner common.Address
}

// NewVendor returns a factory taking the token address as sole constructor arg.
func NewVendor() Factory {
	return func(_ *Env, _, deployer common.Address, args []any) (Model, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("Vendor constructor takes 1 arg, got %d", len(args))
		}
		token, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		return &Vendor{token: token, owner: deployer}, nil
	}
}

func (v *Vendor) Transact(_ *Env, from common.Address, _ *big.Int, method string, args []any) error {
	if method != "transferOwnership" {
		return fmt.Errorf("%w: %s", errUnknownMethod, method)
	}
	if from != v.owner {
		return fmt.Errorf("Ownable: caller is not the owner")
	}
	next, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	if next == (common.Address{}) {
		return fmt.Errorf("Ownable: new owner is the zero address")
	}
	v.owner = next
	return nil
}

func (v *Vendor) Call(_ *Env, method string, _ []any) ([]any, error) {
	switch method {
	case "token", "yourToken":
		return []any{v.token}, nil
	case "owner":
		return []any{v.owner}, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnknownMethod, method)
}

func argAddress(args []any, i int) (common.Address, error) {
	if i >= len(args) {
		return common.Address{}, fmt.Errorf("missing argument %d", i)
	}
	addr, ok := args[i].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("argument %d: want address, got %T", i, args[i])
	}
	return addr, nil
}

func argAmount(args []any, i int) (*big.Int, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("missing argument %d", i)
	}
	v, ok := args[i].(*big.Int)
	if !ok || v == nil {
		return nil, fmt.Errorf("argument %d: want *big.Int, got %T", i, args[i])
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("argument %d: negative uint256", i)
	}
	return v, nil
}

func addressAmount(args []any, i int) (common.Address, *big.Int, error) {
	addr, err := argAddress(args, i)
	if err != nil {
		return common.Address{}, nil, err
	}
	amount, err := argAmount(args, i+1)
	if err != nil {
		return common.Address{}, nil, err
	}
	return addr, amount, nil
}
