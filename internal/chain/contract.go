package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"speedrun-go/internal/deploy"
	"speedrun-go/internal/journal"
	"speedrun-go/internal/metrics"
	"speedrun-go/internal/units"
)

// ErrValueCap is returned when a transaction carries more ETH than the network allows.
var ErrValueCap = errors.New("value exceeds per-transaction cap")

// Contract is a deploy.Contract bound to a live node.
type Contract struct {
	env     *Environment
	name    string
	address common.Address
	from    common.Address
	bound   *bind.BoundContract
}

func (c *Contract) Name() string            { return c.name }
func (c *Contract) Address() common.Address { return c.address }

// Transact sends method and waits for it to be mined. A failed receipt is deploy.ErrReverted.
func (c *Contract) Transact(ctx context.Context, opts deploy.TxOptions, method string, args ...any) (*types.Receipt, error) {
	if !c.env.opts.Limits.Allow(opts.Value) {
		return nil, fmt.Errorf("%s.%s: %w (%s ETH > %s ETH)", c.name, method, ErrValueCap,
			units.FormatEther(opts.Value), units.FormatEther(c.env.opts.Limits.MaxValuePerTx))
	}
	tx, err := c.bound.Transact(c.env.transactOpts(ctx, opts), method, args...)
	if err != nil {
		metrics.TransactionsTotal.WithLabelValues(c.name, method, "failed").Inc()
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, classify(err))
	}
	c.env.log.Debug().Str("contract", c.name).Str("method", method).Str("tx", tx.Hash().Hex()).Msg("sent")
	c.env.autoMine(ctx, true)

	receipt, err := c.env.waitMined(ctx, tx.Hash())
	if err != nil {
		metrics.TransactionsTotal.WithLabelValues(c.name, method, "failed").Inc()
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, err)
	}
	ok := receipt.Status == types.ReceiptStatusSuccessful
	c.env.record(journal.Entry{
		Contract: c.name,
		Address:  c.address,
		Method:   method,
		TxHash:   tx.Hash(),
		Block:    receipt.BlockNumber.Uint64(),
		GasUsed:  receipt.GasUsed,
		Value:    valueOrNil(opts.Value),
		Success:  ok,
	})
	if !ok {
		metrics.TransactionsTotal.WithLabelValues(c.name, method, "reverted").Inc()
		return receipt, fmt.Errorf("%s.%s (tx %s, gas %d): %w", c.name, method, tx.Hash().Hex(), receipt.GasUsed, deploy.ErrReverted)
	}
	metrics.TransactionsTotal.WithLabelValues(c.name, method, "ok").Inc()
	return receipt, nil
}

// Call runs a read-only method as the bound signer.
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	var out []any
	if err := c.bound.Call(&bind.CallOpts{Context: ctx, From: c.from}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, classify(err))
	}
	return out, nil
}

// classify maps node-side execution reverts onto deploy.ErrReverted.
func classify(err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) || strings.Contains(err.Error(), "execution reverted") {
		return fmt.Errorf("%w: %v", deploy.ErrReverted, err)
	}
	return err
}

func valueOrNil(v *big.Int) *big.Int {
	if v == nil || v.Sign() == 0 {
		return nil
	}
	return new(big.Int).Set(v)
}
