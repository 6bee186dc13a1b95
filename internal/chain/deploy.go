package chain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"speedrun-go/internal/deploy"
	"speedrun-go/internal/deployments"
	"speedrun-go/internal/journal"
	"speedrun-go/internal/metrics"
)

// Deploy sends the creation transaction for name unless a record with the same
// bytecode and constructor args exists and still has code on chain.
func (e *Environment) Deploy(ctx context.Context, name string, opts deploy.DeployOptions) (*deploy.Deployment, error) {
	deployer := crypto.PubkeyToAddress(e.key.PublicKey)
	if opts.From != deployer {
		return nil, fmt.Errorf("deploy %s from %s: %w", name, opts.From.Hex(), deploy.ErrUnknownSigner)
	}
	art, err := e.artifacts.Find(name)
	if err != nil {
		return nil, err
	}
	packed, err := art.ABI.Pack("", opts.Args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s constructor args: %w", name, err)
	}
	checksum := crypto.Keccak256Hash(art.Bytecode, packed)
	log := e.log.With().Str("contract", name).Logger()

	prev, err := e.store.Get(name)
	switch {
	case err == nil && prev.Checksum == checksum:
		code, err := e.backend.CodeAt(ctx, prev.Address, nil)
		if err != nil {
			return nil, fmt.Errorf("check %s code: %w", name, err)
		}
		if len(code) > 0 {
			metrics.DeploymentsTotal.WithLabelValues(name, "reused").Inc()
			if opts.Log {
				log.Info().Str("address", prev.Address.Hex()).Msg("reusing deployment")
			}
			return &deploy.Deployment{Name: name, Address: prev.Address, Reused: true}, nil
		}
		log.Warn().Str("address", prev.Address.Hex()).Msg("recorded deployment has no code, redeploying")
	case err == nil:
		if opts.Log {
			log.Info().Str("previous", prev.Address.Hex()).Msg("bytecode or args changed, redeploying")
		}
	case err != nil && !errors.Is(err, deployments.ErrNotFound):
		return nil, err
	}

	addr, tx, _, err := bind.DeployContract(e.transactOpts(ctx, deploy.TxOptions{}), art.ABI, art.Bytecode, e.backend, opts.Args...)
	if err != nil {
		metrics.DeploymentsTotal.WithLabelValues(name, "failed").Inc()
		return nil, fmt.Errorf("send %s deployment: %w", name, classify(err))
	}
	if opts.Log {
		log.Info().Str("tx", tx.Hash().Hex()).Msg("deploying")
	}
	e.autoMine(ctx, opts.AutoMine)

	receipt, err := e.waitMined(ctx, tx.Hash())
	if err != nil {
		metrics.DeploymentsTotal.WithLabelValues(name, "failed").Inc()
		return nil, fmt.Errorf("wait %s deployment: %w", name, err)
	}
	e.record(journal.Entry{
		Contract: name,
		Address:  addr,
		Method:   "deploy",
		TxHash:   tx.Hash(),
		Block:    receipt.BlockNumber.Uint64(),
		GasUsed:  receipt.GasUsed,
		Success:  receipt.Status == types.ReceiptStatusSuccessful,
	})
	if receipt.Status != types.ReceiptStatusSuccessful {
		metrics.DeploymentsTotal.WithLabelValues(name, "failed").Inc()
		return nil, fmt.Errorf("deploy %s (tx %s): %w", name, tx.Hash().Hex(), deploy.ErrReverted)
	}

	rec := &deployments.Record{
		Name:            name,
		Address:         addr,
		ABI:             art.RawABI,
		TransactionHash: tx.Hash(),
		BlockNumber:     receipt.BlockNumber.Uint64(),
		GasUsed:         receipt.GasUsed,
		Args:            formatArgs(opts.Args),
		Checksum:        checksum,
		DeployedAt:      time.Now().UTC(),
	}
	if err := e.store.Put(rec); err != nil {
		return nil, err
	}
	metrics.DeploymentsTotal.WithLabelValues(name, "deployed").Inc()
	if opts.Log {
		log.Info().Str("address", addr.Hex()).Uint64("gas", receipt.GasUsed).Msg("deployed")
	}
	return &deploy.Deployment{Name: name, Address: addr, TxHash: tx.Hash()}, nil
}

// GetContract binds the recorded ABI of name at its recorded address.
func (e *Environment) GetContract(ctx context.Context, name string, from common.Address) (deploy.Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if from != crypto.PubkeyToAddress(e.key.PublicKey) {
		return nil, fmt.Errorf("%s as %s: %w", name, from.Hex(), deploy.ErrUnknownSigner)
	}
	rec, err := e.store.Get(name)
	if errors.Is(err, deployments.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s on %s", deploy.ErrContractNotFound, name, e.opts.Network)
	}
	if err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(bytes.NewReader(rec.ABI))
	if err != nil {
		return nil, fmt.Errorf("parse %s abi: %w", name, err)
	}
	return &Contract{
		env:     e,
		name:    name,
		address: rec.Address,
		from:    from,
		bound:   bind.NewBoundContract(rec.Address, parsed, e.backend, e.backend, e.backend),
	}, nil
}

func formatArgs(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case common.Address:
			out[i] = v.Hex()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
