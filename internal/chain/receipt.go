package chain

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type receiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

func (e *Environment) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return waitMined(ctx, e.backend, hash, e.opts.PollInterval)
}

// waitMined polls for the receipt of hash until it exists or ctx ends. Errors
// other than "not found" stop polling.
func waitMined(ctx context.Context, fetcher receiptFetcher, hash common.Hash, interval time.Duration) (*types.Receipt, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = 8 * interval
	b.MaxElapsedTime = 0

	return backoff.RetryWithData(func() (*types.Receipt, error) {
		receipt, err := fetcher.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return receipt, nil
	}, backoff.WithContext(b, ctx))
}
