package scripts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"speedrun-go/internal/config"
	"speedrun-go/internal/deploy"
	"speedrun-go/internal/units"
	"speedrun-go/internal/wallet"
)

// ExchangeParams configures the token + DEX bootstrap. Amounts are 18-decimal fixed point.
type ExchangeParams struct {
	Token        string
	Exchange     string
	Recipient    common.Address
	Gift         *big.Int
	Allowance    *big.Int
	PoolTokens   *big.Int
	PoolETH      *big.Int
	InitGasLimit uint64
}

func ExchangeParamsFromConfig(c config.ExchangeScript) (ExchangeParams, error) {
	recipient, err := wallet.ParseAddress(c.Recipient)
	if err != nil {
		return ExchangeParams{}, fmt.Errorf("recipient: %w", err)
	}
	p := ExchangeParams{
		Token:        c.Token,
		Exchange:     c.Exchange,
		Recipient:    recipient,
		InitGasLimit: c.InitGasLimit,
	}
	amounts := []struct {
		field string
		raw   string
		dst   **big.Int
	}{
		{"gift", c.Gift, &p.Gift},
		{"allowance", c.Allowance, &p.Allowance},
		{"pool_tokens", c.PoolTokens, &p.PoolTokens},
		{"pool_eth", c.PoolETH, &p.PoolETH},
	}
	for _, a := range amounts {
		v, err := units.ParseEther(a.raw)
		if err != nil {
			return ExchangeParams{}, fmt.Errorf("%s: %w", a.field, err)
		}
		*a.dst = v
	}
	return p, nil
}

// Run deploys the token, deploys the exchange against it, gifts tokens to the
// recipient, approves the exchange and seeds its pool. The first failing step
// aborts; earlier steps stay on-chain.
func (p ExchangeParams) Run(ctx context.Context, env deploy.Env, log zerolog.Logger) error {
	accounts, err := env.NamedAccounts(ctx)
	if err != nil {
		return fmt.Errorf("named accounts: %w", err)
	}
	deployer := accounts.Deployer

	if _, err := env.Deploy(ctx, p.Token, deploy.DeployOptions{From: deployer, Log: true, AutoMine: true}); err != nil {
		return fmt.Errorf("deploy %s: %w", p.Token, err)
	}
	token, err := env.GetContract(ctx, p.Token, deployer)
	if err != nil {
		return err
	}

	if _, err := env.Deploy(ctx, p.Exchange, deploy.DeployOptions{
		From:     deployer,
		Args:     []any{token.Address()},
		Log:      true,
		AutoMine: true,
	}); err != nil {
		return fmt.Errorf("deploy %s: %w", p.Exchange, err)
	}
	dex, err := env.GetContract(ctx, p.Exchange, deployer)
	if err != nil {
		return err
	}

	log.Info().Str("to", p.Recipient.Hex()).Str("amount", units.FormatEther(p.Gift)).Msgf("sending %s to frontend address", p.Token)
	if _, err := token.Transact(ctx, deploy.TxOptions{}, "transfer", p.Recipient, p.Gift); err != nil {
		return fmt.Errorf("gift %s: %w", p.Token, err)
	}

	log.Info().Str("spender", dex.Address().Hex()).Str("amount", units.FormatEther(p.Allowance)).Msgf("approving %s to take %s", p.Exchange, p.Token)
	if _, err := token.Transact(ctx, deploy.TxOptions{}, "approve", dex.Address(), p.Allowance); err != nil {
		return fmt.Errorf("approve %s: %w", p.Exchange, err)
	}

	log.Info().
		Str("eth", units.FormatEther(p.PoolETH)).
		Str("tokens", units.FormatEther(p.PoolTokens)).
		Uint64("gas_limit", p.InitGasLimit).
		Msgf("init %s liquidity", p.Exchange)
	if _, err := dex.Transact(ctx, deploy.TxOptions{Value: p.PoolETH, GasLimit: p.InitGasLimit}, "init", p.PoolTokens); err != nil {
		return fmt.Errorf("init %s: %w", p.Exchange, err)
	}
	return nil
}
