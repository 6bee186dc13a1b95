package scripts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"speedrun-go/internal/deploy"
)

// TokenParams configures the standalone token deployment the vendor routine builds on.
type TokenParams struct {
	Contract string
}

func (p TokenParams) Run(ctx context.Context, env deploy.Env, log zerolog.Logger) error {
	accounts, err := env.NamedAccounts(ctx)
	if err != nil {
		return fmt.Errorf("named accounts: %w", err)
	}
	d, err := env.Deploy(ctx, p.Contract, deploy.DeployOptions{From: accounts.Deployer, Log: true, AutoMine: true})
	if err != nil {
		return fmt.Errorf("deploy %s: %w", p.Contract, err)
	}
	log.Debug().Str("contract", p.Contract).Str("address", d.Address.Hex()).Bool("reused", d.Reused).Msg("token ready")
	return nil
}
