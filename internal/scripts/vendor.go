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

// VendorParams configures the vendor bootstrap.
type VendorParams struct {
	Token     string
	Vendor    string
	Inventory *big.Int
	Owner     common.Address
}

func VendorParamsFromConfig(c config.VendorScript) (VendorParams, error) {
	owner, err := wallet.ParseAddress(c.Owner)
	if err != nil {
		return VendorParams{}, fmt.Errorf("owner: %w", err)
	}
	inventory, err := units.ParseEther(c.Inventory)
	if err != nil {
		return VendorParams{}, fmt.Errorf("inventory: %w", err)
	}
	return VendorParams{Token: c.Token, Vendor: c.Vendor, Inventory: inventory, Owner: owner}, nil
}

// Run expects Token to be deployed already. It deploys the vendor against it,
// stocks the vendor with inventory and hands ownership to Owner.
func (p VendorParams) Run(ctx context.Context, env deploy.Env, log zerolog.Logger) error {
	accounts, err := env.NamedAccounts(ctx)
	if err != nil {
		return fmt.Errorf("named accounts: %w", err)
	}
	deployer := accounts.Deployer

	token, err := env.GetContract(ctx, p.Token, deployer)
	if err != nil {
		return err
	}

	if _, err := env.Deploy(ctx, p.Vendor, deploy.DeployOptions{
		From:     deployer,
		Args:     []any{token.Address()},
		Log:      true,
		AutoMine: true,
	}); err != nil {
		return fmt.Errorf("deploy %s: %w", p.Vendor, err)
	}
	vendor, err := env.GetContract(ctx, p.Vendor, deployer)
	if err != nil {
		return err
	}

	log.Info().Str("vendor", vendor.Address().Hex()).Str("amount", units.FormatEther(p.Inventory)).Msgf("sending %s to %s", p.Token, p.Vendor)
	if _, err := token.Transact(ctx, deploy.TxOptions{}, "transfer", vendor.Address(), p.Inventory); err != nil {
		return fmt.Errorf("stock %s: %w", p.Vendor, err)
	}

	log.Info().Str("owner", p.Owner.Hex()).Msg("transferring ownership to frontend address")
	if _, err := vendor.Transact(ctx, deploy.TxOptions{}, "transferOwnership", p.Owner); err != nil {
		return fmt.Errorf("transfer %s ownership: %w", p.Vendor, err)
	}
	return nil
}
