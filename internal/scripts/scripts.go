// Package scripts holds the deployment routines bundled with the CLI and
// registers them under the tags used to select them.
package scripts

import (
	"fmt"

	"speedrun-go/internal/config"
	"speedrun-go/internal/deploy"
)

// Register builds every routine from cfg and adds it to reg.
func Register(reg *deploy.Registry, cfg config.Scripts) error {
	token := TokenParams{Contract: cfg.Token.Contract}

	exchange, err := ExchangeParamsFromConfig(cfg.Exchange)
	if err != nil {
		return fmt.Errorf("dex script: %w", err)
	}
	vendor, err := VendorParamsFromConfig(cfg.Vendor)
	if err != nil {
		return fmt.Errorf("vendor script: %w", err)
	}

	routines := []deploy.Routine{
		{Name: "dex", Order: 0, Tags: []string{exchange.Token, exchange.Exchange}, Run: exchange.Run},
		{Name: "your-token", Order: 0, Tags: []string{token.Contract}, Run: token.Run},
		{Name: "vendor", Order: 1, Tags: []string{vendor.Vendor}, Run: vendor.Run},
	}
	for _, r := range routines {
		if err := reg.Register(r); err != nil {
			return err
		}
	}
	return nil
}
