package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"speedrun-go/internal/deployments"
)

type addressReport struct {
	Network   string            `json:"network"`
	ChainID   uint64            `json:"chain_id"`
	Contracts map[string]string `json:"contracts"`
}

func addressesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "Print recorded deployments of a network as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := cfg.Network(network)
			if err != nil {
				return err
			}
			store, err := deployments.Load(cfg.Paths.Deployments, net.Name)
			if err != nil {
				return err
			}
			records, err := store.List()
			if err != nil {
				return err
			}
			report := addressReport{Network: net.Name, ChainID: store.ChainID(), Contracts: make(map[string]string, len(records))}
			for _, rec := range records {
				report.Contracts[rec.Name] = rec.Address.Hex()
			}
			blob, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(blob))
			return nil
		},
	}
}
