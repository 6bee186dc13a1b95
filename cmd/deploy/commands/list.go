package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show registered routines and their tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, r := range registry.Routines() {
				fmt.Fprintf(out, "%-12s order=%d tags=%s\n", r.Name, r.Order, strings.Join(r.Tags, ","))
			}
			return nil
		},
	}
}
