package commands

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"speedrun-go/internal/chain"
	"speedrun-go/internal/config"
	"speedrun-go/internal/journal"
	"speedrun-go/internal/metrics"
	"speedrun-go/internal/risk"
	"speedrun-go/internal/units"
	"speedrun-go/internal/wallet"
)

func runCmd() *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run deployment routines against a network",
		Example: `  deploy run --network localhost
  deploy run --tags Vendor --network sepolia`,
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := cfg.Network(network)
			if err != nil {
				return err
			}
			net.RPCURL = getEnv("DEPLOY_RPC_URL", net.RPCURL)
			return runDeploy(cmd.Context(), net, tags)
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "only run routines carrying these tags")
	return cmd
}

func runDeploy(parent context.Context, net config.Network, tags []string) error {
	if cfg.App.MetricsAddr != "" {
		srv := metrics.Serve(cfg.App.MetricsAddr)
		defer srv.Close()
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	key, err := wallet.LoadPrivateKeyFromEnv(cfg.Wallet.PrivateKeyEnv)
	if err != nil {
		return fmt.Errorf("wallet: %w", err)
	}

	var limits risk.Limits
	if net.MaxValuePerTx != "" {
		limits.MaxValuePerTx, err = units.ParseEther(net.MaxValuePerTx)
		if err != nil {
			return fmt.Errorf("network %s max_value_per_tx: %w", net.Name, err)
		}
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := ossignal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(net.TimeoutSeconds)*time.Second)
	defer cancel()

	mem := journal.NewMemory(16)
	recorders := journal.Multi{mem}
	if cfg.Paths.Journal != "" {
		jsonl, err := journal.OpenJSONL(cfg.Paths.Journal)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		defer jsonl.Close()
		recorders = append(recorders, jsonl)
	}

	env, err := chain.Dial(ctx, chain.DialConfig{
		RPCURL:          net.RPCURL,
		ChainID:         net.ChainID,
		ArtifactsDir:    cfg.Paths.Artifacts,
		DeploymentsRoot: cfg.Paths.Deployments,
	}, key, chain.Options{
		Network:      net.Name,
		AutoMine:     net.AutoMine,
		PollInterval: time.Duration(net.ReceiptPollMs) * time.Millisecond,
		Limits:       limits,
		Journal:      recorders,
	}, log)
	if err != nil {
		return err
	}
	defer env.Close()

	log.Info().
		Str("network", net.Name).
		Str("chain_id", env.ChainID().String()).
		Str("deployer", wallet.Address(key).Hex()).
		Strs("tags", tags).
		Msg("starting deployment")

	runErr := registry.Run(ctx, env, tags)
	summarize(mem)
	return runErr
}

func summarize(mem *journal.Memory) {
	entries := mem.Snapshot()
	for _, e := range entries {
		ev := log.Info()
		if !e.Success {
			ev = log.Warn()
		}
		ev = ev.Str("contract", e.Contract).Str("method", e.Method).Str("tx", e.TxHash.Hex()).Uint64("gas", e.GasUsed)
		if e.Value != nil {
			ev = ev.Str("value_eth", units.FormatEther(e.Value))
		}
		ev.Msg("tx")
	}
	log.Info().Int("transactions", len(entries)).Uint64("gas_total", mem.TotalGas()).Msg("summary")
}
