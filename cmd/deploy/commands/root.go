package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"speedrun-go/internal/config"
	"speedrun-go/internal/deploy"
	"speedrun-go/internal/scripts"
	"speedrun-go/internal/util"
)

const defaultConfigPath = "internal/config/config.yaml"

var (
	configPath string
	network    string
	logLevel   string

	cfg      *config.Config
	log      zerolog.Logger
	registry *deploy.Registry
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deploy",
		Short:         "Deploy and bootstrap the speedrun contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyEnv(loaded)
			if logLevel != "" {
				loaded.App.LogLevel = logLevel
			}
			cfg = loaded
			log = util.NewLogger(cfg.App.LogLevel, cfg.App.PrettyLogs)

			registry = deploy.NewRegistry(log)
			return scripts.Register(registry, cfg.Scripts)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", getEnv("DEPLOY_CONFIG", defaultConfigPath), "path to the YAML config")
	root.PersistentFlags().StringVarP(&network, "network", "n", "", "network from the config (default: default_network)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override app.log_level")

	root.AddCommand(runCmd(), listCmd(), addressesCmd())
	return root
}

// Execute runs the CLI and reports the error once.
func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if cfg != nil {
			log.Error().Err(err).Msg("deploy failed")
		} else {
			root.PrintErrln("Error:", err)
		}
		return err
	}
	return nil
}

// applyEnv lets environment variables override the file.
func applyEnv(c *config.Config) {
	c.DefaultNetwork = getEnv("DEPLOY_NETWORK", c.DefaultNetwork)
	c.App.LogLevel = getEnv("DEPLOY_LOG_LEVEL", c.App.LogLevel)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
