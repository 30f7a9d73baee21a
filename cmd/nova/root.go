package main

import (
	"fmt"
	"os"

	"github.com/aretw0/nova/internal/cli"
	"github.com/aretw0/nova/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nova",
	Short: "Nova is the portfolio assistant dialog engine",
	Long: `Nova greets visitors, walks them through a fixed set of steps and offers a
resume download, page navigation and a feedback rating.

Settings come from nova.yaml (or --config), then NOVA_* environment variables,
then flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./nova.yaml when present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("steps", "", "Steps YAML file replacing the built-in dialog")
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps, _ = cmd.Flags().GetString("steps")
	}
	return cfg, nil
}

// loadApp builds the shared application from the configuration.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cfg, cmd.ErrOrStderr())
}
