// Package cmd provides the CLI commands for quantbin-bench.
package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hupe1980/quantbin"
	"github.com/hupe1980/quantbin/grid"
)

// envPrefix is the prefix of grid configuration variables, e.g. QUANTBIN_GC_WIDTH.
const envPrefix = "QUANTBIN"

type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
	jsonLogs   bool
}

// NewRootCmd creates the root command for the quantbin-bench CLI.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "quantbin-bench",
		Short: "Benchmark the quantized bin index layouts",
		Long: `quantbin-bench loads a synthetic microbial community into the hash and
sliced index layouts, runs the same queries against both, and reports load
and query timing, probe efficiency and agreement.

The grid configuration is read from --config (YAML) or from QUANTBIN_*
environment variables, optionally loaded from --env-file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&g.configFile, "config", "", "YAML grid configuration file")
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", "", "Load environment variables from file")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&g.jsonLogs, "json-logs", false, "Emit JSON logs")

	cmd.AddCommand(newRunCmd(g))
	cmd.AddCommand(newSelectCmd())
	cmd.AddCommand(newConfigCmd(g))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig resolves the grid configuration: --config wins over the
// environment, --env-file is loaded before the environment is read.
func (g *globalFlags) loadConfig() (grid.Config, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil {
			return grid.Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	if g.configFile != "" {
		return grid.LoadConfigFile(g.configFile)
	}
	return grid.LoadConfigFromEnv(envPrefix)
}

func (g *globalFlags) logger() (*quantbin.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(g.logLevel))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", g.logLevel)
	}
	if g.jsonLogs {
		return quantbin.NewJSONLogger(level), nil
	}
	return quantbin.NewTextLogger(level), nil
}
