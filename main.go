package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cliOptions holds the flags shared by all subcommands
type cliOptions struct {
	configFile string
	cfg        *Config
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "textconv",
		Short: "Single-purpose text conversion tools",
		Long: `textconv converts text: decimal ASCII codes, binary, HTML, lists,
letter case, whitespace and JSON values.

Tools run once from the command line, as a pipeline in a session served
over a Unix socket, or through a small HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.configFile)
			if err != nil {
				return err
			}
			if err := setLogLevel(cfg.LogLevel); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: $"+ConfigEnvVar+" or ./textconv.toml)")

	rootCmd.AddCommand(
		newConvertCmd(opts),
		newToolsCmd(opts),
		newServeCmd(opts),
		newREPLCmd(opts),
		newExtractCmd(opts),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
