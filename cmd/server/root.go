package main

import (
	"github.com/spf13/cobra"

	"assetguard/internal/platform/config"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func (o *rootOptions) load() (config.Server, error) {
	return config.Load(o.configPath)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "assetguard",
		Short:         "Asset compliance tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newRunChecksCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	return cmd
}
