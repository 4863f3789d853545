package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

func newRunChecksCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run-checks",
		Short: "Run one compliance check and print the summary as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Check.Timeout)
			defer cancel()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			summary, err := a.engine.RunChecks(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
}
