package main

import (
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages...]",
		Short: "Validate derive directives without generating code",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := opts.derive(cmd.Context(), args)
			if err != nil {
				return err
			}

			printDiagnostics(cmd.OutOrStdout(), p.Diagnostics, opts.verbose)

			if p.Diagnostics.HasErrors() {
				return errDiagnostics
			}

			return nil
		},
	}
}
