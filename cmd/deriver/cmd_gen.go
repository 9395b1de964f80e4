package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Generate implementations for annotated types",
		Long: `Loads the given packages (default ".") or the --manifest file, derives every
declared capability and writes one generated file per package.

Nothing is written when any capability fails; diagnostics are printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, p, err := opts.derive(cmd.Context(), args)
			if err != nil {
				return err
			}

			if p.Diagnostics.HasErrors() || len(p.Diagnostics.Warnings) > 0 {
				printDiagnostics(cmd.ErrOrStderr(), p.Diagnostics, opts.verbose)
			}

			written, err := opts.generate(src, p)
			if err != nil {
				return err
			}

			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}

			return nil
		},
	}

	addGenFlags(cmd, opts)

	return cmd
}

func addGenFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().BoolVar(&opts.noImports, "no-imports", false, "Skip goimports; only imports needed by field types are added")
	cmd.Flags().BoolVar(&opts.noComment, "no-comments", false, "Omit doc comments on generated declarations")
}
