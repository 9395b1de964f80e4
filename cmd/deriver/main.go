// Package main provides the CLI entrypoint for deriver.
//
// deriver reads `//derive:` directives from Go packages (or aggregates
// described in a YAML manifest), resolves the requested capabilities and
// writes their implementations next to the annotated types:
//
//	deriver gen ./models          # write models/derive_gen.go
//	deriver check ./...           # report diagnostics only
//	deriver watch ./models        # regenerate on change
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// errDiagnostics is returned when a run reported derivation errors. The
// diagnostics themselves have already been printed.
var errDiagnostics = errors.New("derivation failed")

// options holds the flags shared by every subcommand.
type options struct {
	verbose   bool
	manifest  string
	outDir    string
	pkg       string
	noImports bool
	noComment bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "deriver",
		Short: "deriver - generate capability implementations from derive directives",
		Long: `deriver generates Default constructors and field accessors for Go types
annotated with //derive:use directives or described in a YAML manifest.

Example:

  //derive:use Default(new), DerefMut
  type Order struct {
      ID     string
      Items  []Item //derive:use DerefMut
      Status Status //derive:use Default("StatusPending")
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}

			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			opts.logger = logger

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVarP(&opts.manifest, "manifest", "m", "", "Read aggregates from a YAML manifest instead of Go packages")
	flags.StringVarP(&opts.outDir, "out", "o", "", "Output directory (default: next to the annotated sources)")
	flags.StringVar(&opts.pkg, "pkg", "", "Package name of the generated files (default: the target package)")

	root.AddCommand(newGenCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newWatchCmd(opts))

	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, err)
		}

		os.Exit(1)
	}
}
