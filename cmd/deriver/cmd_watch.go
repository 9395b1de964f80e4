package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deriver/internal/watch"
)

func newWatchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Regenerate whenever sources or the manifest change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return opts.watch(ctx, cmd, args)
		},
	}

	addGenFlags(cmd, opts)

	return cmd
}

func (o *options) watch(ctx context.Context, cmd *cobra.Command, dirs []string) error {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	if o.manifest != "" {
		dirs = []string{filepath.Dir(o.manifest)}
	}

	w, err := watch.New(watch.DefaultConfig(), o.logger)
	if err != nil {
		return err
	}

	if err := w.Add(dirs...); err != nil {
		return errors.Join(err, w.Close())
	}

	patterns := make([]string, 0, len(dirs))
	for _, d := range dirs {
		patterns = append(patterns, dirPattern(d))
	}

	run := func(ctx context.Context, changed []string) error {
		src, p, err := o.derive(ctx, patterns)
		if err != nil {
			return err
		}

		printDiagnostics(cmd.ErrOrStderr(), p.Diagnostics, o.verbose)

		written, err := o.generate(src, p)
		if err != nil {
			return err
		}

		o.logger.Info("regenerated",
			zap.Int("changed", len(changed)),
			zap.Strings("written", written))

		return nil
	}

	if err := run(ctx, nil); err != nil && !errors.Is(err, errDiagnostics) {
		o.logger.Warn("initial generation failed", zap.Error(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", strings.Join(dirs, ", "))

	return w.Run(ctx, run)
}

// dirPattern turns a directory into a package pattern.
func dirPattern(dir string) string {
	if filepath.IsAbs(dir) || strings.HasPrefix(dir, ".") {
		return dir
	}

	return "." + string(filepath.Separator) + dir
}
