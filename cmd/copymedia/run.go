package main

import (
	"fmt"

	"copymedia/internal/notify"
	"copymedia/internal/organize"
	"copymedia/internal/run"
	"copymedia/internal/tmdb"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command, the explicit form of the root's
// default action.
func NewRunCmd(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run [delugeArgs...]",
		Short: "Execute one scanning, matching, and relocation pass",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, opts, args, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be moved without making changes")

	return cmd
}

func runOnce(cmd *cobra.Command, opts *options, args []string, dryRun bool) error {
	cfg, file, iftttURL, err := setup(opts, args, true)
	if err != nil {
		return err
	}

	engine := organize.New()
	engine.SetDryRun(dryRun)

	var resolver run.MovieResolver
	if opts.tmdbKey != "" {
		resolver = tmdb.New(opts.tmdbKey)
	}

	runner := run.New(cfg, engine, resolver, notify.NewService(iftttURL))
	report, err := runner.Run(cmd.Context(), file)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("Dry run: %d file(s) matched a series, %d unmatched\n",
			len(report.Matched), len(report.Unmatched))
		return nil
	}

	fmt.Printf("Moved %d file(s) into %d destination(s); %d failed, %d unmatched\n",
		report.Succeeded(), len(report.Destinations), report.Failed(), len(report.Unmatched))
	return nil
}
