package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"copymedia/internal/log"
	"copymedia/internal/notify"
	"copymedia/internal/organize"
	"copymedia/internal/run"
	"copymedia/internal/tmdb"
	"copymedia/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command: a long-running variant of run
// that processes each new file in the scan directory as it settles.
func NewWatchCmd(opts *options) *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the scan directory and process new files as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, iftttURL, err := setup(opts, nil, true)
			if err != nil {
				return err
			}

			engine := organize.New()
			var resolver run.MovieResolver
			if opts.tmdbKey != "" {
				resolver = tmdb.New(opts.tmdbKey)
			}
			runner := run.New(cfg, engine, resolver, notify.NewService(iftttURL))

			watcher, err := watch.New(cfg.ScanDir, settle)
			if err != nil {
				return err
			}
			watcher.Start()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				log.Info("Shutting down watcher")
				watcher.Stop()
			}()

			// Strictly sequential: one file is fully classified and
			// relocated before the next is taken off the channel.
			for path := range watcher.Files() {
				if _, err := runner.Run(cmd.Context(), path); err != nil {
					log.Error("Processing failed", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&settle, "settle", watch.DefaultSettle, "How long a new file must be quiet before processing")

	return cmd
}
