package main

import (
	"os"
	"path/filepath"

	"copymedia/internal/config"
	"copymedia/internal/log"
	"copymedia/internal/notify"

	"github.com/spf13/cobra"
)

// defaultConfigFiles are tried in order when --config is not given. The
// JSON name is the original CopyMedia default; YAML parses both.
var defaultConfigFiles = []string{"CopyMedia.yaml", "CopyMedia.json"}

type options struct {
	file      string
	scanDir   string
	seriesDir string
	movieDir  string
	cfgFile   string
	iftttKey  string
	tmdbKey   string
	logFile   string
}

// NewRootCmd creates the root command. Running it with no subcommand
// executes a single processing pass, which keeps the original
// single-shot invocation (and the deluge execute-on-finished hook)
// working unchanged.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "copymedia [delugeArgs...]",
		Short: "Copy and transform large media files",
		Long: `Copymedia classifies downloaded media files against configured
series rules, relocates them into a destination hierarchy, routes
unmatched files through a TMDb movie lookup, and sends an IFTTT
notification naming the series that moved.

If deluge is used, there will be three positional args, in this order:
Torrent Id, Torrent Name, and Torrent Path. An optional fourth arg is
the IFTTT trigger key.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, opts, args, false)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "File to process. If not specified, then all files within the scan directory are checked.")
	rootCmd.PersistentFlags().StringVarP(&opts.scanDir, "scan", "s", "", "Directory to scan")
	rootCmd.PersistentFlags().StringVarP(&opts.seriesDir, "dest", "d", "", "Destination directory for series")
	rootCmd.PersistentFlags().StringVarP(&opts.movieDir, "moviedest", "m", "", "Destination directory for movies")
	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "Configuration file (default CopyMedia.yaml or CopyMedia.json)")
	rootCmd.PersistentFlags().StringVarP(&opts.iftttKey, "ifttt", "i", "", "IFTTT trigger URL context and API key")
	rootCmd.PersistentFlags().StringVarP(&opts.tmdbKey, "tmdb", "t", "", "The Movie DB API key")
	rootCmd.PersistentFlags().StringVarP(&opts.logFile, "log", "l", "", "Log file")

	rootCmd.AddCommand(NewRunCmd(opts))
	rootCmd.AddCommand(NewWatchCmd(opts))
	rootCmd.AddCommand(NewRulesCmd(opts))

	return rootCmd
}

// setup merges flags, deluge args, and the configuration file into a
// validated configuration plus the resolved input file and IFTTT URL.
func setup(opts *options, delugeArgs []string, needInput bool) (*config.Config, string, string, error) {
	if opts.logFile != "" {
		log.SetFile(opts.logFile)
	}

	file := ""
	iftttURL := ""
	if len(delugeArgs) >= 3 {
		torrentName := delugeArgs[1]
		torrentPath := delugeArgs[2]
		if torrentName != "" && torrentPath != "" {
			file = filepath.Join(torrentPath, torrentName)
		}
		if len(delugeArgs) >= 4 {
			iftttURL = notify.TriggerURL(delugeArgs[3])
		}
	}
	// An explicit filepath from the command line wins over deluge args.
	if opts.file != "" {
		file = opts.file
	}
	if iftttURL == "" && opts.iftttKey != "" {
		iftttURL = notify.TriggerURL(opts.iftttKey)
	}
	if iftttURL == "" {
		log.Warnf("IFTTT notification url not provided.")
	}

	cfg, err := config.LoadConfigFile(configPath(opts.cfgFile))
	if err != nil {
		return nil, "", "", err
	}

	cfg.Apply(config.Overrides{
		ScanDir:   opts.scanDir,
		SeriesDir: opts.seriesDir,
		MovieDir:  opts.movieDir,
	})

	if cfg.LogLevel != "" {
		log.SetLevel(cfg.LogLevel)
	}
	if opts.logFile == "" && cfg.LogFile != "" {
		log.SetFile(cfg.LogFile)
	}

	haveFile := file != "" || !needInput
	if err := cfg.Validate(haveFile); err != nil {
		return nil, "", "", err
	}

	return cfg, file, iftttURL, nil
}

func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	for _, candidate := range defaultConfigFiles {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return defaultConfigFiles[0]
}
