// Package run orchestrates one processing pass: resolve the input file
// set, classify, relocate series matches and notify, or route the
// residue through the movie fallback. Strictly sequential; one file is
// fully handled before the next begins.
package run

import (
	"context"
	"os"
	"path/filepath"

	"copymedia/internal/classify"
	"copymedia/internal/config"
	"copymedia/internal/errors"
	"copymedia/internal/log"
	"copymedia/internal/notify"
	"copymedia/internal/organize"
	"copymedia/pkg/types"
)

// MovieResolver is the lookup oracle consulted for files no series rule
// matched.
type MovieResolver interface {
	IsMovie(ctx context.Context, filename string) (bool, error)
}

// Runner wires the classifier, relocation engine, and the external
// collaborators together for a single pass.
type Runner struct {
	cfg      *config.Config
	engine   *organize.Engine
	movies   MovieResolver
	notifier notify.Service
}

// New creates a runner. movies may be nil when no TMDb key is
// configured; the movie fallback is then skipped.
func New(cfg *config.Config, engine *organize.Engine, movies MovieResolver, notifier notify.Service) *Runner {
	return &Runner{
		cfg:      cfg,
		engine:   engine,
		movies:   movies,
		notifier: notifier,
	}
}

// Run executes one pass. file, when non-empty, is the single input path
// (typically from the download-client callback); otherwise the scan
// directory is listed. The returned report records every relocation
// attempted. Only setup problems produce an error; per-file and
// collaborator failures are logged and absorbed.
func (r *Runner) Run(ctx context.Context, file string) (*types.RunReport, error) {
	files, sourceDir, err := r.resolveInput(file)
	if err != nil {
		return nil, err
	}

	matches, unmatched := classify.Partition(files, r.cfg.Series)
	report := &types.RunReport{Matched: matches, Unmatched: unmatched}

	if len(matches) > 0 {
		report.Moves = append(report.Moves, r.engine.MoveSeries(matches, r.cfg.SeriesDir, sourceDir)...)

		if err := r.notifier.SeriesMoved(ctx, matches); err != nil {
			log.Warn("Notification failed", err)
		}
	} else if len(unmatched) > 0 && r.cfg.MovieDir != "" {
		movies := r.resolveMovies(ctx, unmatched)
		report.Moves = append(report.Moves, r.engine.MoveMovies(movies, r.cfg.MovieDir, sourceDir)...)
	}

	report.Destinations = r.engine.Destinations()
	return report, nil
}

// resolveInput builds the list of bare filenames to process and the
// directory they live in. An explicit file wins over the scan
// directory; a directory scan is flat, skipping subdirectories and
// ignored names.
func (r *Runner) resolveInput(file string) ([]string, string, error) {
	if file != "" {
		dir, name := filepath.Split(file)
		log.Debugf("Found file to match [%s]", file)
		return []string{name}, dir, nil
	}

	log.Debugf("Found directory to scan: [%s]", r.cfg.ScanDir)
	entries, err := os.ReadDir(r.cfg.ScanDir)
	if err != nil {
		return nil, "", errors.NewConfigError("error reading scan directory", r.cfg.ScanDir, errors.MissingScanSource, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if r.cfg.Ignored(entry.Name()) {
			log.Debugf("Ignoring [%s]", entry.Name())
			continue
		}
		files = append(files, entry.Name())
	}
	return files, r.cfg.ScanDir, nil
}

// resolveMovies filters the unmatched files through the movie lookup.
// A lookup failure resolves to "not a movie" so a flaky collaborator
// can never misfile a series episode into the movie root.
func (r *Runner) resolveMovies(ctx context.Context, unmatched []string) []string {
	if r.movies == nil {
		log.Debugf("No TMDb API key configured; skipping movie lookup")
		return nil
	}

	var movies []string
	for _, f := range unmatched {
		isMovie, err := r.movies.IsMovie(ctx, f)
		if err != nil {
			log.Warn("Movie lookup failed, treating as not a movie", err)
			continue
		}
		if isMovie {
			movies = append(movies, f)
		}
	}
	return movies
}
