// Package organize performs the rename-and-move half of a run: it
// computes destination paths from matched rules, creates destination
// directories, and relocates files one at a time.
package organize

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"copymedia/internal/errors"
	"copymedia/internal/log"
	"copymedia/pkg/types"
)

// Engine handles file relocation operations. A single file's failure is
// recorded in its MoveResult and never aborts the remaining batch.
type Engine struct {
	dryRun       bool
	destinations map[string]struct{}
}

// New creates a relocation engine
func New() *Engine {
	return &Engine{
		destinations: make(map[string]struct{}),
	}
}

// SetDryRun sets whether moves should be performed or just logged
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// MoveSeries relocates matched series files from sourceDir into their
// per-rule folders under seriesRoot, applying the rule's rename
// substitution when present.
func (e *Engine) MoveSeries(matches []types.Match, seriesRoot, sourceDir string) []types.MoveResult {
	results := make([]types.MoveResult, 0, len(matches))

	for _, m := range matches {
		destName := m.Rule.Rename(m.File)
		if destName != m.File {
			log.Debugf("New name for [%s] will be [%s]", m.File, destName)
		}

		destDir := filepath.Join(seriesRoot, m.Rule.Folder())
		src := filepath.Join(sourceDir, m.File)
		dest := filepath.Join(destDir, destName)

		result := types.MoveResult{SourcePath: src, DestinationPath: dest}
		if err := e.relocate(src, dest); err != nil {
			log.Error("Failed to move file", err)
			result.Error = err
		} else {
			result.Moved = !e.dryRun
			e.record(destDir)
		}
		results = append(results, result)
	}

	return results
}

// MoveMovies relocates movie files from sourceDir directly into
// movieRoot. Placement is flat and the original filename is kept.
func (e *Engine) MoveMovies(files []string, movieRoot, sourceDir string) []types.MoveResult {
	results := make([]types.MoveResult, 0, len(files))

	for _, f := range files {
		src := filepath.Join(sourceDir, f)
		dest := filepath.Join(movieRoot, f)

		result := types.MoveResult{SourcePath: src, DestinationPath: dest}
		if err := e.relocate(src, dest); err != nil {
			log.Error("Failed to move file", err)
			result.Error = err
		} else {
			result.Moved = !e.dryRun
			e.record(movieRoot)
		}
		results = append(results, result)
	}

	return results
}

// Destinations returns the distinct destination directories written to
// so far, sorted.
func (e *Engine) Destinations() []string {
	dirs := make([]string, 0, len(e.destinations))
	for d := range e.destinations {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func (e *Engine) record(destDir string) {
	if !e.dryRun {
		e.destinations[destDir] = struct{}{}
	}
}

// relocate ensures the destination directory exists and moves src to
// dest. Safe to call when the directory already exists.
func (e *Engine) relocate(src, dest string) error {
	cleanSrc := filepath.Clean(src)
	cleanDest := filepath.Clean(dest)

	if cleanSrc == cleanDest {
		log.Debugf("Source and destination are the same, skipping: %s", src)
		return nil
	}

	srcInfo, err := os.Stat(cleanSrc)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("source file not found", cleanSrc, errors.FileNotFound, err)
		}
		return errors.NewFileError("source file error", cleanSrc, errors.FileAccessDenied, err)
	}
	if srcInfo.IsDir() {
		return errors.NewFileError("cannot move directory as file", cleanSrc, errors.InvalidPath, nil)
	}

	if e.dryRun {
		log.Info("Would move [%s] to [%s]", cleanSrc, cleanDest)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cleanDest), 0755); err != nil {
		return errors.NewFileError("failed to create destination directory", filepath.Dir(cleanDest), errors.FileOperationFailed, err)
	}

	// Destination collisions are a per-file failure: the source stays
	// put for the next run rather than clobbering what is there.
	if _, err := os.Stat(cleanDest); err == nil {
		return errors.NewFileError("destination already exists", cleanDest, errors.FileOperationFailed, nil)
	} else if !os.IsNotExist(err) {
		return errors.NewFileError("error checking destination", cleanDest, errors.FileOperationFailed, err)
	}

	log.Debugf("Moving [%s] to [%s]...", cleanSrc, cleanDest)
	if err := os.Rename(cleanSrc, cleanDest); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			// Destination lives on another filesystem; fall back to
			// copy-then-delete.
			if err := copyFile(cleanSrc, cleanDest); err != nil {
				return errors.NewFileError("failed to copy across filesystems", cleanSrc, errors.FileOperationFailed, err)
			}
			if err := os.Remove(cleanSrc); err != nil {
				return errors.NewFileError("failed to remove source after copy", cleanSrc, errors.FileOperationFailed, err)
			}
		} else {
			return errors.NewFileError("failed to move file", cleanSrc, errors.FileOperationFailed, err)
		}
	}

	log.Info("Successfully moved [%s] to [%s]", cleanSrc, cleanDest)
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}
