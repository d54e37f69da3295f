package main

import (
	"os"
	"path/filepath"
	"testing"

	"copymedia/internal/errors"
	"copymedia/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
scanDir: /downloads
seriesDir: /media/series
movieDir: /media/movies
series:
  - name: Show A
    regex: "^ShowA.*"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "CopyMedia.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSetupFromConfigFile(t *testing.T) {
	opts := &options{cfgFile: writeConfig(t, testConfig)}

	cfg, file, iftttURL, err := setup(opts, nil, true)
	require.NoError(t, err)

	assert.Equal(t, "/downloads", cfg.ScanDir)
	assert.Equal(t, "/media/series", cfg.SeriesDir)
	assert.Equal(t, "/media/movies", cfg.MovieDir)
	assert.Empty(t, file)
	assert.Empty(t, iftttURL)
}

func TestSetupDelugeArgs(t *testing.T) {
	opts := &options{cfgFile: writeConfig(t, testConfig)}

	args := []string{"torrent-id", "ShowA.S01E01.mkv", "/downloads/complete", "trigger-key"}
	_, file, iftttURL, err := setup(opts, args, true)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/downloads/complete", "ShowA.S01E01.mkv"), file)
	assert.Equal(t, notify.TriggerURL("trigger-key"), iftttURL)
}

func TestSetupFileFlagWinsOverDelugeArgs(t *testing.T) {
	opts := &options{
		cfgFile: writeConfig(t, testConfig),
		file:    "/explicit/file.mkv",
	}

	args := []string{"torrent-id", "ShowA.S01E01.mkv", "/downloads/complete"}
	_, file, _, err := setup(opts, args, true)
	require.NoError(t, err)

	assert.Equal(t, "/explicit/file.mkv", file)
}

func TestSetupIftttKeyFlag(t *testing.T) {
	opts := &options{
		cfgFile:  writeConfig(t, testConfig),
		iftttKey: "flag-key",
	}

	_, _, iftttURL, err := setup(opts, nil, true)
	require.NoError(t, err)
	assert.Equal(t, notify.TriggerURL("flag-key"), iftttURL)
}

func TestSetupOverridesWinOverConfig(t *testing.T) {
	opts := &options{
		cfgFile:   writeConfig(t, testConfig),
		scanDir:   "/other/downloads",
		seriesDir: "/other/series",
		movieDir:  "/other/movies",
	}

	cfg, _, _, err := setup(opts, nil, true)
	require.NoError(t, err)

	assert.Equal(t, "/other/downloads", cfg.ScanDir)
	assert.Equal(t, "/other/series", cfg.SeriesDir)
	assert.Equal(t, "/other/movies", cfg.MovieDir)
}

func TestSetupMissingConfigFile(t *testing.T) {
	opts := &options{cfgFile: filepath.Join(t.TempDir(), "absent.yaml")}

	_, _, _, err := setup(opts, nil, true)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestSetupScanSourceRequiredWithoutFile(t *testing.T) {
	opts := &options{cfgFile: writeConfig(t, `
seriesDir: /media/series
movieDir: /media/movies
series: []
`)}

	_, _, _, err := setup(opts, nil, true)
	require.Error(t, err, "no file and no scan directory leaves nothing to do")
	assert.True(t, errors.IsConfigError(err))

	// The same configuration passes when an explicit file is supplied.
	opts.file = "/downloads/ShowA.S01E01.mkv"
	_, file, _, err := setup(opts, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "/downloads/ShowA.S01E01.mkv", file)
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", configPath("/explicit.yaml"))
	// With no flag and no default files present, the YAML default is
	// reported so the not-found error names it.
	assert.Equal(t, "CopyMedia.yaml", configPath(""))
}
