package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"copymedia/internal/watch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMissingDir(t *testing.T) {
	_, err := watch.New(filepath.Join(t.TempDir(), "gone"), 0)
	assert.Error(t, err)
}

func TestNewRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := watch.New(path, 0)
	assert.Error(t, err)
}

func TestWatcherDeliversSettledFile(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.New(dir, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	w.Start()

	path := filepath.Join(dir, "ShowA.S01E01.mkv")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	select {
	case got := <-w.Files():
		assert.Equal(t, path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for file delivery")
	}
}

func TestWatcherIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.New(dir, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	w.Start()

	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))
	path := filepath.Join(dir, "after.mkv")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	select {
	case got := <-w.Files():
		assert.Equal(t, path, got, "the directory event must not be delivered")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for file delivery")
	}
}

func TestStopClosesFileChannel(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.New(dir, 20*time.Millisecond)
	require.NoError(t, err)

	w.Start()
	w.Stop()

	select {
	case _, ok := <-w.Files():
		assert.False(t, ok, "Files must be closed after Stop")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.New(dir, 0)
	require.NoError(t, err)

	w.Start()
	w.Stop()
	assert.NotPanics(t, w.Stop)
}

func TestStopBeforeStart(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.New(dir, 0)
	require.NoError(t, err)

	assert.NotPanics(t, w.Stop)
}
