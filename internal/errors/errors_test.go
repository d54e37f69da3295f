package errors_test

import (
	"fmt"
	"testing"

	"copymedia/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	err := errors.NewConfigError("missing destination series directory", "seriesDir", errors.MissingDestination, nil)

	assert.Equal(t, "missing destination series directory: seriesDir", err.Error())
	assert.Equal(t, "seriesDir", err.Param())
	assert.Equal(t, errors.MissingDestination, err.Kind())
	assert.True(t, errors.IsConfigError(err))
}

func TestConfigErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := errors.NewConfigError("error reading configuration file", "/etc/copymedia.yaml", errors.InvalidConfig, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestFileError(t *testing.T) {
	err := errors.NewFileError("source file not found", "/downloads/a.mkv", errors.FileNotFound, nil)

	assert.Equal(t, "source file not found: /downloads/a.mkv", err.Error())
	assert.Equal(t, "/downloads/a.mkv", err.Path())
	assert.True(t, errors.IsFileNotFound(err))
	assert.False(t, errors.IsConfigError(err))
}

func TestRuleError(t *testing.T) {
	err := errors.NewRuleError("series rule has an invalid regex pattern", "Show A", errors.InvalidRule, nil)

	assert.Equal(t, "Show A", err.RuleName())
	assert.True(t, errors.IsInvalidRule(err))
	assert.False(t, errors.IsFileNotFound(err))
}

func TestIsHelpersThroughWrapping(t *testing.T) {
	inner := errors.NewFileError("source file not found", "/downloads/a.mkv", errors.FileNotFound, nil)
	wrapped := fmt.Errorf("pass failed: %w", inner)

	assert.True(t, errors.IsFileNotFound(wrapped))

	var fileErr *errors.FileError
	require.True(t, errors.As(wrapped, &fileErr))
	assert.Equal(t, "/downloads/a.mkv", fileErr.Path())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "context"))
	assert.Nil(t, errors.Wrapf(nil, "context %d", 1))
}

func TestNewfFormats(t *testing.T) {
	err := errors.Newf("TMDb search failed with status %d", 503)
	assert.EqualError(t, err, "TMDb search failed with status 503")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := errors.Wrap(cause, "IFTTT notification failed")

	assert.EqualError(t, err, "IFTTT notification failed: boom")
	assert.ErrorIs(t, err, cause)
}
