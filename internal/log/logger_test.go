package log_test

import (
	"bytes"
	"os"
	"testing"

	"copymedia/internal/log"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stdout)
		log.SetDebug(false)
	})
	return &buf
}

func TestInfoFormats(t *testing.T) {
	buf := capture(t)

	log.Info("Moved [%s] to [%s]", "a.mkv", "/dest/a.mkv")

	out := buf.String()
	assert.Contains(t, out, "Moved [a.mkv] to [/dest/a.mkv]")
	assert.Contains(t, out, "level=info")
}

func TestErrorAppendsValue(t *testing.T) {
	buf := capture(t)

	log.Error("Failed to move file", assert.AnError)

	assert.Contains(t, buf.String(), "Failed to move file: "+assert.AnError.Error())
}

func TestDebugSuppressedByDefault(t *testing.T) {
	buf := capture(t)

	log.Debugf("hidden detail")
	assert.Empty(t, buf.String())

	log.SetDebug(true)
	log.Debugf("visible detail")
	assert.Contains(t, buf.String(), "visible detail")
}

func TestSetLevelByName(t *testing.T) {
	buf := capture(t)

	log.SetLevel("debug")
	log.Debugf("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestSetLevelUnknownKeepsCurrent(t *testing.T) {
	buf := capture(t)

	log.SetLevel("chatty")
	log.Debugf("still hidden")
	assert.NotContains(t, buf.String(), "still hidden")
}

func TestLogWithFields(t *testing.T) {
	buf := capture(t)

	log.LogWithFields(log.F("directory", "/downloads")).Info("Watching directory")

	out := buf.String()
	assert.Contains(t, out, "Watching directory")
	assert.Contains(t, out, "directory=/downloads")
}
