package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 26, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("/var/log/cfgbak", "backup_2026-08.log"), FileName("/var/log/cfgbak", now))
}

func TestLoggerWritesToMonthStampedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	l := NewWithOutput(dir, false, true, &stdout, &stderr)
	l.Info("fetching configuration from %s", "/srv/captures/cfg")
	require.NoError(t, l.Close())

	want := FileName(dir, time.Now())
	assert.Equal(t, want, l.LogFile())

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fetching configuration from /srv/captures/cfg")
}

func TestLoggerRouting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	l := NewWithOutput(dir, false, true, &stdout, &stderr)
	l.Info("internal only")
	l.InfoToUser("user info")
	l.WarningToUser("user warning")
	l.Success("all done")
	l.StatusMessage("status line")
	require.NoError(t, l.Close())

	// Internal messages never reach the console
	assert.NotContains(t, stdout.String(), "internal only")
	assert.NotContains(t, stderr.String(), "internal only")

	assert.Contains(t, stdout.String(), "user info")
	assert.Contains(t, stderr.String(), "user warning")
	assert.Contains(t, stdout.String(), "all done")
	assert.Contains(t, stdout.String(), "status line")

	// Everything lands in the log file
	data, err := os.ReadFile(l.LogFile())
	require.NoError(t, err)
	for _, want := range []string{"internal only", "user info", "user warning", "all done", "status line"} {
		assert.Contains(t, string(data), want)
	}
}

func TestLoggerQuietMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	l := NewWithOutput(dir, false, false, &stdout, &stderr)
	l.StatusMessage("status line")
	l.Success("all done")
	require.NoError(t, l.Close())

	// Quiet mode hides status chatter but keeps success/warning output
	assert.NotContains(t, stdout.String(), "status line")
	assert.Contains(t, stdout.String(), "all done")

	data, err := os.ReadFile(l.LogFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "status line")
}

func TestLoggerFallbackWithoutDir(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	l := NewWithOutput("", false, true, &stdout, &stderr)
	l.Error("something broke")
	require.NoError(t, l.Close())

	assert.Empty(t, l.LogFile())
	assert.Contains(t, stderr.String(), "something broke")
}

func TestLoggerAppendsAcrossRuns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	first := NewWithOutput(dir, false, true, &stdout, &stderr)
	first.Info("first run")
	require.NoError(t, first.Close())

	second := NewWithOutput(dir, false, true, &stdout, &stderr)
	second.Info("second run")
	require.NoError(t, second.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "runs within one month share a single log file")

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "first run"))
	assert.Equal(t, 1, strings.Count(string(data), "second run"))
}
