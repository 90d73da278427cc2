package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgbak/cfgbak/internal/common"
	"github.com/cfgbak/cfgbak/internal/errors"
	"github.com/cfgbak/cfgbak/internal/logger"
)

func testLogger(t *testing.T) common.Logger {
	t.Helper()
	return logger.NewWithOutput(t.TempDir(), false, false, io.Discard, io.Discard)
}

func TestFileSourceFetch(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setupPath func(t *testing.T) string
		want      string
		wantErr   bool
	}{
		"Existing File": {
			setupPath: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "cisco_running_config.cfg")
				require.NoError(t, os.WriteFile(path, []byte("interface Gi0/1\n shutdown\n"), 0o644))
				return path
			},
			want: "interface Gi0/1\n shutdown\n",
		},
		"Empty File": {
			setupPath: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "empty.cfg")
				require.NoError(t, os.WriteFile(path, nil, 0o644))
				return path
			},
			want: "",
		},
		"Missing File": {
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist.cfg")
			},
			wantErr: true,
		},
		"Path Is A Directory": {
			setupPath: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: true,
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := test.setupPath(t)
			s := NewFileSource(path, testLogger(t))

			got, err := s.Fetch(context.Background())

			if test.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrSourceUnavailable),
					"fetch failures must satisfy ErrSourceUnavailable, got %v", err)

				var srcErr *errors.SourceError
				require.True(t, errors.As(err, &srcErr))
				assert.Equal(t, path, srcErr.Path)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestFileSourceFetchCanceledContext(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource(path, testLogger(t)).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSourceIsReadOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg")
	content := []byte("interface Gi0/1\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	before, err := os.Stat(path)
	require.NoError(t, err)

	_, err = NewFileSource(path, testLogger(t)).Fetch(context.Background())
	require.NoError(t, err)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}
