package lock

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgbak/cfgbak/internal/errors"
)

func TestAcquireAndRelease(t *testing.T) {
	t.Parallel()

	l, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, l.Acquire())
	assert.FileExists(t, l.LockFile())

	data, err := os.ReadFile(l.LockFile())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, l.Release())
	assert.NoFileExists(t, l.LockFile())
}

func TestReleaseWithoutAcquire(t *testing.T) {
	t.Parallel()

	l, err := New(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, l.Release())
}

func TestReacquireAfterRelease(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()

	l, err := New(repo)
	require.NoError(t, err)
	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())

	again, err := New(repo)
	require.NoError(t, err)
	require.NoError(t, again.Acquire())
	require.NoError(t, again.Release())
}

func TestStaleLockIsReclaimed(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()

	l, err := New(repo)
	require.NoError(t, err)

	// Simulate a crashed run: lock file with a PID that cannot exist,
	// left unlocked because its holder is gone.
	require.NoError(t, os.WriteFile(l.LockFile(), []byte("999999999"), 0o666))
	t.Cleanup(func() { _ = os.Remove(l.LockFile()) })

	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())
}

func TestLockFilesDifferPerRepository(t *testing.T) {
	t.Parallel()

	a, err := New("/srv/backups/switch-a")
	require.NoError(t, err)
	b, err := New("/srv/backups/switch-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.LockFile(), b.LockFile())
}

func TestSecondHolderFailsWhileProcessAlive(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()

	first, err := New(repo)
	require.NoError(t, err)
	require.NoError(t, first.Acquire())
	t.Cleanup(func() { _ = first.Release() })

	second, err := New(repo)
	require.NoError(t, err)

	err = second.Acquire()
	require.Error(t, err)
	// flock is per-descriptor, so a second Locker in this same (live) process
	// is indistinguishable from another running instance.
	assert.True(t, errors.Is(err, errors.ErrAlreadyRunning), "got %v", err)

	var lockErr *errors.LockError
	require.True(t, errors.As(err, &lockErr))
	assert.Equal(t, os.Getpid(), lockErr.PID)
}
