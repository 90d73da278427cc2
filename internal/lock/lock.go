package lock

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	cfgbakErrors "github.com/cfgbak/cfgbak/internal/errors"
)

// Locker prevents overlapping cfgbak runs against the same repository.
// A cron interval shorter than a slow run would otherwise let two invocations
// race on the snapshot file and the git index.
type Locker struct {
	lockFile string
	lockFd   *os.File
	pid      int
	acquired bool
}

// New creates a Locker for the specified repository path
func New(repoPath string) (*Locker, error) {
	if runtime.GOOS == "windows" {
		return nil, cfgbakErrors.NewLockError("", 0,
			cfgbakErrors.Wrap(cfgbakErrors.ErrLockAcquisitionFailure,
				"cfgbak currently only supports Unix-like operating systems (Linux, macOS, BSD)"))
	}

	repoHash := fmt.Sprintf("%x", sha256.Sum256([]byte(repoPath)))[:16]
	lockFile := filepath.Join(os.TempDir(), fmt.Sprintf("cfgbak-%s.lock", repoHash))

	return &Locker{
		lockFile: lockFile,
		pid:      os.Getpid(),
		acquired: false,
	}, nil
}

// Acquire tries to take the lock. It fails with ErrAlreadyRunning when a live
// process holds it, and silently reclaims locks left behind by dead processes.
func (l *Locker) Acquire() error {
	err := l.tryCreateLock()
	if err == nil {
		return nil
	}
	if os.IsExist(err) {
		return l.tryAcquireExistingLock()
	}
	return err
}

// tryCreateLock attempts to create and lock a fresh lock file
func (l *Locker) tryCreateLock() error {
	var err error

	// O_EXCL with O_CREATE ensures the file is created atomically
	l.lockFd, err = os.OpenFile(l.lockFile, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o666)
	if err != nil {
		if os.IsExist(err) {
			// Pass through so os.IsExist() can detect it in Acquire
			return err
		}
		return cfgbakErrors.NewLockError(l.lockFile, 0,
			cfgbakErrors.Wrap(err, "failed to create lock file"))
	}

	if err = l.acquireFlock(); err != nil {
		l.closeFd()
		return cfgbakErrors.NewLockError(l.lockFile, 0,
			cfgbakErrors.Wrap(err, "failed to lock newly created lock file"))
	}

	if err = l.writePid(); err != nil {
		_ = l.Release()
		return err
	}

	l.acquired = true
	return nil
}

// tryAcquireExistingLock locks a lock file left behind by another run
func (l *Locker) tryAcquireExistingLock() error {
	var err error
	l.lockFd, err = os.OpenFile(l.lockFile, os.O_RDWR, 0o666)
	if err != nil {
		return cfgbakErrors.NewLockError(l.lockFile, 0,
			cfgbakErrors.Wrap(err, "failed to open existing lock file"))
	}

	if err = l.acquireFlock(); err != nil {
		l.closeFd()

		// Older Unixes report EWOULDBLOCK and EAGAIN as distinct codes
		if cfgbakErrors.Is(err, syscall.EWOULDBLOCK) || cfgbakErrors.Is(err, syscall.EAGAIN) {
			return l.handleBlockedLock()
		}

		return cfgbakErrors.NewLockError(l.lockFile, 0,
			cfgbakErrors.Wrap(err, "failed to acquire lock"))
	}

	// The previous holder exited without cleaning up; take over the file
	if err = l.lockFd.Truncate(0); err != nil {
		_ = l.Release()
		return cfgbakErrors.NewLockError(l.lockFile, l.pid,
			cfgbakErrors.Wrap(err, "failed to truncate lock file"))
	}
	if err = l.writePid(); err != nil {
		_ = l.Release()
		return err
	}

	l.acquired = true
	return nil
}

// handleBlockedLock decides between a live holder and a stale lock
func (l *Locker) handleBlockedLock() error {
	otherPid, err := l.readPid()
	if err != nil {
		return cfgbakErrors.NewLockError(l.lockFile, 0,
			cfgbakErrors.Wrap(err, "another cfgbak run holds the lock, but its PID could not be read"))
	}

	if isProcessRunning(otherPid) {
		return cfgbakErrors.NewLockError(l.lockFile, otherPid, cfgbakErrors.ErrAlreadyRunning)
	}

	return l.reclaimStaleLock(otherPid)
}

// reclaimStaleLock removes a dead holder's lock file and retries once
func (l *Locker) reclaimStaleLock(otherPid int) error {
	l.closeFd()

	if err := os.Remove(l.lockFile); err != nil {
		return cfgbakErrors.NewLockError(l.lockFile, otherPid,
			cfgbakErrors.Wrapf(err, "found stale lock from PID %d, but failed to remove it", otherPid))
	}

	if err := l.tryCreateLock(); err != nil {
		if os.IsExist(err) {
			return cfgbakErrors.NewLockError(l.lockFile, 0,
				cfgbakErrors.Wrap(err, "another cfgbak run took the lock right after the stale lock was removed"))
		}
		return err
	}

	return nil
}

// Release releases the lock if it was acquired and removes the lock file
func (l *Locker) Release() error {
	if l.lockFd == nil {
		return nil
	}

	var err error
	if flockErr := syscall.Flock(int(l.lockFd.Fd()), syscall.LOCK_UN); flockErr != nil {
		err = cfgbakErrors.NewLockError(l.lockFile, l.pid,
			cfgbakErrors.Wrap(flockErr, "failed to release lock"))
	}

	if closeErr := l.lockFd.Close(); closeErr != nil && err == nil {
		err = cfgbakErrors.NewLockError(l.lockFile, l.pid,
			cfgbakErrors.Wrap(closeErr, "failed to close lock file"))
	}

	l.lockFd = nil
	l.acquired = false

	// Clean up the file even after earlier errors, reporting only the first failure
	if removeErr := os.Remove(l.lockFile); removeErr != nil && !os.IsNotExist(removeErr) && err == nil {
		err = cfgbakErrors.NewLockError(l.lockFile, l.pid,
			cfgbakErrors.Wrap(removeErr, "failed to remove lock file"))
	}

	return err
}

// LockFile returns the lock file path for this repository.
func (l *Locker) LockFile() string {
	return l.lockFile
}

func (l *Locker) acquireFlock() error {
	return syscall.Flock(int(l.lockFd.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

func (l *Locker) writePid() error {
	if _, err := l.lockFd.WriteAt([]byte(strconv.Itoa(l.pid)), 0); err != nil {
		return cfgbakErrors.NewLockError(l.lockFile, l.pid,
			cfgbakErrors.Wrap(err, "failed to write PID to lock file"))
	}
	return nil
}

func (l *Locker) readPid() (int, error) {
	data, err := os.ReadFile(l.lockFile)
	if err != nil {
		return 0, cfgbakErrors.Wrap(err, "failed to read lock file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, cfgbakErrors.Wrap(err, "invalid PID in lock file")
	}
	return pid, nil
}

func (l *Locker) closeFd() {
	if l.lockFd != nil {
		_ = l.lockFd.Close()
		l.lockFd = nil
	}
}

// isProcessRunning checks if a process exists using signal 0
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
