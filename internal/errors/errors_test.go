package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestSentinelWrapping(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err      error
		sentinel error
	}{
		"Source Error": {
			err:      NewSourceError("/tmp/missing.cfg", Wrap(ErrSourceUnavailable, "no such file")),
			sentinel: ErrSourceUnavailable,
		},
		"Git Error": {
			err:      NewGitError("commit", []string{"-m", "msg"}, Wrap(ErrGitOperationFailed, "exit status 1"), "fatal"),
			sentinel: ErrGitOperationFailed,
		},
		"Lock Error": {
			err:      NewLockError("/tmp/cfgbak.lock", 1234, ErrAlreadyRunning),
			sentinel: ErrAlreadyRunning,
		},
		"Config Error": {
			err:      NewConfigError("repoPath", "", Wrap(ErrInvalidConfiguration, "empty")),
			sentinel: ErrInvalidConfiguration,
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if !Is(test.err, test.sentinel) {
				t.Errorf("expected %v to satisfy %v", test.err, test.sentinel)
			}
		})
	}
}

func TestSourceErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewSourceError("/srv/captures/cfg", stderrors.New("permission denied"))

	if !strings.Contains(err.Error(), "/srv/captures/cfg") {
		t.Errorf("message should include the source path, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("message should include the underlying error, got %q", err.Error())
	}
}

func TestGitErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewGitError("push", []string{"origin", "main:main"}, ErrGitOperationFailed, "remote hung up")

	msg := err.Error()
	for _, want := range []string{"git push failed", "remote hung up", "git operation failed"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should contain %q", msg, want)
		}
	}
}

func TestErrorsAs(t *testing.T) {
	t.Parallel()

	wrapped := Wrapf(NewGitError("add", nil, ErrGitOperationFailed, ""), "submit failed for %s", "backups/cisco_backup.cfg")

	var gitErr *GitError
	if !As(wrapped, &gitErr) {
		t.Fatalf("expected to extract *GitError from %v", wrapped)
	}
	if gitErr.Operation != "add" {
		t.Errorf("expected operation add, got %q", gitErr.Operation)
	}
}

func TestWrapPreservesChain(t *testing.T) {
	t.Parallel()

	base := New("base")
	wrapped := Wrap(base, "context")

	if !Is(wrapped, base) {
		t.Errorf("Wrap should preserve the error chain")
	}
	if wrapped.Error() != "context: base" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
}
