package repo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cfgbak/cfgbak/internal/common"
	"github.com/cfgbak/cfgbak/internal/errors"
)

// BackupDir is the subdirectory inside the repository holding snapshot files.
const BackupDir = "backups"

// Logger alias to common.Logger
type Logger = common.Logger

// Status is the outcome of a snapshot submission.
type Status int

const (
	// StatusUnchanged means the submitted text equals the stored snapshot;
	// neither the file nor the version history was touched.
	StatusUnchanged Status = iota

	// StatusCommitted means the snapshot was overwritten and a new revision
	// was recorded.
	StatusCommitted
)

// String returns the outcome name for logging.
func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "Unchanged"
	case StatusCommitted:
		return "Committed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes what Submit did. Revision holds the new commit hash when
// Status is StatusCommitted, and is empty otherwise.
type Result struct {
	Status   Status
	Revision string
}

// Config contains configuration for a snapshot repository
type Config struct {
	// RepoPath is the version-controlled destination directory
	RepoPath string

	// BackupFile is the snapshot file name inside BackupDir
	BackupFile string

	// Remote and Branch select where to push after a commit
	Remote string
	Branch string

	// Push enables the best-effort push after a commit
	Push bool
}

// Repository is a version-controlled directory holding the most recently
// captured configuration snapshot. It detects whether newly fetched text
// differs from the stored snapshot and records a new revision when it does.
type Repository struct {
	config   Config
	logger   Logger
	executor CommandExecutor
	clock    func() time.Time
}

// New creates a Repository with the default command executor
func New(config Config, logger Logger) *Repository {
	return NewWithDeps(config, logger, NewExecExecutor())
}

// NewWithDeps creates a Repository with a custom command executor
func NewWithDeps(config Config, logger Logger, executor CommandExecutor) *Repository {
	return &Repository{
		config:   config,
		logger:   logger,
		executor: executor,
		clock:    time.Now,
	}
}

// SnapshotPath returns the absolute path of the tracked snapshot file.
func (r *Repository) SnapshotPath() string {
	return filepath.Join(r.config.RepoPath, BackupDir, r.config.BackupFile)
}

// relSnapshotPath is the path handed to git, relative to the repository root.
func (r *Repository) relSnapshotPath() string {
	return filepath.Join(BackupDir, r.config.BackupFile)
}

// IsRepository checks if the given path is a git repository
func IsRepository(path string) bool {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--is-inside-work-tree")
	executor := NewExecExecutor()
	return executor.Execute(cmd) == nil
}

// Init ensures the destination directory exists and is initialized for
// version tracking. It is idempotent: an already-initialized repository is
// left untouched.
func (r *Repository) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(r.config.RepoPath, BackupDir), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create backup directory in %s", r.config.RepoPath)
	}

	if _, err := os.Stat(filepath.Join(r.config.RepoPath, ".git")); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to inspect %s", r.config.RepoPath)
	}

	r.logger.InfoToUser("Initializing new Git repository at %s", r.config.RepoPath)
	if err := r.runGit(ctx, "init"); err != nil {
		r.logger.Error("Failed to initialize Git repository: %v", err)
		return err
	}

	return nil
}

// Submit compares text against the stored snapshot and records a new revision
// when it differs. Absence of the snapshot file counts as an empty previous
// state, so the first submission always commits. The comparison is exact byte
// equality with no normalization of line endings or trailing whitespace.
func (r *Repository) Submit(ctx context.Context, text string) (Result, error) {
	target := r.SnapshotPath()

	prev, err := os.ReadFile(target)
	switch {
	case err == nil:
		if string(prev) == text {
			r.logger.Info("No configuration changes detected. Skipping commit.")
			return Result{Status: StatusUnchanged}, nil
		}
	case os.IsNotExist(err):
		// First run: no previous snapshot, always commit
	default:
		return Result{}, errors.Wrapf(err, "failed to read existing snapshot %s", target)
	}

	if err := r.writeSnapshot(target, text); err != nil {
		return Result{}, err
	}
	r.logger.Info("Configuration saved to %s", target)

	rev, err := r.commit(ctx)
	if err != nil {
		return Result{}, err
	}

	if r.config.Push {
		r.push(ctx)
	}

	return Result{Status: StatusCommitted, Revision: rev}, nil
}

// writeSnapshot replaces the snapshot file atomically: the new content is
// written to a temp file in the same directory and renamed over the target,
// so a crash mid-write cannot leave a half-written tracked file.
func (r *Repository) writeSnapshot(target, text string) error {
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write snapshot %s", tmp)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "failed to replace snapshot %s", target)
	}

	return nil
}

// commit stages the snapshot and records a revision with a timestamped message.
func (r *Repository) commit(ctx context.Context) (string, error) {
	rel := r.relSnapshotPath()

	if err := r.runGit(ctx, "add", rel); err != nil {
		r.logger.Error("Failed to stage %s: %v", rel, err)
		return "", err
	}

	msg := fmt.Sprintf("Auto-backup: %s", r.clock().Format("2006-01-02 15:04:05"))
	if err := r.runGit(ctx, "commit", "-m", msg); err != nil {
		r.logger.Error("Failed to create commit: %v", err)
		return "", err
	}

	rev, err := r.runGitWithOutput(ctx, "rev-parse", "HEAD")
	if err != nil {
		// The commit exists; failing to read its hash should not undo the run
		r.logger.Warning("Failed to resolve new revision: %v", err)
		rev = ""
	}

	r.logger.Success("Committed changes: %s", msg)
	return strings.TrimSpace(rev), nil
}

// push sends the configured branch to the remote when the remote exists.
// Push is best-effort: failures are logged but never fail the backup run,
// since the revision is already safely recorded locally.
func (r *Repository) push(ctx context.Context) {
	remotes, err := r.runGitWithOutput(ctx, "remote")
	if err != nil {
		r.logger.Warning("Failed to list remotes: %v", err)
		return
	}

	found := false
	for _, name := range strings.Fields(remotes) {
		if name == r.config.Remote {
			found = true
			break
		}
	}
	if !found {
		r.logger.WarningToUser("Remote '%s' not found. Skipping push.", r.config.Remote)
		return
	}

	r.logger.Info("Pushing to remote %s/%s...", r.config.Remote, r.config.Branch)
	refspec := fmt.Sprintf("%s:%s", r.config.Branch, r.config.Branch)
	if err := r.runGit(ctx, "push", r.config.Remote, refspec); err != nil {
		r.logger.WarningToUser("Push to %s failed: %v", r.config.Remote, err)
		return
	}
	r.logger.Info("Push successful.")
}

// RevisionCount returns the number of revisions in the repository's history.
// A repository without any commits yet counts as zero.
func (r *Repository) RevisionCount(ctx context.Context) (int, error) {
	out, err := r.runGitWithOutput(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		// No HEAD yet (fresh repository)
		return 0, nil
	}

	count, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, errors.Wrapf(err, "unexpected rev-list output %q", out)
	}
	return count, nil
}

// runGit executes a git command in the repository directory.
func (r *Repository) runGit(ctx context.Context, args ...string) error {
	baseArgs := []string{"-C", r.config.RepoPath}
	cmd := exec.CommandContext(ctx, "git", append(baseArgs, args...)...)
	cmd.Dir = r.config.RepoPath
	return r.executor.Execute(cmd)
}

// runGitWithOutput executes a git command and returns its output.
func (r *Repository) runGitWithOutput(ctx context.Context, args ...string) (string, error) {
	baseArgs := []string{"-C", r.config.RepoPath}
	cmd := exec.CommandContext(ctx, "git", append(baseArgs, args...)...)
	cmd.Dir = r.config.RepoPath
	return r.executor.ExecuteWithOutput(cmd)
}
