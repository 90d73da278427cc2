package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/cfgbak/cfgbak/internal/common"
	"github.com/cfgbak/cfgbak/internal/config"
	internalErrors "github.com/cfgbak/cfgbak/internal/errors"
	"github.com/cfgbak/cfgbak/internal/lock"
	"github.com/cfgbak/cfgbak/internal/logger"
	"github.com/cfgbak/cfgbak/internal/repo"
	"github.com/cfgbak/cfgbak/internal/source"
)

// Submitter persists configuration snapshots into version control
type Submitter interface {
	Init(ctx context.Context) error
	Submit(ctx context.Context, text string) (repo.Result, error)
}

// Locker manages file locking
type Locker interface {
	Acquire() error
	Release() error
}

// Logger alias to common.Logger
type Logger = common.Logger

// AppOptions contains app configuration and dependencies
type AppOptions struct {
	// Required
	Config *config.Config

	// Optional components
	Logger  Logger
	Locker  Locker
	Fetcher source.Fetcher
	Repo    Submitter

	// I/O dependencies
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	Exit         func(code int)
	ExecLookPath func(file string) (string, error)
}

// App is the main cfgbak application: a run-once backup pipeline that
// fetches the device configuration and submits it to the snapshot repository
type App struct {
	Config  *config.Config
	Logger  Logger
	Locker  Locker
	Fetcher source.Fetcher
	Repo    Submitter

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	exit         func(code int)
	execLookPath func(file string) (string, error)
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) (*App, error) {
	cfg := config.New()
	cfg.VersionInfo = versionInfo
	if err := cfg.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	opts := AppOptions{
		Config:       cfg,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
	}

	return NewApp(opts), nil
}

// NewApp creates an App with custom dependencies
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Locker:       opts.Locker,
		Fetcher:      opts.Fetcher,
		Repo:         opts.Repo,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		exit:         opts.Exit,
		execLookPath: opts.ExecLookPath,
	}

	// Set defaults for nil dependencies
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}

	return app
}

// Initialize sets up components not provided during construction
func (a *App) Initialize() error {
	if err := a.Config.Finalize(); err != nil {
		if internalErrors.Is(err, internalErrors.ErrInvalidConfiguration) {
			return err
		}
		return internalErrors.Wrap(internalErrors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.NewWithOutput(a.Config.LogDir, a.Config.Debug, a.Config.Verbose, a.Stdout, a.Stderr)
	}

	if a.Locker == nil {
		locker, err := lock.New(a.Config.RepoPath)
		if err != nil {
			return internalErrors.Wrap(err, "failed to initialize lock")
		}
		a.Locker = locker
	}

	if a.Fetcher == nil {
		a.Fetcher = source.NewFileSource(a.Config.SourcePath, a.Logger)
	}

	if a.Repo == nil {
		a.Repo = repo.New(repo.Config{
			RepoPath:   a.Config.RepoPath,
			BackupFile: a.Config.BackupFile,
			Remote:     a.Config.Remote,
			Branch:     a.Config.Branch,
			Push:       a.Config.Push,
		}, a.Logger)
	}

	return nil
}

// Run executes one backup cycle: fetch the configuration, submit it to the
// repository, and report the outcome. The repository is never mutated when
// the fetch fails.
func (a *App) Run(ctx context.Context) error {
	if a.Config.Version {
		a.ShowVersion()
		return nil
	}

	if err := a.Initialize(); err != nil {
		return err
	}

	defer func() {
		if err := a.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", err)
		}
	}()

	a.Logger.Info("Starting backup process...")

	if err := a.checkRequiredCommands(); err != nil {
		a.Logger.Error("%v", err)
		_, _ = fmt.Fprintf(a.Stderr, "❌ Error: %v. Please install it and try again.\n", err)
		return err
	}

	if err := a.Locker.Acquire(); err != nil {
		a.Logger.Error("Failed to acquire lock: %v", err)
		if internalErrors.Is(err, internalErrors.ErrAlreadyRunning) {
			return err
		}
		return internalErrors.Wrap(internalErrors.ErrLockAcquisitionFailure, err.Error())
	}

	text, err := a.Fetcher.Fetch(ctx)
	if err != nil {
		// Fetch failure ends the run before any repository mutation
		a.Logger.Error("Backup process failed: %v", err)
		a.Logger.WarningToUser("Backup failed: %v", err)
		return err
	}

	if err := a.Repo.Init(ctx); err != nil {
		a.Logger.Error("Backup process failed: %v", err)
		a.Logger.WarningToUser("Backup failed: %v", err)
		return err
	}

	result, err := a.Repo.Submit(ctx, text)
	if err != nil {
		a.Logger.Error("Backup process failed: %v", err)
		a.Logger.WarningToUser("Backup failed: %v", err)
		return err
	}

	switch result.Status {
	case repo.StatusCommitted:
		a.Logger.InfoToUser("Backup committed as revision %s", result.Revision)
	case repo.StatusUnchanged:
		a.Logger.InfoToUser("Configuration unchanged; nothing to commit")
	}
	a.Logger.Info("Backup process completed successfully.")

	return nil
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "cfgbak %s (%s) built on %s\n",
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// checkRequiredCommands verifies git is available in PATH
func (a *App) checkRequiredCommands() error {
	_, err := a.execLookPath("git")
	if err != nil {
		return fmt.Errorf("git is not found in PATH")
	}
	return nil
}

// Close releases resources held by the App
func (a *App) Close() error {
	var errs []error

	if a.Locker != nil {
		if err := a.Locker.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release lock during cleanup: %v", err)
			} else {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to release lock during cleanup: %v\n", err)
			}
			errs = append(errs, err)
		}
	}

	if a.Logger != nil {
		if l, ok := a.Logger.(*logger.Logger); ok && l != nil {
			if err := l.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
