package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cfgbak/cfgbak/internal/errors"
)

const (
	// DefaultSourceFile is the artifact standing in for a live device fetch
	DefaultSourceFile = "cisco_running_config.cfg"

	// DefaultBackupFile is the snapshot file name inside the backups directory
	DefaultBackupFile = "cisco_backup.cfg"

	// DefaultRemote is the git remote pushed to after a commit
	DefaultRemote = "origin"

	// DefaultBranch is the branch pushed to the remote
	DefaultBranch = "main"
)

// Config holds all cfgbak application settings
type Config struct {
	// Source configuration
	SourcePath string

	// Repository configuration
	RepoPath   string
	BackupFile string
	Remote     string
	Branch     string
	Push       bool

	// User experience
	Verbose bool

	// Debugging
	Debug  bool
	LogDir string

	// Special flags
	Version bool

	// Build metadata
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		SourcePath: DefaultSourceFile,
		RepoPath:   "",
		BackupFile: DefaultBackupFile,
		Remote:     DefaultRemote,
		Branch:     DefaultBranch,
		Push:       true,
		Verbose:    true,
		Debug:      false,
		LogDir:     "",
		Version:    false,

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// fileConfig mirrors Config for TOML decoding. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it sets.
type fileConfig struct {
	SourcePath string `toml:"source_path"`
	RepoPath   string `toml:"repo_path"`
	BackupFile string `toml:"backup_file"`
	Remote     string `toml:"remote"`
	Branch     string `toml:"branch"`
	Push       *bool  `toml:"push"`
	Verbose    *bool  `toml:"verbose"`
	Debug      *bool  `toml:"debug"`
	LogDir     string `toml:"log_dir"`
}

// LoadFromFile overlays settings from a TOML file onto the config.
// Values set later by environment variables or flags take precedence.
func (c *Config) LoadFromFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return errors.NewConfigError("configFile", path,
			errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
	}

	if fc.SourcePath != "" {
		c.SourcePath = fc.SourcePath
	}
	if fc.RepoPath != "" {
		c.RepoPath = fc.RepoPath
	}
	if fc.BackupFile != "" {
		c.BackupFile = fc.BackupFile
	}
	if fc.Remote != "" {
		c.Remote = fc.Remote
	}
	if fc.Branch != "" {
		c.Branch = fc.Branch
	}
	if fc.Push != nil {
		c.Push = *fc.Push
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if fc.LogDir != "" {
		c.LogDir = fc.LogDir
	}

	return nil
}

// LoadFromEnvironment updates config from environment variables.
// When CFGBAK_CONFIG points at a TOML file, it is loaded first so that
// individual environment variables still win over file values.
func (c *Config) LoadFromEnvironment() error {
	if path := getEnvString("CFGBAK_CONFIG", ""); path != "" {
		if err := c.LoadFromFile(path); err != nil {
			return err
		}
	}

	c.SourcePath = getEnvString("SOURCE_CONFIG_PATH", c.SourcePath)
	c.RepoPath = getEnvString("BACKUP_REPO_PATH", c.RepoPath)
	c.BackupFile = getEnvString("BACKUP_FILENAME", c.BackupFile)
	c.Remote = getEnvString("GIT_REMOTE", c.Remote)
	c.Branch = getEnvString("GIT_BRANCH", c.Branch)
	c.Push = getEnvBool("GIT_PUSH", c.Push)
	c.Verbose = getEnvBool("VERBOSE", c.Verbose)
	c.Debug = getEnvBool("DEBUG", c.Debug)
	c.LogDir = getEnvString("LOG_DIR", c.LogDir)

	return nil
}

// SetupFlags sets up command-line flags to override config values
func (c *Config) SetupFlags(fs *flag.FlagSet) {
	// Save original values for inverted flags (for CLI ergonomics)
	origPush := c.Push
	origVerbose := c.Verbose

	fs.StringVar(&c.SourcePath, "source", c.SourcePath, "Path to the configuration source artifact")
	fs.StringVar(&c.RepoPath, "repo", c.RepoPath, "Path to the backup repository (default: current directory)")
	fs.StringVar(&c.BackupFile, "file", c.BackupFile, "Snapshot file name inside the backups directory")
	fs.StringVar(&c.Remote, "remote", c.Remote, "Git remote to push to after a commit")
	fs.StringVar(&c.Branch, "branch", c.Branch, "Branch pushed to the remote")
	fs.BoolVar(&c.Push, "no-push", !origPush, "Skip pushing to the remote after a commit")
	fs.BoolVar(&c.Verbose, "quiet", !origVerbose, "Hide informational status messages")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging")
	fs.StringVar(&c.LogDir, "log-dir", c.LogDir, "Directory for log files (default: <repo>/logs)")
	fs.BoolVar(&c.Version, "version", c.Version, "Print version information and exit")
}

// ParseFlags parses the command-line arguments and updates the config
func (c *Config) ParseFlags() error {
	return c.ParseFlagArgs(os.Args[1:])
}

// ParseFlagArgs parses the given arguments and updates the config
func (c *Config) ParseFlagArgs(args []string) error {
	fs := flag.NewFlagSet("cfgbak", flag.ContinueOnError)

	c.SetupFlags(fs)

	if err := fs.Parse(args); err != nil {
		return errors.NewConfigError("flags", nil,
			errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to parse command-line arguments: %v", err)))
	}

	// Invert boolean flags here, after parsing (for CLI ergonomics):
	// -no-push means Push=false, -quiet means Verbose=false
	c.Push = !c.Push
	c.Verbose = !c.Verbose

	return nil
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if c.BackupFile == "" {
		return errors.NewConfigError("backupFile", "",
			errors.Wrap(errors.ErrInvalidConfiguration, "backup file name must not be empty"))
	}
	if strings.ContainsRune(c.BackupFile, os.PathSeparator) {
		return errors.NewConfigError("backupFile", c.BackupFile,
			errors.Wrap(errors.ErrInvalidConfiguration, "backup file name must not contain path separators"))
	}

	if c.SourcePath == "" {
		return errors.NewConfigError("sourcePath", "",
			errors.Wrap(errors.ErrInvalidConfiguration, "source path must not be empty"))
	}

	if c.RepoPath == "" {
		var err error
		c.RepoPath, err = os.Getwd()
		if err != nil {
			return errors.NewConfigError("repoPath", "",
				errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to get current directory: %v", err)))
		}
	}

	absRepoPath, err := filepath.Abs(c.RepoPath)
	if err != nil {
		return errors.NewConfigError("repoPath", c.RepoPath,
			errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to resolve absolute path: %v", err)))
	}
	c.RepoPath = absRepoPath

	absSourcePath, err := filepath.Abs(c.SourcePath)
	if err != nil {
		return errors.NewConfigError("sourcePath", c.SourcePath,
			errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to resolve absolute path: %v", err)))
	}
	c.SourcePath = absSourcePath

	// Logs live beside the repository unless explicitly placed elsewhere
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.RepoPath, "logs")
	}

	return nil
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		valueLower := strings.ToLower(valueStr)
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
		// For any other value, fall back to default
	}
	return defaultValue
}
