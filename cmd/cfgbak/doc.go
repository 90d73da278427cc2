// Command cfgbak captures a network device's running configuration and
// commits it into a git-backed backup repository when it has changed.
//
// Each invocation runs exactly one backup cycle and exits: zero on success
// (whether a new revision was committed or the configuration was unchanged),
// non-zero when the source could not be read or the repository could not be
// updated. Schedule it with cron or a systemd timer for periodic backups.
//
// Configuration comes from environment variables (SOURCE_CONFIG_PATH,
// BACKUP_REPO_PATH, ...), an optional TOML file named by CFGBAK_CONFIG, and
// command-line flags; see the internal/config package for the full list.
package main
