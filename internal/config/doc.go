// Package config provides configuration handling for the cfgbak application.
//
// Configuration values are loaded with the following precedence:
//
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. TOML config file named by CFGBAK_CONFIG
// 4. Default values (lowest priority)
//
// # Environment Variables
//
//	SOURCE_CONFIG_PATH   Path to the configuration source artifact
//	                     (default: cisco_running_config.cfg)
//	BACKUP_REPO_PATH     Path to the backup repository (default: current directory)
//	BACKUP_FILENAME      Snapshot file name (default: cisco_backup.cfg)
//	GIT_REMOTE           Remote pushed to after a commit (default: origin)
//	GIT_BRANCH           Branch pushed to the remote (default: main)
//	GIT_PUSH             Push after a commit when the remote exists (default: true)
//	VERBOSE              Show status messages on the console (default: true)
//	DEBUG                Enable debug logging (default: false)
//	LOG_DIR              Directory for log files (default: <repo>/logs)
//	CFGBAK_CONFIG        Optional TOML file providing the same settings
//
// Finalize validates the assembled configuration and resolves relative paths;
// it must be called once before the config is handed to the components.
package config
