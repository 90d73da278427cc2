// Package cfgbak backs up a network device's running configuration into git.
//
// cfgbak is designed to be run periodically by an external scheduler (cron or
// similar). Each run captures the device's current configuration, compares it
// byte-for-byte against the last stored snapshot, and commits a new revision
// to a git repository only when the configuration has actually changed.
// Unchanged runs leave the repository completely untouched.
//
// # Quick Start
//
//	# Point cfgbak at a configuration source and a backup repository
//	export SOURCE_CONFIG_PATH=/srv/captures/cisco_running_config.cfg
//	export BACKUP_REPO_PATH=/srv/backups/core-switch
//
//	# Run once; schedule with cron for periodic backups
//	cfgbak
//
// # Key Behaviors
//
//   - Change Detection: exact text equality against the previous snapshot;
//     no normalization of whitespace or line endings
//   - Versioned History: each change becomes an immutable git commit with a
//     timestamped "Auto-backup" message
//   - Safe Writes: snapshots are written atomically (temp file + rename) so a
//     crash can never leave a half-written tracked file
//   - Fail Fast: a failed fetch never mutates the repository; errors exit
//     non-zero so the scheduler can detect them
//   - Optional Push: after a commit, the configured remote is pushed to when
//     it exists; a missing remote is skipped with a warning
//
// The device fetch itself is a strategy seam: the shipped implementation
// reads a local file standing in for a live device, and a protocol-backed
// fetcher can be substituted without touching the rest of the pipeline.
package cfgbak
