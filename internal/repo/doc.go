// Package repo implements the version-controlled snapshot repository.
//
// A Repository wraps a git working tree whose backups/ directory holds the
// most recently captured configuration snapshot. Submit is the single
// entry point: it compares newly fetched text against the stored file with
// exact byte equality and, only when they differ, atomically overwrites the
// snapshot and records a timestamped revision. Git is driven through the
// CommandExecutor seam so tests can substitute a mock for failure injection.
package repo
