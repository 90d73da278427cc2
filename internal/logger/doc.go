// Package logger implements the common.Logger interface on top of zap.
//
// Runs are expected to be short-lived and frequent, so the log file is chosen
// per-month (backup_YYYY-MM.log) rather than rotated in-process: every run in
// a given month appends to the same file, and a new month starts a new file.
// User-facing messages (InfoToUser, WarningToUser, Success, StatusMessage)
// are mirrored to the console so cron's captured output stays useful, while
// Info/Warning/Error go to the log file only.
package logger
