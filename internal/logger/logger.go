package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger implements common.Logger on top of zap. Internal messages go to a
// month-stamped log file; user-facing messages are mirrored to the console.
// Log output rotates by time: each calendar month gets its own file, which
// bounds the growth of any single file.
type Logger struct {
	mu      sync.Mutex
	zl      *zap.SugaredLogger
	logFile string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File // retained for Close
}

// FileName returns the month-stamped log file path for the given time,
// e.g. <dir>/backup_2026-08.log.
func FileName(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("backup_%s.log", now.Format("2006-01")))
}

// New creates a Logger writing to the current month's file under logDir.
// An empty logDir disables file logging and sends everything to stderr.
func New(logDir string, debug, verbose bool) *Logger {
	return NewWithOutput(logDir, debug, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a Logger with custom console writers.
func NewWithOutput(logDir string, debug, verbose bool, stdout, stderr io.Writer) *Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	ecfg := zap.NewProductionEncoderConfig()
	ecfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02T15:04:05.000"))
	}
	encoder := zapcore.NewConsoleEncoder(ecfg)

	var (
		core    zapcore.Core
		file    *os.File
		logFile string
	)

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			_, _ = fmt.Fprintf(stderr, "⚠️  Failed to create log directory: %v\n", err)
		}

		name := FileName(logDir, time.Now())
		f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			file = f
			logFile = name
			core = zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(f)), level)
		} else {
			_, _ = fmt.Fprintf(stderr, "⚠️  Failed to open log file: %v, using stderr instead\n", err)
		}
	}

	if core == nil {
		// Fallback when file logging is disabled or the file could not be opened
		core = zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(stderr)), level)
	}

	l := &Logger{
		zl:      zap.New(core).Sugar(),
		logFile: logFile,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}

	if logFile != "" {
		l.zl.Info("cfgbak logging started")
	}

	return l
}

// LogFile returns the path of the active log file, or "" when logging to stderr.
func (l *Logger) LogFile() string {
	return l.logFile
}

// Info logs an informational message (file only)
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Infof(format, args...)
}

// Warning logs a warning message (file only)
func (l *Logger) Warning(format string, args ...interface{}) {
	l.zl.Warnf(format, args...)
}

// Error logs an error message (file only)
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Errorf(format, args...)
}

// InfoToUser logs an informational message to both file and stdout
func (l *Logger) InfoToUser(format string, args ...interface{}) {
	l.zl.Infof(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.stdout, "ℹ️  %s\n", fmt.Sprintf(format, args...))
}

// WarningToUser logs a warning message to both file and stderr
func (l *Logger) WarningToUser(format string, args ...interface{}) {
	l.zl.Warnf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.stderr, "⚠️  %s\n", fmt.Sprintf(format, args...))
}

// Success logs a success message to both file and stdout
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Infof(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.stdout, "✅ %s\n", fmt.Sprintf(format, args...))
}

// StatusMessage logs a status message. It is always written to the log file
// but only shown on the console in verbose mode.
func (l *Logger) StatusMessage(format string, args ...interface{}) {
	l.zl.Infof(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "%s\n", fmt.Sprintf(format, args...))
	}
}

// Close flushes buffered log entries and closes the log file handle.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.zl.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
