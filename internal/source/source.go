// Package source supplies the current configuration text for a device.
//
// The Fetcher interface is the substitution point between the shipped
// local-file implementation and a future protocol-backed one: anything that
// can produce the full configuration text (or fail with ErrSourceUnavailable)
// can feed the backup pipeline.
package source

import (
	"context"
	"os"

	"github.com/cfgbak/cfgbak/internal/common"
	"github.com/cfgbak/cfgbak/internal/errors"
)

// Fetcher retrieves the current configuration text for a device.
type Fetcher interface {
	// Fetch returns the full configuration text. A missing or unreadable
	// source fails with an error satisfying errors.ErrSourceUnavailable.
	Fetch(ctx context.Context) (string, error)
}

// FileSource reads the configuration from a local file standing in for a
// live device fetch. It is read-only and has no side effects.
//
// A production deployment would replace this with an SSH-backed fetcher that
// runs "show running-config" against the device; FileSource keeps the rest of
// the pipeline identical in the meantime.
type FileSource struct {
	path   string
	logger common.Logger
}

// NewFileSource creates a FileSource reading from the given path.
func NewFileSource(path string, logger common.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

// Path returns the source file location.
func (s *FileSource) Path() string {
	return s.path
}

// Fetch implements Fetcher by reading the whole source file as text.
func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.logger.Info("Connecting to device source: %s...", s.path)

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error("Failed to read source %s: %v", s.path, err)
		return "", errors.NewSourceError(s.path,
			errors.Wrap(errors.ErrSourceUnavailable, err.Error()))
	}

	s.logger.Info("Configuration retrieved successfully (%d bytes)", len(data))
	return string(data), nil
}
