package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/attest/internal/datasize"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/validator"
)

var (
	ErrVersionTooLow      = errors.New("version must be >= 1")
	ErrInvalidPath        = errors.New("invalid path")
	ErrInvalidConcurrency = errors.New("concurrency must be >= 1")
	ErrInvalidSize        = errors.New("size must be positive")
)

// Validate reports every problem with cfg; it returns nil when cfg is usable.
// Paths are checked for shape only, not existence.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	switch {
	case cfg.Version < 1:
		errs = append(errs, ErrVersionTooLow)
	case cfg.Version > CurrentVersion:
		errs = append(errs, errors.Newf("unsupported config version: %d", cfg.Version))
	}

	if _, err := validator.ParseFormat(cfg.Format); err != nil {
		errs = append(errs, err)
	}

	if cfg.Concurrency < 1 {
		errs = append(errs, ErrInvalidConcurrency)
	}

	if err := checkSize(cfg.MaxFileSize); err != nil {
		errs = append(errs, &FieldError{Field: "max_file_size", Value: cfg.MaxFileSize, Err: err})
	}

	// An empty rules path falls back to the default rule file.
	if cfg.Rules != "" && !wellFormedPath(cfg.Rules) {
		errs = append(errs, &FieldError{Field: "rules", Value: cfg.Rules, Err: ErrInvalidPath})
	}

	return errs
}

func checkSize(s string) error {
	size, err := datasize.Parse(s)
	if err != nil {
		return err
	}
	if size == 0 {
		return ErrInvalidSize
	}
	return nil
}

func wellFormedPath(path string) bool {
	if strings.ContainsRune(path, '\x00') {
		return false
	}
	cleaned := filepath.Clean(path)
	return cleaned != "" && cleaned != "."
}

// FieldError ties a validation failure to the config key that caused it.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
