package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBackend indicates an unsupported storage backend
	ErrInvalidBackend = errors.New("invalid storage backend")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidMaxFileSize indicates a negative file size limit
	ErrInvalidMaxFileSize = errors.New("invalid max file size")

	// ErrInvalidMode indicates an unknown query mode
	ErrInvalidMode = errors.New("invalid query mode")

	// ErrInvalidLimit indicates a negative result limit
	ErrInvalidLimit = errors.New("invalid query limit")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	switch cfg.Storage.Backend {
	case "file", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("%w: %q (must be \"file\" or \"sqlite\")", ErrInvalidBackend, cfg.Storage.Backend))
	}

	if cfg.Scan.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Scan.Workers))
	}
	if cfg.Scan.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxFileSize, cfg.Scan.MaxFileSize))
	}

	switch cfg.Query.Mode {
	case "", "exact", "prefix", "substring", "regex":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidMode, cfg.Query.Mode))
	}
	if cfg.Query.Limit < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidLimit, cfg.Query.Limit))
	}

	return errors.Join(errs...)
}
