package config

import (
	"fmt"
	"strings"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q (got %q)", BackendFile, BackendSQLite, c.Storage.Backend)
	}

	if c.Timer.MaxSnapshotAge <= 0 {
		return fmt.Errorf("timer.max_snapshot_age must be > 0 (got %v)", c.Timer.MaxSnapshotAge)
	}

	if strings.TrimSpace(c.Export.TimeLayout) == "" {
		return fmt.Errorf("export.time_layout must not be empty")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\" (got %q)", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}

	return nil
}
