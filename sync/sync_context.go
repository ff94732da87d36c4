package sync

import "github.com/rs/zerolog"

// SyncContext holds the shared sync configuration and logger.
// It is immutable after construction and safe to share between concurrent runs.
type SyncContext struct {
	Config Config
	Logger zerolog.Logger
}

// NewSyncContext wraps config with a logger. A nil logger discards output.
func NewSyncContext(config Config, logger *zerolog.Logger) *SyncContext {
	result := &SyncContext{
		Config: config,
		Logger: zerolog.Nop(),
	}
	if logger != nil {
		result.Logger = *logger
	}
	return result
}
