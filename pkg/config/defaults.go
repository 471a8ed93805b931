package config

import (
	"strings"
	"time"
)

// ApplyDefaults fills in defaults for any configuration values left unset.
// Called after unmarshaling and before validation, so a completely empty
// configuration still produces a runnable daemon.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyMetadataDefaults(&cfg.Metadata)
	applyBlobDefaults(&cfg.Blob)
	applyGCDefaults(cfg)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// normalize for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyMetadataDefaults(cfg *MetadataConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}
}

func applyBlobDefaults(cfg *BlobConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}
}

func applyGCDefaults(cfg *Config) {
	if cfg.GC.Interval == 0 {
		cfg.GC.Interval = 24 * time.Hour
	}
	if cfg.GC.BatchSize == 0 {
		cfg.GC.BatchSize = 1000
	}
}
