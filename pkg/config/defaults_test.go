package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.Metadata.Type)
	assert.Equal(t, "memory", cfg.Blob.Type)
	assert.False(t, cfg.GC.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.GC.Interval)
	assert.Equal(t, 1000, cfg.GC.BatchSize)
}

func TestApplyDefaults_NormalizesLogLevel(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "debug"

	ApplyDefaults(cfg)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "ERROR"
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Metadata.Type = "badger"
	cfg.Blob.Type = "s3"
	cfg.GC.Interval = time.Hour
	cfg.GC.BatchSize = 100

	ApplyDefaults(cfg)

	assert.Equal(t, "ERROR", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "badger", cfg.Metadata.Type)
	assert.Equal(t, "s3", cfg.Blob.Type)
	assert.Equal(t, time.Hour, cfg.GC.Interval)
	assert.Equal(t, 100, cfg.GC.BatchSize)
}
