package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a minimal configuration that passes validation.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "VERBOSE"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Logging.Level")
}

func TestValidate_InvalidMetadataType(t *testing.T) {
	cfg := validConfig()
	cfg.Metadata.Type = "postgres"

	assert.Error(t, Validate(cfg))
}

func TestValidate_InvalidBlobType(t *testing.T) {
	cfg := validConfig()
	cfg.Blob.Type = "gcs"

	assert.Error(t, Validate(cfg))
}

func TestValidate_BadgerRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Metadata.Type = "badger"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_path")
}

func TestValidate_BadgerInMemoryNeedsNoPath(t *testing.T) {
	cfg := validConfig()
	cfg.Metadata.Type = "badger"
	cfg.Metadata.Badger = map[string]any{"in_memory": true}

	assert.NoError(t, Validate(cfg))
}

func TestValidate_FilesystemRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Blob.Type = "filesystem"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path")
}

func TestValidate_S3RequiresBucketAndRegion(t *testing.T) {
	cfg := validConfig()
	cfg.Blob.Type = "s3"
	cfg.Blob.S3 = map[string]any{"region": "eu-west-1"}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")

	cfg.Blob.S3 = map[string]any{"bucket": "blobs"}
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestValidate_GCIntervalMustBePositiveWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.GC.Enabled = true
	cfg.GC.Interval = -time.Second

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval")
}
