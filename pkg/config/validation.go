package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// go-playground/validator handles the declarative rules via struct tags;
// cross-field rules that tags cannot express live in validateCustomRules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

// validateCustomRules performs validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// persistent metadata needs a database path before the daemon starts
	if cfg.Metadata.Type == "badger" {
		if path, _ := cfg.Metadata.Badger["db_path"].(string); path == "" {
			inMemory, _ := cfg.Metadata.Badger["in_memory"].(bool)
			if !inMemory {
				return fmt.Errorf("metadata.badger: db_path is required")
			}
		}
	}

	if cfg.Blob.Type == "filesystem" {
		if path, _ := cfg.Blob.Filesystem["path"].(string); path == "" {
			return fmt.Errorf("blob.filesystem: path is required")
		}
	}

	if cfg.Blob.Type == "s3" {
		if bucket, _ := cfg.Blob.S3["bucket"].(string); bucket == "" {
			return fmt.Errorf("blob.s3: bucket is required")
		}
		if region, _ := cfg.Blob.S3["region"].(string); region == "" {
			return fmt.Errorf("blob.s3: region is required")
		}
	}

	if cfg.GC.Enabled && cfg.GC.Interval <= 0 {
		return fmt.Errorf("gc: interval must be positive when gc is enabled")
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
