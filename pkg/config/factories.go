package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/marmos91/dataroom/internal/logger"
	"github.com/marmos91/dataroom/pkg/blob"
	blobFs "github.com/marmos91/dataroom/pkg/blob/fs"
	blobMemory "github.com/marmos91/dataroom/pkg/blob/memory"
	blobS3 "github.com/marmos91/dataroom/pkg/blob/s3"
	"github.com/marmos91/dataroom/pkg/dataroom"
	storeBadger "github.com/marmos91/dataroom/pkg/store/badger"
	storeMemory "github.com/marmos91/dataroom/pkg/store/memory"
	"github.com/mitchellh/mapstructure"
)

// CreateMetadataStore creates a metadata store based on configuration.
//
// The Type field selects the backend; the matching options map is decoded
// into the backend's own configuration type and handed to its constructor.
//
// Supported types:
//   - "memory": pkg/store/memory (ephemeral, for tests and development)
//   - "badger": pkg/store/badger (persistent BadgerDB storage)
func CreateMetadataStore(ctx context.Context, cfg *MetadataConfig) (dataroom.Store, error) {
	switch cfg.Type {
	case "memory":
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return storeMemory.New(), nil

	case "badger":
		var storeCfg storeBadger.Config
		if err := mapstructure.Decode(cfg.Badger, &storeCfg); err != nil {
			return nil, fmt.Errorf("failed to decode badger metadata store config: %w", err)
		}

		store, err := storeBadger.New(ctx, storeCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create badger metadata store: %w", err)
		}

		logger.Info("Badger metadata store initialized: path=%s", storeCfg.DBPath)
		return store, nil

	default:
		return nil, fmt.Errorf("unknown metadata store type: %q (supported: memory, badger)", cfg.Type)
	}
}

// CreateBlobStore creates a blob store based on configuration.
//
// Supported types:
//   - "memory": pkg/blob/memory (ephemeral, for tests and development)
//   - "filesystem": pkg/blob/fs (local disk storage)
//   - "s3": pkg/blob/s3 (Amazon S3 or compatible object storage)
func CreateBlobStore(ctx context.Context, cfg *BlobConfig) (blob.Store, error) {
	switch cfg.Type {
	case "memory":
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return blobMemory.New(), nil

	case "filesystem":
		return createFilesystemBlobStore(ctx, cfg.Filesystem)

	case "s3":
		return createS3BlobStore(ctx, cfg.S3)

	default:
		return nil, fmt.Errorf("unknown blob store type: %q (supported: memory, filesystem, s3)", cfg.Type)
	}
}

// createFilesystemBlobStore creates a disk-backed blob store.
func createFilesystemBlobStore(ctx context.Context, options map[string]any) (blob.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type FilesystemBlobStoreConfig struct {
		Path string `mapstructure:"path"`
	}

	var storeCfg FilesystemBlobStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode filesystem blob store config: %w", err)
	}

	if storeCfg.Path == "" {
		return nil, fmt.Errorf("filesystem blob store: path is required")
	}

	store, err := blobFs.New(storeCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem blob store: %w", err)
	}

	logger.Info("Filesystem blob store initialized: path=%s", storeCfg.Path)
	return store, nil
}

// createS3BlobStore creates an S3-backed blob store.
func createS3BlobStore(ctx context.Context, options map[string]any) (blob.Store, error) {
	type S3BlobStoreConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	var storeCfg S3BlobStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode S3 blob store config: %w", err)
	}

	if storeCfg.Bucket == "" {
		return nil, fmt.Errorf("S3 blob store: bucket is required")
	}
	if storeCfg.Region == "" {
		return nil, fmt.Errorf("S3 blob store: region is required")
	}

	// ========================================================================
	// Step 1: Build AWS Config
	// ========================================================================

	var configOptions []func(*awsConfig.LoadOptions) error

	configOptions = append(configOptions, awsConfig.WithRegion(storeCfg.Region))

	// Custom endpoint for S3-compatible storage (MinIO, Localstack, etc.)
	if storeCfg.Endpoint != "" {
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		customResolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
				return aws.Endpoint{
					URL:               storeCfg.Endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		configOptions = append(configOptions, awsConfig.WithEndpointResolverWithOptions(customResolver))
	}

	// Static credentials if provided, default credential chain otherwise
	if storeCfg.AccessKeyID != "" && storeCfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			storeCfg.AccessKeyID,
			storeCfg.SecretAccessKey,
			"",
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	maxRetries := storeCfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// ========================================================================
	// Step 2: Create S3 Client
	// ========================================================================

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// path-style addressing for MinIO/Localstack compatibility
		if storeCfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	// ========================================================================
	// Step 3: Create S3 Blob Store
	// ========================================================================

	store, err := blobS3.New(ctx, blobS3.Config{
		Client:    client,
		Bucket:    storeCfg.Bucket,
		KeyPrefix: storeCfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 blob store: %w", err)
	}

	logger.Info("S3 blob store initialized: bucket=%s, region=%s, prefix=%s",
		storeCfg.Bucket, storeCfg.Region, storeCfg.KeyPrefix)

	return store, nil
}
