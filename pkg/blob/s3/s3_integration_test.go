//go:build integration
// +build integration

package s3

import (
	"context"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/marmos91/dataroom/pkg/blob"
	blobtesting "github.com/marmos91/dataroom/pkg/blob/testing"
	"github.com/stretchr/testify/require"
)

// TestS3Store_Integration runs the complete blob store test suite against a
// real S3-compatible service (Localstack).
//
// Prerequisites:
//   - Localstack running on localhost:4566
//   - Run with: go test -tags=integration ./pkg/blob/s3/...
//
// To start Localstack:
//
//	docker run --rm -p 4566:4566 localstack/localstack
func TestS3Store_Integration(t *testing.T) {
	ctx := context.Background()

	// ========================================================================
	// Setup: Create S3 client connected to Localstack
	// ========================================================================

	endpoint := os.Getenv("LOCALSTACK_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:4566"
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion("us-east-1"),
		awsConfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			"test", // AccessKeyID
			"test", // SecretAccessKey
			"",     // SessionToken
		)),
	)
	require.NoError(t, err, "failed to load AWS config")

	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		o.UsePathStyle = true // Required for Localstack
	})

	// ========================================================================
	// Create test bucket
	// ========================================================================

	bucketName := "dataroom-test-bucket"

	_, err = client.CreateBucket(ctx, &awss3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	})
	require.NoError(t, err, "failed to create test bucket")

	defer func() {
		// List and delete all objects first
		listResp, _ := client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
			Bucket: aws.String(bucketName),
		})
		if listResp != nil {
			for _, obj := range listResp.Contents {
				client.DeleteObject(ctx, &awss3.DeleteObjectInput{
					Bucket: aws.String(bucketName),
					Key:    obj.Key,
				})
			}
		}

		client.DeleteBucket(ctx, &awss3.DeleteBucketInput{
			Bucket: aws.String(bucketName),
		})
	}()

	// ========================================================================
	// Run standard test suite
	// ========================================================================

	suite := &blobtesting.StoreTestSuite{
		NewStore: func(t *testing.T) blob.Store {
			// a fresh key prefix per test keeps tests isolated within
			// the shared bucket
			store, err := New(ctx, Config{
				Client:    client,
				Bucket:    bucketName,
				KeyPrefix: uuid.NewString() + "/",
			})
			require.NoError(t, err)
			return store
		},
	}
	suite.Run(t)
}
