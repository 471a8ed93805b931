// Batch operations for the S3 blob store: bucket-wide listing for
// reconciliation and chunked batch deletion.
package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// List returns every blob key in the bucket under the configured prefix.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string

	paginator := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.keyPrefix),
	})

	for paginator.HasMorePages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			key := *obj.Key
			if s.keyPrefix != "" && len(key) > len(s.keyPrefix) {
				key = key[len(s.keyPrefix):]
			}
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Count returns the number of stored blobs under the configured prefix.
func (s *Store) Count(ctx context.Context) (int, error) {
	keys, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// DeleteBatch removes multiple blobs in one operation.
//
// S3 supports batch deletes of up to 1000 objects per request; larger batches
// are chunked automatically. Per-object failures are reported in the returned
// map, keyed by blob key.
func (s *Store) DeleteBatch(ctx context.Context, keys []string) (map[string]error, error) {
	failures := make(map[string]error)

	// S3 allows max 1000 objects per delete request
	const maxBatchSize = 1000

	for i := 0; i < len(keys); i += maxBatchSize {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(keys); j++ {
				failures[keys[j]] = err
			}
			return failures, err
		}

		end := i + maxBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		batch := keys[i:end]

		objects := make([]types.ObjectIdentifier, len(batch))
		for j, key := range batch {
			objects[j] = types.ObjectIdentifier{
				Key: aws.String(s.objectKey(key)),
			}
		}

		result, err := s.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			for _, key := range batch {
				failures[key] = err
			}
			continue
		}

		for _, derr := range result.Errors {
			if derr.Key == nil {
				continue
			}
			key := *derr.Key
			if s.keyPrefix != "" && len(key) > len(s.keyPrefix) {
				key = key[len(s.keyPrefix):]
			}
			message := "delete failed"
			if derr.Message != nil {
				message = *derr.Message
			}
			failures[key] = errors.New(message)
		}
	}

	return failures, nil
}
