package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/utils/remote"
)

// S3 stores media objects in an S3 bucket. Puts overwrite by key and are
// therefore safe to retry.
type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
	policy  remote.Policy
}

var _ interfaces.BlobStorage = (*S3)(nil)

// NewS3 creates an S3-backed blob storage. baseURL overrides the public
// URL prefix (e.g. a CDN); empty means the default bucket endpoint.
func NewS3(ctx context.Context, bucket, region, baseURL string, policy remote.Policy) (*S3, error) {
	if bucket == "" {
		return nil, goerr.New("S3 bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load AWS configuration")
	}

	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}

	return &S3{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		policy:  policy,
	}, nil
}

func (s *S3) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	err := s.policy.Idempotent(ctx, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload media to S3",
			goerr.T(types.ErrTagUpstream),
			goerr.V("bucket", s.bucket),
			goerr.V("key", key),
		)
	}

	return s.baseURL + "/" + key, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	err := s.policy.Idempotent(ctx, func(ctx context.Context) error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete media from S3",
			goerr.T(types.ErrTagUpstream),
			goerr.V("bucket", s.bucket),
			goerr.V("key", key),
		)
	}
	return nil
}

func (s *S3) Close() error {
	return nil
}
