package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/utils/remote"
	"github.com/memora-app/memora/pkg/utils/safe"
)

// GCS stores media objects in a Google Cloud Storage bucket
type GCS struct {
	client  *gcs.Client
	bucket  string
	baseURL string
	policy  remote.Policy
}

var _ interfaces.BlobStorage = (*GCS)(nil)

// NewGCS creates a GCS-backed blob storage using ambient credentials
func NewGCS(ctx context.Context, bucket, baseURL string, policy remote.Policy) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client")
	}

	if baseURL == "" {
		baseURL = fmt.Sprintf("https://storage.googleapis.com/%s", bucket)
	}

	return &GCS{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		policy:  policy,
	}, nil
}

func (s *GCS) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	err := s.policy.Idempotent(ctx, func(ctx context.Context) error {
		w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
		w.ContentType = contentType
		if _, err := w.Write(data); err != nil {
			safe.Close(ctx, w)
			return err
		}
		return w.Close()
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload media to GCS",
			goerr.T(types.ErrTagUpstream),
			goerr.V("bucket", s.bucket),
			goerr.V("key", key),
		)
	}

	return s.baseURL + "/" + key, nil
}

func (s *GCS) Delete(ctx context.Context, key string) error {
	err := s.policy.Idempotent(ctx, func(ctx context.Context) error {
		if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
			if errors.Is(err, gcs.ErrObjectNotExist) {
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete media from GCS",
			goerr.T(types.ErrTagUpstream),
			goerr.V("bucket", s.bucket),
			goerr.V("key", key),
		)
	}
	return nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}
