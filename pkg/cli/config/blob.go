package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/repository/memory"
	"github.com/memora-app/memora/pkg/service/storage"
	"github.com/memora-app/memora/pkg/utils/logging"
	"github.com/memora-app/memora/pkg/utils/remote"
)

// Blob holds CLI flags for media storage backend configuration
type Blob struct {
	backend string
	bucket  string
	region  string
	baseURL string
}

// Flags returns CLI flags for media storage configuration
func (b *Blob) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "blob-backend",
			Usage:       "Media storage backend type (s3, gcs or memory)",
			Value:       "s3",
			Sources:     cli.EnvVars("MEMORA_BLOB_BACKEND"),
			Destination: &b.backend,
		},
		&cli.StringFlag{
			Name:        "blob-bucket",
			Usage:       "Bucket name for media objects (required for s3 and gcs)",
			Sources:     cli.EnvVars("MEMORA_BLOB_BUCKET"),
			Destination: &b.bucket,
		},
		&cli.StringFlag{
			Name:        "blob-region",
			Usage:       "Bucket region (s3 only)",
			Sources:     cli.EnvVars("MEMORA_BLOB_REGION"),
			Destination: &b.region,
		},
		&cli.StringFlag{
			Name:        "blob-base-url",
			Usage:       "Public base URL for media objects (overrides the provider default)",
			Sources:     cli.EnvVars("MEMORA_BLOB_BASE_URL"),
			Destination: &b.baseURL,
		},
	}
}

// Backend returns the configured backend type
func (b *Blob) Backend() string {
	return b.backend
}

// Configure initializes and returns a media storage based on the configured
// backend. The caller is responsible for calling Close() on the returned storage.
func (b *Blob) Configure(ctx context.Context, policy remote.Policy) (interfaces.BlobStorage, error) {
	switch b.backend {
	case "s3":
		if b.bucket == "" {
			return nil, goerr.New("blob-bucket is required when using s3 backend")
		}
		st, err := storage.NewS3(ctx, b.bucket, b.region, b.baseURL, policy)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize s3 storage")
		}
		logging.Default().Info("Using S3 media storage",
			"bucket", b.bucket,
			"region", b.region,
		)
		return st, nil

	case "gcs":
		if b.bucket == "" {
			return nil, goerr.New("blob-bucket is required when using gcs backend")
		}
		st, err := storage.NewGCS(ctx, b.bucket, b.baseURL, policy)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs storage")
		}
		logging.Default().Info("Using GCS media storage", "bucket", b.bucket)
		return st, nil

	case "memory":
		logging.Default().Info("Using in-memory media storage (development mode)")
		return memory.NewBlobStorage(), nil

	default:
		return nil, goerr.New("unknown blob backend", goerr.V("backend", b.backend))
	}
}
