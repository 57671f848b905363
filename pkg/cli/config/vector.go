package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/repository/memory"
	"github.com/memora-app/memora/pkg/repository/pinecone"
	"github.com/memora-app/memora/pkg/utils/logging"
	"github.com/memora-app/memora/pkg/utils/remote"
)

// Vector holds CLI flags for vector index backend configuration
type Vector struct {
	backend   string
	apiKey    string
	indexName string
	namespace string
	cloud     string
	region    string
}

// Flags returns CLI flags for vector index configuration
func (v *Vector) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vector-backend",
			Usage:       "Vector index backend type (pinecone or memory)",
			Value:       "pinecone",
			Sources:     cli.EnvVars("MEMORA_VECTOR_BACKEND"),
			Destination: &v.backend,
		},
		&cli.StringFlag{
			Name:        "pinecone-api-key",
			Usage:       "Pinecone API key (required when using pinecone backend)",
			Sources:     cli.EnvVars("MEMORA_PINECONE_API_KEY"),
			Destination: &v.apiKey,
		},
		&cli.StringFlag{
			Name:        "pinecone-index",
			Usage:       "Pinecone index name",
			Value:       "memora-memories",
			Sources:     cli.EnvVars("MEMORA_PINECONE_INDEX"),
			Destination: &v.indexName,
		},
		&cli.StringFlag{
			Name:        "pinecone-namespace",
			Usage:       "Pinecone namespace",
			Sources:     cli.EnvVars("MEMORA_PINECONE_NAMESPACE"),
			Destination: &v.namespace,
		},
		&cli.StringFlag{
			Name:        "pinecone-cloud",
			Usage:       "Cloud provider for serverless index creation",
			Value:       "aws",
			Sources:     cli.EnvVars("MEMORA_PINECONE_CLOUD"),
			Destination: &v.cloud,
		},
		&cli.StringFlag{
			Name:        "pinecone-region",
			Usage:       "Cloud region for serverless index creation",
			Value:       "us-east-1",
			Sources:     cli.EnvVars("MEMORA_PINECONE_REGION"),
			Destination: &v.region,
		},
	}
}

// Backend returns the configured backend type
func (v *Vector) Backend() string {
	return v.backend
}

// APIKey returns the Pinecone API key
func (v *Vector) APIKey() string {
	return v.apiKey
}

// IndexName returns the Pinecone index name
func (v *Vector) IndexName() string {
	return v.indexName
}

// Cloud returns the cloud provider for index creation
func (v *Vector) Cloud() string {
	return v.cloud
}

// Region returns the cloud region for index creation
func (v *Vector) Region() string {
	return v.region
}

// Configure initializes and returns a vector index based on the configured
// backend. The caller is responsible for calling Close() on the returned index.
func (v *Vector) Configure(ctx context.Context, policy remote.Policy) (interfaces.VectorIndex, error) {
	switch v.backend {
	case "pinecone":
		if v.apiKey == "" {
			return nil, goerr.New("pinecone-api-key is required when using pinecone backend")
		}
		idx, err := pinecone.New(ctx, v.apiKey, v.indexName, v.namespace, policy)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize pinecone index")
		}
		logging.Default().Info("Using Pinecone vector index",
			"index", v.indexName,
			"namespace", v.namespace,
		)
		return idx, nil

	case "memory":
		logging.Default().Info("Using in-memory vector index (development mode)")
		return memory.NewVectorIndex(), nil

	default:
		return nil, goerr.New("unknown vector backend", goerr.V("backend", v.backend))
	}
}
