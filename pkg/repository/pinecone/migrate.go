package pinecone

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pinecone-io/go-pinecone/v3/pinecone"

	"github.com/memora-app/memora/pkg/utils/logging"
)

// EnsureIndex creates the serverless index if it does not exist yet.
// Dimension must match the configured embedder.
func EnsureIndex(ctx context.Context, apiKey, indexName string, dimension int32, cloud, region string) error {
	client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return goerr.Wrap(err, "failed to create Pinecone client")
	}

	if idx, err := client.DescribeIndex(ctx, indexName); err == nil {
		if idx.Dimension == nil || *idx.Dimension != dimension {
			return goerr.New("existing Pinecone index has a different dimension",
				goerr.V("index", indexName),
				goerr.V("want", dimension),
			)
		}
		logging.From(ctx).Info("Pinecone index already exists", "index", indexName)
		return nil
	}

	metric := pinecone.Cosine
	deletionProtection := pinecone.DeletionProtectionDisabled
	_, err = client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               indexName,
		Dimension:          &dimension,
		Metric:             &metric,
		Cloud:              pinecone.Cloud(cloud),
		Region:             region,
		DeletionProtection: &deletionProtection,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create Pinecone index",
			goerr.V("index", indexName),
		)
	}

	logging.From(ctx).Info("Created Pinecone index",
		"index", indexName,
		"dimension", dimension,
	)
	return nil
}
