// Package pinecone implements the vector index against the Pinecone
// service.
package pinecone

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/utils/remote"
)

// Index is a Pinecone-backed VectorIndex. All calls are idempotent
// (upsert, delete-by-id, query) and run under the retry policy.
type Index struct {
	client *pinecone.Client
	conn   *pinecone.IndexConnection
	policy remote.Policy
}

var _ interfaces.VectorIndex = (*Index)(nil)

// New connects to the named Pinecone index
func New(ctx context.Context, apiKey, indexName, namespace string, policy remote.Policy) (*Index, error) {
	if apiKey == "" {
		return nil, goerr.New("Pinecone API key is required")
	}
	if indexName == "" {
		return nil, goerr.New("Pinecone index name is required")
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Pinecone client")
	}

	idx, err := client.DescribeIndex(ctx, indexName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to describe Pinecone index",
			goerr.V("index", indexName))
	}

	conn, err := client.Index(pinecone.NewIndexConnParams{
		Host:      idx.Host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to Pinecone index",
			goerr.V("index", indexName))
	}

	return &Index{client: client, conn: conn, policy: policy}, nil
}

func (x *Index) Upsert(ctx context.Context, rec *model.VectorRecord) error {
	metadata, err := structpb.NewStruct(map[string]any{
		"userId":   rec.UserID.String(),
		"text":     rec.Text,
		"date":     rec.Date.UTC().Format(time.RFC3339),
		"mediaUrl": rec.MediaURL,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to build vector metadata")
	}

	values := rec.Embedding
	vector := &pinecone.Vector{
		Id:       rec.ID.String(),
		Values:   &values,
		Metadata: metadata,
	}

	err = x.policy.Idempotent(ctx, func(ctx context.Context) error {
		_, err := x.conn.UpsertVectors(ctx, []*pinecone.Vector{vector})
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "failed to upsert vector",
			goerr.T(types.ErrTagUpstream),
			goerr.V("id", rec.ID),
		)
	}
	return nil
}

func (x *Index) Query(ctx context.Context, userID types.UserID, vector []float32, topK int, includeValues bool) ([]*model.VectorMatch, error) {
	filter, err := structpb.NewStruct(map[string]any{
		"userId": userID.String(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build metadata filter")
	}

	var res *pinecone.QueryVectorsResponse
	err = x.policy.Idempotent(ctx, func(ctx context.Context) error {
		res, err = x.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
			Vector:          vector,
			TopK:            uint32(topK),
			MetadataFilter:  filter,
			IncludeMetadata: true,
			IncludeValues:   includeValues,
		})
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query vector index",
			goerr.T(types.ErrTagUpstream),
			goerr.V("userID", userID),
		)
	}

	matches := make([]*model.VectorMatch, 0, len(res.Matches))
	for _, m := range res.Matches {
		if m.Vector == nil {
			continue
		}
		matches = append(matches, toMatch(m))
	}
	return matches, nil
}

func toMatch(m *pinecone.ScoredVector) *model.VectorMatch {
	rec := model.VectorRecord{
		ID: types.MemoryID(m.Vector.Id),
	}
	if m.Vector.Values != nil {
		rec.Embedding = *m.Vector.Values
	}
	if m.Vector.Metadata != nil {
		fields := m.Vector.Metadata.AsMap()
		if v, ok := fields["userId"].(string); ok {
			rec.UserID = types.UserID(v)
		}
		if v, ok := fields["text"].(string); ok {
			rec.Text = v
		}
		if v, ok := fields["mediaUrl"].(string); ok {
			rec.MediaURL = v
		}
		if v, ok := fields["date"].(string); ok {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				rec.Date = t
			}
		}
	}
	return &model.VectorMatch{Record: rec, Score: m.Score}
}

func (x *Index) Delete(ctx context.Context, id types.MemoryID) error {
	err := x.policy.Idempotent(ctx, func(ctx context.Context) error {
		return x.conn.DeleteVectorsById(ctx, []string{id.String()})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete vector",
			goerr.T(types.ErrTagUpstream),
			goerr.V("id", id),
		)
	}
	return nil
}

func (x *Index) Close() error {
	if x.conn != nil {
		return x.conn.Close()
	}
	return nil
}
