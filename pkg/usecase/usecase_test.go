package usecase_test

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/repository/memory"
	"github.com/memora-app/memora/pkg/service/embedding"
	"github.com/memora-app/memora/pkg/usecase"
)

// stores bundles the in-memory backends behind a UseCases under test
type stores struct {
	vector *memory.VectorIndex
	graph  *memory.GraphStore
	blobs  *memory.BlobStorage
}

func newTestUseCases(opts ...usecase.Option) (*usecase.UseCases, *stores) {
	s := &stores{
		vector: memory.NewVectorIndex(),
		graph:  memory.NewGraphStore(),
		blobs:  memory.NewBlobStorage(),
	}
	uc := usecase.New(s.vector, s.graph, s.blobs, embedding.NewDeterministic(32), opts...)
	return uc, s
}

// failingGraph rejects every save while delegating reads
type failingGraph struct {
	*memory.GraphStore
}

func (g *failingGraph) SaveMemory(ctx context.Context, m *model.Memory) error {
	return goerr.New("graph store unavailable")
}

// failingVector rejects every upsert while delegating the rest
type failingVector struct {
	*memory.VectorIndex
}

func (v *failingVector) Upsert(ctx context.Context, rec *model.VectorRecord) error {
	return goerr.New("vector index unavailable")
}

// failingEmbedder fails every call
type failingEmbedder struct{}

func (e *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, goerr.New("embedding service unavailable")
}

func (e *failingEmbedder) Dimension() int {
	return 32
}
