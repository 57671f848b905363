package usecase

import (
	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/service/projection"
)

const (
	defaultSearchTopK   = 10
	defaultMoodMapLimit = 100
)

// UseCases orchestrates the three backing stores for every memory
// operation. It holds no mutable state; all store handles are injected at
// construction.
type UseCases struct {
	vector   interfaces.VectorIndex
	graph    interfaces.GraphStore
	blobs    interfaces.BlobStorage
	embedder interfaces.Embedder

	projector    interfaces.Projector
	searchTopK   int
	moodMapLimit int
}

type Option func(*UseCases)

// WithProjector overrides the mood-map projector
func WithProjector(p interfaces.Projector) Option {
	return func(uc *UseCases) {
		uc.projector = p
	}
}

// WithSearchTopK sets the nearest-neighbor count for vector search
func WithSearchTopK(k int) Option {
	return func(uc *UseCases) {
		if k > 0 {
			uc.searchTopK = k
		}
	}
}

// WithMoodMapLimit caps the number of memories on the mood map
func WithMoodMapLimit(limit int) Option {
	return func(uc *UseCases) {
		if limit > 0 {
			uc.moodMapLimit = limit
		}
	}
}

func New(vector interfaces.VectorIndex, graph interfaces.GraphStore, blobs interfaces.BlobStorage, embedder interfaces.Embedder, opts ...Option) *UseCases {
	uc := &UseCases{
		vector:       vector,
		graph:        graph,
		blobs:        blobs,
		embedder:     embedder,
		projector:    projection.NewPCA(),
		searchTopK:   defaultSearchTopK,
		moodMapLimit: defaultMoodMapLimit,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
