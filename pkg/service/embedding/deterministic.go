package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/types"
)

// Deterministic is a token-hash embedder for development and tests. It
// needs no external service, is stable for a given input, and keeps
// related texts closer than unrelated ones (shared tokens share buckets).
// It is not a substitute for a real model in production.
type Deterministic struct {
	dim int
}

var _ interfaces.Embedder = (*Deterministic)(nil)

// NewDeterministic creates a hash-bucket embedder of the given dimension
func NewDeterministic(dimension int) *Deterministic {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Deterministic{dim: dimension}
}

func (e *Deterministic) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "embed", goerr.T(types.ErrTagValidation))
	}

	vec := make([]float32, e.dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[int(h.Sum32())%e.dim] += 1.0
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1.0 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}

func (e *Deterministic) Dimension() int {
	return e.dim
}
