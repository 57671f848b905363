//go:build fastembed

package embedding

import (
	"context"
	"strings"

	fastembed "github.com/anush008/fastembed-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/types"
)

// FastEmbed runs all-MiniLM-L6-v2 locally via ONNX runtime. Build with
// the "fastembed" tag; the runtime library must be available on the host.
type FastEmbed struct {
	model *fastembed.FlagEmbedding
}

var _ interfaces.Embedder = (*FastEmbed)(nil)

// NewFastEmbed creates a local embedder with model files cached in cacheDir
func NewFastEmbed(cacheDir string) (interfaces.Embedder, error) {
	m, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:    fastembed.AllMiniLML6V2,
		CacheDir: cacheDir,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize fastembed model")
	}
	return &FastEmbed{model: m}, nil
}

func (e *FastEmbed) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "embed", goerr.T(types.ErrTagValidation))
	}

	vec, err := e.model.QueryEmbed(text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed text locally", goerr.T(types.ErrTagUpstream))
	}
	if len(vec) != DefaultDimension {
		return nil, goerr.New("embedding has unexpected dimension",
			goerr.T(types.ErrTagUpstream),
			goerr.V("want", DefaultDimension),
			goerr.V("got", len(vec)),
		)
	}
	return vec, nil
}

func (e *FastEmbed) Dimension() int {
	return DefaultDimension
}

// Close releases the ONNX session
func (e *FastEmbed) Close() error {
	if e.model != nil {
		e.model.Destroy()
	}
	return nil
}
