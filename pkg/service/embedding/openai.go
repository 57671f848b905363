package embedding

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/types"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAI embeds text with the OpenAI embeddings API. The requested
// dimension is passed through so a 384-dim index can be served by
// text-embedding-3-small without client-side truncation.
type OpenAI struct {
	client *openai.Client
	model  string
	dim    int
}

var _ interfaces.Embedder = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI embedder. model defaults to
// text-embedding-3-small and dimension to DefaultDimension.
func NewOpenAI(apiKey, model string, dimension int) (*OpenAI, error) {
	if apiKey == "" {
		return nil, goerr.New("OpenAI API key is required")
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
		dim:    dimension,
	}, nil
}

func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "embed", goerr.T(types.ErrTagValidation))
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dim,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create embedding",
			goerr.T(types.ErrTagUpstream),
			goerr.V("model", e.model),
		)
	}
	if len(resp.Data) == 0 {
		return nil, goerr.New("embedding response is empty", goerr.T(types.ErrTagUpstream))
	}

	vec := resp.Data[0].Embedding
	if len(vec) != e.dim {
		return nil, goerr.New("embedding has unexpected dimension",
			goerr.T(types.ErrTagUpstream),
			goerr.V("want", e.dim),
			goerr.V("got", len(vec)),
		)
	}
	return vec, nil
}

func (e *OpenAI) Dimension() int {
	return e.dim
}
