package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/service/embedding"
	"github.com/memora-app/memora/pkg/utils/logging"
)

// Embed holds CLI flags for embedding provider configuration
type Embed struct {
	provider  string
	apiKey    string
	model     string
	dimension int64
	cacheDir  string
}

// Flags returns CLI flags for embedding configuration
func (e *Embed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "embed-provider",
			Usage:       "Embedding provider (openai, fastembed or deterministic)",
			Value:       "openai",
			Sources:     cli.EnvVars("MEMORA_EMBED_PROVIDER"),
			Destination: &e.provider,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (required when using openai provider)",
			Sources:     cli.EnvVars("MEMORA_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &e.apiKey,
		},
		&cli.StringFlag{
			Name:        "embed-model",
			Usage:       "Embedding model name (openai provider only)",
			Sources:     cli.EnvVars("MEMORA_EMBED_MODEL"),
			Destination: &e.model,
		},
		&cli.Int64Flag{
			Name:        "embed-dimension",
			Usage:       "Embedding vector dimension",
			Value:       embedding.DefaultDimension,
			Sources:     cli.EnvVars("MEMORA_EMBED_DIMENSION"),
			Destination: &e.dimension,
		},
		&cli.StringFlag{
			Name:        "embed-cache-dir",
			Usage:       "Model cache directory (fastembed provider only)",
			Sources:     cli.EnvVars("MEMORA_EMBED_CACHE_DIR"),
			Destination: &e.cacheDir,
		},
	}
}

// Provider returns the configured provider name
func (e *Embed) Provider() string {
	return e.provider
}

// Dimension returns the configured embedding dimension
func (e *Embed) Dimension() int {
	return int(e.dimension)
}

// Configure initializes and returns an embedder based on the configured provider
func (e *Embed) Configure() (interfaces.Embedder, error) {
	switch e.provider {
	case "openai":
		if e.apiKey == "" {
			return nil, goerr.New("openai-api-key is required when using openai provider")
		}
		emb, err := embedding.NewOpenAI(e.apiKey, e.model, int(e.dimension))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize openai embedder")
		}
		logging.Default().Info("Using OpenAI embedder", "dimension", e.dimension)
		return emb, nil

	case "fastembed":
		emb, err := embedding.NewFastEmbed(e.cacheDir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize fastembed embedder")
		}
		logging.Default().Info("Using FastEmbed embedder")
		return emb, nil

	case "deterministic":
		logging.Default().Info("Using deterministic embedder (development mode)",
			"dimension", e.dimension,
		)
		return embedding.NewDeterministic(int(e.dimension)), nil

	default:
		return nil, goerr.New("unknown embedding provider", goerr.V("provider", e.provider))
	}
}
