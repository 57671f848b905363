package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/repository/memory"
	"github.com/memora-app/memora/pkg/repository/neo4j"
	"github.com/memora-app/memora/pkg/utils/logging"
	"github.com/memora-app/memora/pkg/utils/remote"
)

// Graph holds CLI flags for graph store backend configuration
type Graph struct {
	backend  string
	uri      string
	user     string
	password string
	database string
}

// Flags returns CLI flags for graph store configuration
func (g *Graph) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "graph-backend",
			Usage:       "Graph store backend type (neo4j or memory)",
			Value:       "neo4j",
			Sources:     cli.EnvVars("MEMORA_GRAPH_BACKEND"),
			Destination: &g.backend,
		},
		&cli.StringFlag{
			Name:        "neo4j-uri",
			Usage:       "Neo4j connection URI (required when using neo4j backend)",
			Value:       "neo4j://localhost:7687",
			Sources:     cli.EnvVars("MEMORA_NEO4J_URI"),
			Destination: &g.uri,
		},
		&cli.StringFlag{
			Name:        "neo4j-user",
			Usage:       "Neo4j username",
			Value:       "neo4j",
			Sources:     cli.EnvVars("MEMORA_NEO4J_USER"),
			Destination: &g.user,
		},
		&cli.StringFlag{
			Name:        "neo4j-password",
			Usage:       "Neo4j password",
			Sources:     cli.EnvVars("MEMORA_NEO4J_PASSWORD"),
			Destination: &g.password,
		},
		&cli.StringFlag{
			Name:        "neo4j-database",
			Usage:       "Neo4j database name",
			Sources:     cli.EnvVars("MEMORA_NEO4J_DATABASE"),
			Destination: &g.database,
		},
	}
}

// Backend returns the configured backend type
func (g *Graph) Backend() string {
	return g.backend
}

// Configure initializes and returns a graph store based on the configured
// backend. The caller is responsible for calling Close() on the returned store.
func (g *Graph) Configure(ctx context.Context, policy remote.Policy) (interfaces.GraphStore, error) {
	switch g.backend {
	case "neo4j":
		if g.uri == "" {
			return nil, goerr.New("neo4j-uri is required when using neo4j backend")
		}
		store, err := neo4j.New(ctx, g.uri, g.user, g.password, g.database, policy)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize neo4j store")
		}
		logging.Default().Info("Using Neo4j graph store",
			"uri", g.uri,
			"database", g.database,
		)
		return store, nil

	case "memory":
		logging.Default().Info("Using in-memory graph store (development mode)")
		return memory.NewGraphStore(), nil

	default:
		return nil, goerr.New("unknown graph backend", goerr.V("backend", g.backend))
	}
}
