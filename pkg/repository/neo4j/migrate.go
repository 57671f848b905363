package neo4j

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/memora-app/memora/pkg/utils/logging"
)

// schemaQueries are the constraints and indexes the graph queries rely on.
// All statements are IF NOT EXISTS and safe to re-run.
var schemaQueries = []string{
	"CREATE CONSTRAINT memory_id IF NOT EXISTS FOR (m:Memory) REQUIRE m.id IS UNIQUE",
	"CREATE INDEX memory_user IF NOT EXISTS FOR (m:Memory) ON (m.userId)",
	"CREATE INDEX memory_date IF NOT EXISTS FOR (m:Memory) ON (m.date)",
	"CREATE INDEX tag_identity IF NOT EXISTS FOR (t:Tag) ON (t.name, t.type)",
}

// CreateSchema provisions constraints and indexes on the connected database
func (s *Store) CreateSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	for _, query := range schemaQueries {
		res, err := session.Run(ctx, query, nil)
		if err != nil {
			return goerr.Wrap(err, "failed to run schema query", goerr.V("query", query))
		}
		if _, err := res.Consume(ctx); err != nil {
			return goerr.Wrap(err, "failed to apply schema query", goerr.V("query", query))
		}
	}

	logging.From(ctx).Info("Neo4j schema is up to date", "statements", len(schemaQueries))
	return nil
}
