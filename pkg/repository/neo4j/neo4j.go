// Package neo4j implements the graph store against a Neo4j database.
//
// Event dates are persisted as fixed-width RFC3339 UTC strings, so the
// lexicographic comparisons in Cypher match chronological order.
package neo4j

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/utils/remote"
)

// Store is a Neo4j-backed GraphStore. Each operation opens its own session
// and closes it on every exit path. Writes merge by memory ID, so a
// repeated write updates the same node instead of duplicating it.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	policy   remote.Policy
}

var _ interfaces.GraphStore = (*Store)(nil)

// New connects to Neo4j and verifies connectivity
func New(ctx context.Context, uri, user, password, database string, policy remote.Policy) (*Store, error) {
	if uri == "" {
		return nil, goerr.New("Neo4j URI is required")
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Neo4j driver", goerr.V("uri", uri))
	}

	if err := policy.Once(ctx, driver.VerifyConnectivity); err != nil {
		return nil, goerr.Wrap(err, "failed to verify Neo4j connectivity", goerr.V("uri", uri))
	}

	return &Store{driver: driver, database: database, policy: policy}, nil
}

const saveMemoryQuery = `
MERGE (m:Memory {id: $id})
SET m.userId = $userId,
    m.text = $text,
    m.date = $date,
    m.mediaUrl = $mediaUrl
WITH m
UNWIND $tags AS tag
MERGE (t:Tag {name: tag.name, type: tag.type})
MERGE (m)-[:TAGGED]->(t)
`

func (s *Store) SaveMemory(ctx context.Context, m *model.Memory) error {
	params := map[string]any{
		"id":       m.ID.String(),
		"userId":   m.UserID.String(),
		"text":     m.Text,
		"date":     formatDate(m.Date),
		"mediaUrl": m.MediaURL,
	}
	tags := make([]map[string]any, len(m.Tags))
	for i, t := range m.Tags {
		tags[i] = map[string]any{"name": t.Name, "type": t.Type}
	}
	params["tags"] = tags

	// The MERGE is idempotent, but graph writes are still not retried
	// automatically: a partial failure is reported upward instead.
	err := s.policy.Once(ctx, func(ctx context.Context) error {
		session := s.driver.NewSession(ctx, neo4j.SessionConfig{
			AccessMode:   neo4j.AccessModeWrite,
			DatabaseName: s.database,
		})
		defer session.Close(ctx)

		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, saveMemoryQuery, params)
			if err != nil {
				return nil, err
			}
			_, err = res.Consume(ctx)
			return nil, err
		})
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save memory to graph",
			goerr.T(types.ErrTagUpstream),
			goerr.V("id", m.ID),
		)
	}
	return nil
}

const searchMemoriesQuery = `
MATCH (m:Memory {userId: $userId})
WHERE ($start IS NULL OR m.date >= $start)
  AND ($end IS NULL OR m.date <= $end)
  AND ($tags IS NULL OR EXISTS {
    MATCH (m)-[:TAGGED]->(ft:Tag) WHERE ft.name IN $tags
  })
OPTIONAL MATCH (m)-[:TAGGED]->(t:Tag)
WITH m, collect(t) AS tags
ORDER BY m.date DESC
RETURN m, tags
`

func (s *Store) SearchMemories(ctx context.Context, q interfaces.GraphQuery) ([]*model.Memory, error) {
	params := map[string]any{
		"userId": q.UserID.String(),
		"start":  nullableDate(q.Range.Start),
		"end":    nullableDate(q.Range.End),
		"tags":   nil,
	}
	if len(q.TagNames) > 0 {
		params["tags"] = q.TagNames
	}

	memories, err := s.queryMemories(ctx, searchMemoriesQuery, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search memories in graph",
			goerr.T(types.ErrTagUpstream),
			goerr.V("userID", q.UserID),
		)
	}
	return memories, nil
}

const timelineQuery = `
MATCH (m:Memory {userId: $userId})
WHERE m.date >= $start AND m.date <= $end
OPTIONAL MATCH (m)-[:TAGGED]->(t:Tag)
WITH m, collect(t) AS tags
ORDER BY m.date ASC
RETURN m, tags
`

func (s *Store) Timeline(ctx context.Context, userID types.UserID, start, end time.Time) ([]*model.Memory, error) {
	params := map[string]any{
		"userId": userID.String(),
		"start":  formatDate(start),
		"end":    formatDate(end),
	}

	memories, err := s.queryMemories(ctx, timelineQuery, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load timeline from graph",
			goerr.T(types.ErrTagUpstream),
			goerr.V("userID", userID),
		)
	}
	return memories, nil
}

// queryMemories runs a read query returning (m, tags) rows. Reads are
// idempotent and retried on transient failure.
func (s *Store) queryMemories(ctx context.Context, query string, params map[string]any) ([]*model.Memory, error) {
	var memories []*model.Memory

	err := s.policy.Idempotent(ctx, func(ctx context.Context) error {
		session := s.driver.NewSession(ctx, neo4j.SessionConfig{
			AccessMode:   neo4j.AccessModeRead,
			DatabaseName: s.database,
		})
		defer session.Close(ctx)

		result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, query, params)
			if err != nil {
				return nil, err
			}
			return res.Collect(ctx)
		})
		if err != nil {
			return err
		}

		records := result.([]*neo4j.Record)
		memories = make([]*model.Memory, 0, len(records))
		for _, record := range records {
			m, err := recordToMemory(record)
			if err != nil {
				return remote.Permanent(err)
			}
			memories = append(memories, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return memories, nil
}

func recordToMemory(record *neo4j.Record) (*model.Memory, error) {
	node, ok := record.Values[0].(dbtype.Node)
	if !ok {
		return nil, goerr.New("unexpected record shape: memory node missing")
	}

	m := &model.Memory{
		ID:     types.MemoryID(stringProp(node, "id")),
		UserID: types.UserID(stringProp(node, "userId")),
		Text:   stringProp(node, "text"),
		Tags:   []model.Tag{},
	}
	if raw := stringProp(node, "date"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid date on memory node", goerr.V("id", m.ID))
		}
		m.Date = date
	}
	if url := stringProp(node, "mediaUrl"); url != "" {
		m.MediaURL = url
	}

	if rawTags, ok := record.Values[1].([]any); ok {
		for _, rawTag := range rawTags {
			tagNode, ok := rawTag.(dbtype.Node)
			if !ok {
				continue
			}
			m.Tags = append(m.Tags, model.Tag{
				Name: stringProp(tagNode, "name"),
				Type: stringProp(tagNode, "type"),
			})
		}
	}
	return m, nil
}

func stringProp(node dbtype.Node, key string) string {
	if v, ok := node.Props[key].(string); ok {
		return v
	}
	return ""
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
