package interfaces

import (
	"context"
	"time"

	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
)

// GraphQuery is the filter set for a graph-side memory search
type GraphQuery struct {
	UserID   types.UserID
	TagNames []string
	Range    model.DateRange
}

// GraphStore abstracts the graph database (Neo4j in production). SaveMemory
// merges by memory ID so a retried write cannot create duplicate nodes.
type GraphStore interface {
	// SaveMemory merges the memory node, its tag nodes and the TAGGED edges
	SaveMemory(ctx context.Context, m *model.Memory) error

	// SearchMemories returns distinct memories matching the query in
	// descending event-date order, each with its full tag set attached.
	SearchMemories(ctx context.Context, q GraphQuery) ([]*model.Memory, error)

	// Timeline returns the user's memories within [start, end] inclusive,
	// in ascending event-date order.
	Timeline(ctx context.Context, userID types.UserID, start, end time.Time) ([]*model.Memory, error)

	Close(ctx context.Context) error
}
