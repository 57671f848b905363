package neo4j_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/repository/neo4j"
	"github.com/memora-app/memora/pkg/utils/remote"
)

func newTestStore(t *testing.T) *neo4j.Store {
	t.Helper()

	uri := os.Getenv("TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("TEST_NEO4J_URI not set")
	}

	ctx := context.Background()
	store, err := neo4j.New(ctx,
		uri,
		os.Getenv("TEST_NEO4J_USER"),
		os.Getenv("TEST_NEO4J_PASSWORD"),
		os.Getenv("TEST_NEO4J_DATABASE"),
		remote.DefaultPolicy(),
	)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		if err := store.Close(context.Background()); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})

	gt.NoError(t, store.CreateSchema(ctx)).Required()
	return store
}

// testUser returns a unique user so runs do not see each other's data
func testUser(t *testing.T) types.UserID {
	t.Helper()
	return types.UserID(fmt.Sprintf("test-%d", time.Now().UnixNano()))
}

func TestStoreSaveAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := testUser(t)

	lunch := &model.Memory{
		ID:     types.NewMemoryID(),
		UserID: userID,
		Text:   "had lunch with Mia",
		Date:   time.Date(2025, 4, 3, 13, 0, 0, 0, time.UTC),
		Tags: []model.Tag{
			{Name: "mia", Type: "person"},
			{Name: "lunch", Type: "activity"},
		},
	}
	walk := &model.Memory{
		ID:     types.NewMemoryID(),
		UserID: userID,
		Text:   "evening walk",
		Date:   time.Date(2025, 4, 5, 19, 0, 0, 0, time.UTC),
		Tags:   []model.Tag{},
	}
	gt.NoError(t, store.SaveMemory(ctx, lunch)).Required()
	gt.NoError(t, store.SaveMemory(ctx, walk)).Required()

	t.Run("search without filters returns both date-descending", func(t *testing.T) {
		out, err := store.SearchMemories(ctx, interfaces.GraphQuery{UserID: userID})
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(2)
		gt.Value(t, out[0].ID).Equal(walk.ID)
		gt.Value(t, out[1].ID).Equal(lunch.ID)
	})

	t.Run("tag filter narrows to tagged memories", func(t *testing.T) {
		out, err := store.SearchMemories(ctx, interfaces.GraphQuery{
			UserID:   userID,
			TagNames: []string{"mia"},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(1)
		gt.Value(t, out[0].ID).Equal(lunch.ID)
		gt.Array(t, out[0].Tags).Length(2)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		start := time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC)
		out, err := store.SearchMemories(ctx, interfaces.GraphQuery{
			UserID: userID,
			Range:  model.DateRange{Start: &start, End: &end},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(1)
		gt.Value(t, out[0].ID).Equal(lunch.ID)
	})

	t.Run("timeline is ascending", func(t *testing.T) {
		out, err := store.Timeline(ctx, userID,
			time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(2)
		gt.Value(t, out[0].ID).Equal(lunch.ID)
		gt.Value(t, out[1].ID).Equal(walk.ID)
	})

	t.Run("saving the same ID again merges instead of duplicating", func(t *testing.T) {
		updated := lunch.Clone()
		updated.Text = "had lunch with Mia at the ramen place"
		gt.NoError(t, store.SaveMemory(ctx, updated)).Required()

		out, err := store.SearchMemories(ctx, interfaces.GraphQuery{UserID: userID})
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(2)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		out, err := store.SearchMemories(ctx, interfaces.GraphQuery{UserID: testUser(t)})
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(0)
	})
}
