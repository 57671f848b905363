package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/repository/memory"
)

func entry(userID types.UserID, text string, date time.Time, tags ...model.Tag) *model.Memory {
	return &model.Memory{
		ID:     types.NewMemoryID(),
		UserID: userID,
		Text:   text,
		Date:   date,
		Tags:   tags,
	}
}

func TestGraphStore(t *testing.T) {
	ctx := context.Background()
	day := func(d int) time.Time {
		return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
	}

	t.Run("SearchMemories returns the user's memories date-descending", func(t *testing.T) {
		g := memory.NewGraphStore()
		older := entry("user-1", "older", day(1))
		newer := entry("user-1", "newer", day(5))
		gt.NoError(t, g.SaveMemory(ctx, older)).Required()
		gt.NoError(t, g.SaveMemory(ctx, newer)).Required()
		gt.NoError(t, g.SaveMemory(ctx, entry("user-2", "other user", day(3)))).Required()

		out, err := g.SearchMemories(ctx, interfaces.GraphQuery{UserID: "user-1"})
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(2)
		gt.Value(t, out[0].ID).Equal(newer.ID)
		gt.Value(t, out[1].ID).Equal(older.ID)
	})

	t.Run("tag filter matches any of the requested names", func(t *testing.T) {
		g := memory.NewGraphStore()
		tagged := entry("user-1", "with mia", day(1), model.Tag{Name: "mia", Type: "person"})
		other := entry("user-1", "solo walk", day(2), model.Tag{Name: "walk", Type: "activity"})
		untagged := entry("user-1", "plain note", day(3))
		for _, m := range []*model.Memory{tagged, other, untagged} {
			gt.NoError(t, g.SaveMemory(ctx, m)).Required()
		}

		out, err := g.SearchMemories(ctx, interfaces.GraphQuery{
			UserID:   "user-1",
			TagNames: []string{"mia", "beach"},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(1)
		gt.Value(t, out[0].ID).Equal(tagged.ID)
	})

	t.Run("date range bounds are inclusive", func(t *testing.T) {
		g := memory.NewGraphStore()
		inside := entry("user-1", "inside", day(10))
		before := entry("user-1", "before", day(2))
		after := entry("user-1", "after", day(20))
		for _, m := range []*model.Memory{inside, before, after} {
			gt.NoError(t, g.SaveMemory(ctx, m)).Required()
		}

		start, end := day(10), day(15)
		out, err := g.SearchMemories(ctx, interfaces.GraphQuery{
			UserID: "user-1",
			Range:  model.DateRange{Start: &start, End: &end},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(1)
		gt.Value(t, out[0].ID).Equal(inside.ID)
	})

	t.Run("SaveMemory merges by ID", func(t *testing.T) {
		g := memory.NewGraphStore()
		m := entry("user-1", "first version", day(1))
		gt.NoError(t, g.SaveMemory(ctx, m)).Required()

		updated := m.Clone()
		updated.Text = "second version"
		gt.NoError(t, g.SaveMemory(ctx, updated)).Required()

		gt.Value(t, g.Len()).Equal(1)
		out, err := g.SearchMemories(ctx, interfaces.GraphQuery{UserID: "user-1"})
		gt.NoError(t, err).Required()
		gt.Value(t, out[0].Text).Equal("second version")
	})

	t.Run("saved memories are isolated from caller mutation", func(t *testing.T) {
		g := memory.NewGraphStore()
		m := entry("user-1", "original", day(1), model.Tag{Name: "a", Type: "t"})
		gt.NoError(t, g.SaveMemory(ctx, m)).Required()

		m.Text = "mutated"
		m.Tags[0].Name = "b"

		out, err := g.SearchMemories(ctx, interfaces.GraphQuery{UserID: "user-1"})
		gt.NoError(t, err).Required()
		gt.Value(t, out[0].Text).Equal("original")
		gt.Value(t, out[0].Tags[0].Name).Equal("a")
	})

	t.Run("Timeline returns ascending order within the range", func(t *testing.T) {
		g := memory.NewGraphStore()
		first := entry("user-1", "first", day(3))
		second := entry("user-1", "second", day(7))
		outside := entry("user-1", "outside", day(25))
		for _, m := range []*model.Memory{second, outside, first} {
			gt.NoError(t, g.SaveMemory(ctx, m)).Required()
		}

		out, err := g.Timeline(ctx, "user-1", day(1), day(10))
		gt.NoError(t, err).Required()
		gt.Array(t, out).Length(2)
		gt.Value(t, out[0].ID).Equal(first.ID)
		gt.Value(t, out[1].ID).Equal(second.ID)
	})
}
