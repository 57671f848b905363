package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/repository/memory"
)

func record(userID types.UserID, text string, embedding []float32) *model.VectorRecord {
	return &model.VectorRecord{
		ID:        types.NewMemoryID(),
		UserID:    userID,
		Text:      text,
		Date:      time.Now().UTC(),
		Embedding: embedding,
	}
}

func TestVectorIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("Query returns matches in descending score order", func(t *testing.T) {
		idx := memory.NewVectorIndex()

		exact := record("user-1", "exact", []float32{1, 0, 0})
		near := record("user-1", "near", []float32{0.9, 0.1, 0})
		far := record("user-1", "far", []float32{0, 0, 1})
		for _, rec := range []*model.VectorRecord{far, exact, near} {
			gt.NoError(t, idx.Upsert(ctx, rec)).Required()
		}

		matches, err := idx.Query(ctx, "user-1", []float32{1, 0, 0}, 10, false)
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(3)

		gt.Value(t, matches[0].Record.ID).Equal(exact.ID)
		gt.Value(t, matches[1].Record.ID).Equal(near.ID)
		gt.Value(t, matches[2].Record.ID).Equal(far.ID)
		gt.Bool(t, matches[0].Score >= matches[1].Score).True()
		gt.Bool(t, matches[1].Score >= matches[2].Score).True()
	})

	t.Run("Query is scoped to the requesting user", func(t *testing.T) {
		idx := memory.NewVectorIndex()
		mine := record("user-1", "mine", []float32{1, 0})
		gt.NoError(t, idx.Upsert(ctx, mine)).Required()
		gt.NoError(t, idx.Upsert(ctx, record("user-2", "theirs", []float32{1, 0}))).Required()

		matches, err := idx.Query(ctx, "user-1", []float32{1, 0}, 10, false)
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(1)
		gt.Value(t, matches[0].Record.ID).Equal(mine.ID)
	})

	t.Run("Query honors topK", func(t *testing.T) {
		idx := memory.NewVectorIndex()
		for i := 0; i < 5; i++ {
			gt.NoError(t, idx.Upsert(ctx, record("user-1", "entry", []float32{1, 0}))).Required()
		}

		matches, err := idx.Query(ctx, "user-1", []float32{1, 0}, 3, false)
		gt.NoError(t, err).Required()
		gt.Array(t, matches).Length(3)
	})

	t.Run("embeddings are returned only when requested", func(t *testing.T) {
		idx := memory.NewVectorIndex()
		gt.NoError(t, idx.Upsert(ctx, record("user-1", "entry", []float32{0.6, 0.8}))).Required()

		without, err := idx.Query(ctx, "user-1", []float32{0.6, 0.8}, 1, false)
		gt.NoError(t, err).Required()
		gt.Value(t, without[0].Record.Embedding).Nil()

		with, err := idx.Query(ctx, "user-1", []float32{0.6, 0.8}, 1, true)
		gt.NoError(t, err).Required()
		gt.Array(t, with[0].Record.Embedding).Length(2)
	})

	t.Run("Upsert with the same ID replaces the record", func(t *testing.T) {
		idx := memory.NewVectorIndex()
		rec := record("user-1", "before", []float32{1, 0})
		gt.NoError(t, idx.Upsert(ctx, rec)).Required()

		updated := *rec
		updated.Text = "after"
		gt.NoError(t, idx.Upsert(ctx, &updated)).Required()

		gt.Value(t, idx.Len()).Equal(1)
		matches, err := idx.Query(ctx, "user-1", []float32{1, 0}, 1, false)
		gt.NoError(t, err).Required()
		gt.Value(t, matches[0].Record.Text).Equal("after")
	})

	t.Run("Delete removes the record", func(t *testing.T) {
		idx := memory.NewVectorIndex()
		rec := record("user-1", "entry", []float32{1, 0})
		gt.NoError(t, idx.Upsert(ctx, rec)).Required()
		gt.NoError(t, idx.Delete(ctx, rec.ID)).Required()
		gt.Value(t, idx.Len()).Equal(0)
	})
}
