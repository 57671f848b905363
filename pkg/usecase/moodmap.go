package usecase

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
)

// MoodMap projects up to moodMapLimit of the user's memories onto 2-D
// coordinates.
//
// The candidate set comes from a neutral (zero) query vector, so which
// memories are selected is arbitrary once the user has more than the
// limit, a known limitation of fetching through a similarity index.
// Within the selected set the output is deterministic: candidates are
// ordered by ID (IDs sort by creation time) before the PCA projection,
// so repeated calls over unchanged data return identical coordinates.
func (uc *UseCases) MoodMap(ctx context.Context, userID types.UserID) ([]*model.MoodPoint, error) {
	neutral := make([]float32, uc.embedder.Dimension())
	matches, err := uc.vector.Query(ctx, userID, neutral, uc.moodMapLimit, true)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch memories for mood map")
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Record.ID < matches[j].Record.ID
	})

	vectors := make([][]float32, len(matches))
	for i, m := range matches {
		vectors[i] = m.Record.Embedding
	}
	points := uc.projector.Project(vectors)
	if len(points) != len(matches) {
		return nil, goerr.New("projector returned unexpected point count",
			goerr.V("want", len(matches)),
			goerr.V("got", len(points)),
		)
	}

	out := make([]*model.MoodPoint, len(matches))
	for i, m := range matches {
		out[i] = &model.MoodPoint{
			ID:       m.Record.ID,
			Position: model.Position{X: points[i].X, Y: points[i].Y},
			Text:     m.Record.Text,
			Date:     m.Record.Date,
			MediaURL: m.Record.MediaURL,
		}
	}

	return out, nil
}
