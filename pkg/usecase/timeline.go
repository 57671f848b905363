package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
)

// Timeline returns the user's memories with event dates in [start, end]
// inclusive, in ascending date order. Both bounds are required.
func (uc *UseCases) Timeline(ctx context.Context, userID types.UserID, start, end time.Time) ([]*model.Memory, error) {
	if start.IsZero() {
		return nil, goerr.New("startDate is required", goerr.T(types.ErrTagValidation))
	}
	if end.IsZero() {
		return nil, goerr.New("endDate is required", goerr.T(types.ErrTagValidation))
	}
	if end.Before(start) {
		return nil, goerr.New("endDate must not precede startDate",
			goerr.T(types.ErrTagValidation),
			goerr.V("startDate", start),
			goerr.V("endDate", end),
		)
	}

	memories, err := uc.graph.Timeline(ctx, userID, start, end)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load timeline")
	}
	return memories, nil
}
