package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/usecase"
)

func TestNoAuthnVerifier(t *testing.T) {
	v := usecase.NewNoAuthnVerifier("dev-user", "dev@example.com", "Dev User")

	t.Run("Verify ignores the token and returns the fixed identity", func(t *testing.T) {
		ctx := context.Background()

		identity, err := v.Verify(ctx, "")
		gt.NoError(t, err).Required()
		gt.Value(t, identity.Sub).Equal(types.UserID("dev-user"))
		gt.Value(t, identity.Email).Equal("dev@example.com")
		gt.Value(t, identity.Name).Equal("Dev User")

		same, err := v.Verify(ctx, "any-token-at-all")
		gt.NoError(t, err).Required()
		gt.Value(t, same.Sub).Equal(identity.Sub)
	})

	t.Run("IsNoAuthn returns true", func(t *testing.T) {
		gt.Bool(t, v.IsNoAuthn()).True()
	})
}
