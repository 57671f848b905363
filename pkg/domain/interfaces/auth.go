package interfaces

import (
	"context"

	"github.com/memora-app/memora/pkg/domain/model/auth"
)

// TokenVerifier validates bearer tokens against the external identity
// provider and resolves the caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)

	// IsNoAuthn reports whether the verifier runs in development no-auth
	// mode, where every request is attributed to a fixed user.
	IsNoAuthn() bool
}
