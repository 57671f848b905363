package auth

import (
	"context"

	"github.com/memora-app/memora/pkg/domain/types"
)

// Identity is the verified caller identity extracted from a bearer token
type Identity struct {
	Sub   types.UserID
	Email string
	Name  string
}

// NewIdentity creates a new Identity
func NewIdentity(sub types.UserID, email, name string) *Identity {
	return &Identity{
		Sub:   sub,
		Email: email,
		Name:  name,
	}
}

type ctxIdentityKey struct{}

// ContextWithIdentity returns a context carrying the verified identity
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey{}, id)
}

// IdentityFromContext extracts the verified identity from the context.
// The second return value is false when no identity has been injected.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxIdentityKey{}).(*Identity)
	return id, ok
}
