package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model/auth"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/utils/errutil"
)

// authMiddleware validates the bearer token on protected requests and
// injects the verified identity into the request context. The identity is
// the only source of the user ID for every downstream query.
func authMiddleware(verifier interfaces.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				errutil.HandleHTTP(r.Context(), w,
					goerr.New("authentication is not configured", goerr.T(types.ErrTagAuth)))
				return
			}

			var token string
			if verifier.IsNoAuthn() {
				token = "" // verifier resolves the fixed development user
			} else {
				header := r.Header.Get("Authorization")
				if !strings.HasPrefix(header, "Bearer ") {
					errutil.HandleHTTP(r.Context(), w,
						goerr.New("no token provided", goerr.T(types.ErrTagAuth)))
					return
				}
				token = strings.TrimPrefix(header, "Bearer ")
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w,
					goerr.Wrap(err, "invalid token", goerr.T(types.ErrTagAuth)))
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityFrom extracts the verified identity injected by authMiddleware
func identityFrom(r *http.Request) (*auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil, goerr.New("no verified identity in request context", goerr.T(types.ErrTagAuth))
	}
	return identity, nil
}
