package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/usecase"
	"github.com/memora-app/memora/pkg/utils/logging"
)

// Auth holds CLI flags for bearer-token authentication
type Auth struct {
	issuer   string
	audience string
	noAuthID string
}

// Flags returns CLI flags for auth configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-issuer",
			Usage:       "OpenID Connect issuer URL of the identity provider",
			Category:    "Authentication",
			Sources:     cli.EnvVars("MEMORA_AUTH_ISSUER"),
			Destination: &a.issuer,
		},
		&cli.StringFlag{
			Name:        "auth-audience",
			Usage:       "Expected token audience (optional)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("MEMORA_AUTH_AUDIENCE"),
			Destination: &a.audience,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the specified user ID (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("MEMORA_NO_AUTH"),
			Destination: &a.noAuthID,
		},
	}
}

// IsNoAuthMode reports whether the development no-auth mode is enabled
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuthID != ""
}

// Configure initializes the token verifier
func (a *Auth) Configure(ctx context.Context) (interfaces.TokenVerifier, error) {
	if a.noAuthID != "" {
		logging.Default().Warn("Running in no-auth mode (development only)", "user_id", a.noAuthID)
		return usecase.NewNoAuthnVerifier(types.UserID(a.noAuthID), "", ""), nil
	}

	if a.issuer == "" {
		return nil, goerr.New("auth-issuer is required unless --no-auth is set")
	}

	verifier, err := usecase.NewOIDCVerifier(ctx, a.issuer, a.audience)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure OIDC verifier")
	}
	logging.Default().Info("OIDC authentication enabled", "issuer", a.issuer)
	return verifier, nil
}
