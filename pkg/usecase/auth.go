package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model/auth"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/utils/safe"
)

// openIDConfiguration is the subset of the provider's discovery document
// we need
type openIDConfiguration struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// OIDCVerifier validates bearer tokens issued by an external OpenID
// Connect provider. The JWKS is cached and refreshed in the background.
type OIDCVerifier struct {
	issuer   string
	audience string
	jwksURI  string
	cache    *jwk.Cache
}

var _ interfaces.TokenVerifier = (*OIDCVerifier)(nil)

// NewOIDCVerifier discovers the provider configuration and prepares the
// key cache. ctx governs the lifetime of the background refresh.
func NewOIDCVerifier(ctx context.Context, issuer, audience string) (*OIDCVerifier, error) {
	if issuer == "" {
		return nil, goerr.New("OIDC issuer is required")
	}

	config, err := discoverOpenIDConfiguration(ctx, issuer)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to discover OpenID configuration",
			goerr.V("issuer", issuer))
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(config.JWKSURI, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, goerr.Wrap(err, "failed to register JWKS endpoint",
			goerr.V("jwks_uri", config.JWKSURI))
	}

	return &OIDCVerifier{
		issuer:   issuer,
		audience: audience,
		jwksURI:  config.JWKSURI,
		cache:    cache,
	}, nil
}

func discoverOpenIDConfiguration(ctx context.Context, issuer string) (*openIDConfiguration, error) {
	url := strings.TrimSuffix(issuer, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create discovery request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch discovery document")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected discovery response status",
			goerr.V("status", resp.StatusCode))
	}

	var config openIDConfiguration
	if err := json.NewDecoder(resp.Body).Decode(&config); err != nil {
		return nil, goerr.Wrap(err, "failed to decode discovery document")
	}
	if config.JWKSURI == "" {
		return nil, goerr.New("discovery document has no jwks_uri")
	}
	return &config, nil
}

// Verify validates the bearer token and resolves the caller identity
func (v *OIDCVerifier) Verify(ctx context.Context, raw string) (*auth.Identity, error) {
	keySet, err := v.cache.Get(ctx, v.jwksURI)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch JWKS",
			goerr.T(types.ErrTagUpstream))
	}

	opts := []jwt.ParseOption{
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAcceptableSkew(10 * time.Second),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse([]byte(raw), opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid token", goerr.T(types.ErrTagAuth))
	}

	sub := token.Subject()
	if sub == "" {
		return nil, goerr.New("token has no subject", goerr.T(types.ErrTagAuth))
	}

	identity := auth.NewIdentity(types.UserID(sub), "", "")
	if email, ok := token.Get("email"); ok {
		if s, ok := email.(string); ok {
			identity.Email = s
		}
	}
	if name, ok := token.Get("name"); ok {
		if s, ok := name.(string); ok {
			identity.Name = s
		}
	}
	return identity, nil
}

// IsNoAuthn returns false for the OIDC verifier
func (v *OIDCVerifier) IsNoAuthn() bool {
	return false
}
