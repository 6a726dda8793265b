// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"loaner/config"
	"loaner/internal/domain/service"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	jwksRefreshInterval  = time.Hour
	jwksRefreshRateLimit = 5 * time.Minute
	jwksRefreshTimeout   = 10 * time.Second
)

// oauth2Validator validates bearer tokens against a remote JWKS and the
// configured issuer/audience trust parameters.
type oauth2Validator struct {
	keyFunc  jwt.Keyfunc
	issuer   string
	audience string
	logger   *slog.Logger
}

// ValidatorParams holds dependencies for the token validator, injected by Fx.
type ValidatorParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewOAuth2Validator creates a TokenValidator backed by the issuer's JWKS
// endpoint. Missing trust parameters are a fatal startup condition, never a
// per-request one.
func NewOAuth2Validator(params ValidatorParams) (service.TokenValidator, error) {
	cfg := params.Config.OAuth
	if cfg == nil {
		return nil, errors.New("oauth configuration is required")
	}
	if cfg.JWKSURI == "" || cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("oauth jwksUri, issuer and audience are required")
	}

	jwks, err := keyfunc.Get(cfg.JWKSURI, keyfunc.Options{
		RefreshInterval:   jwksRefreshInterval,
		RefreshRateLimit:  jwksRefreshRateLimit,
		RefreshTimeout:    jwksRefreshTimeout,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(refreshErr error) {
			params.Logger.Warn("JWKS refresh failed", slog.Any("error", refreshErr))
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch JWKS")
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			jwks.EndBackground()

			return nil
		},
	})

	return newValidator(jwks.Keyfunc, cfg.Issuer, cfg.Audience, params.Logger), nil
}

// newValidator wires a validator around any jwt.Keyfunc. Tests use it with
// a static key instead of a remote JWKS.
func newValidator(keyFunc jwt.Keyfunc, issuer, audience string, logger *slog.Logger) *oauth2Validator {
	return &oauth2Validator{
		keyFunc:  keyFunc,
		issuer:   issuer,
		audience: audience,
		logger:   logger,
	}
}

// Validate resolves the Authorization header into an AuthContext.
// Every failure path ends in Authenticated=false with an explanatory
// error; nothing escapes as a Go error.
func (v *oauth2Validator) Validate(ctx context.Context, authorizationHeader string) service.AuthContext {
	tokenString, ok := extractBearerToken(authorizationHeader)
	if !ok {
		return service.AuthContext{Scopes: []string{}, Error: "No Authorization header or Bearer token found"}
	}

	token, err := jwt.Parse(tokenString, v.keyFunc)
	if err != nil {
		v.logger.WarnContext(ctx, "Token validation failed", slog.String("error", err.Error()))

		return service.AuthContext{Scopes: []string{}, Error: err.Error()}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return service.AuthContext{Scopes: []string{}, Error: "unexpected token claims format"}
	}

	if !claims.VerifyIssuer(v.issuer, true) {
		return service.AuthContext{Scopes: []string{}, Error: "token issuer mismatch"}
	}
	if !claims.VerifyAudience(v.audience, true) {
		return service.AuthContext{Scopes: []string{}, Error: "token audience mismatch"}
	}

	subject, _ := claims["sub"].(string)

	return service.AuthContext{
		Authenticated: true,
		Scopes:        extractScopes(claims),
		Subject:       subject,
	}
}

// extractBearerToken pulls the credential out of an Authorization header.
func extractBearerToken(authorizationHeader string) (string, bool) {
	if authorizationHeader == "" {
		return "", false
	}

	parts := strings.Split(authorizationHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return parts[1], true
}

// extractScopes reads granted scopes from either the space-delimited
// "scope" claim or the "scp" claim (string or array form).
func extractScopes(claims jwt.MapClaims) []string {
	scopes := []string{}

	appendFields := func(raw string) {
		for _, s := range strings.Fields(raw) {
			scopes = append(scopes, s)
		}
	}

	switch {
	case claims["scope"] != nil:
		if raw, ok := claims["scope"].(string); ok {
			appendFields(raw)
		}
	case claims["scp"] != nil:
		switch scp := claims["scp"].(type) {
		case string:
			appendFields(scp)
		case []any:
			for _, item := range scp {
				if s, ok := item.(string); ok {
					scopes = append(scopes, s)
				}
			}
		}
	}

	return scopes
}
