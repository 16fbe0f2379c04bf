// Package auth issues and verifies bearer tokens.
//
// Two verifiers exist: LocalVerifier checks HS256 tokens signed with the
// shared secret, and CognitoVerifier checks RS256 access tokens issued by an
// AWS Cognito user pool against the pool's published key set. Both reduce a
// token to a model.UserToken or fail with model.ErrTokenExpired or
// model.ErrTokenInvalid.
package auth

import (
	"context"
	"errors"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Verifier validates a bearer token and returns the identity it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.UserToken, error)
}

// NewVerifier returns a CognitoVerifier when Cognito auth is enabled and a
// user pool is configured, and a LocalVerifier otherwise.
func NewVerifier(cfg config.AuthConfig, logger zerolog.Logger) Verifier {
	if cfg.UseCognito && cfg.Cognito.UserPoolID != "" {
		logger.Info().
			Str("user_pool_id", cfg.Cognito.UserPoolID).
			Str("region", cfg.Cognito.Region).
			Msg("using Cognito token verification")
		return NewCognitoVerifier(cfg.Cognito, logger)
	}

	logger.Info().Msg("using local token verification")
	return NewLocalVerifier(cfg.JWTSecret, logger)
}

// tokenClaims covers both locally issued tokens and Cognito access tokens.
type tokenClaims struct {
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	TokenUse        string `json:"token_use,omitempty"`
	CognitoUsername string `json:"cognito:username,omitempty"`
	ClientID        string `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) expiry() *time.Time {
	if c.ExpiresAt == nil {
		return nil
	}
	exp := c.ExpiresAt.Time
	return &exp
}

// classify maps a parse failure to the error reported to clients.
func classify(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return model.ErrTokenExpired
	}
	return model.ErrTokenInvalid
}

type contextKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *model.UserToken) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the authenticated user stored by WithUser.
func UserFromContext(ctx context.Context) (*model.UserToken, bool) {
	user, ok := ctx.Value(contextKey{}).(*model.UserToken)
	return user, ok && user != nil
}
