package auth

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// LocalVerifier validates HS256 tokens signed with a shared secret.
type LocalVerifier struct {
	secret []byte
	parser *jwt.Parser
	logger zerolog.Logger
}

// NewLocalVerifier creates a verifier for tokens signed with secret.
func NewLocalVerifier(secret string, logger zerolog.Logger) *LocalVerifier {
	return &LocalVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
		logger: logger.With().Str("verifier", "local").Logger(),
	}
}

// Verify checks the signature and expiry and requires the sub and username
// claims.
func (v *LocalVerifier) Verify(_ context.Context, token string) (*model.UserToken, error) {
	var claims tokenClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		v.logger.Debug().Err(err).Msg("token rejected")
		return nil, classify(err)
	}

	if claims.Subject == "" || claims.Username == "" {
		v.logger.Debug().Msg("token missing subject or username")
		return nil, model.ErrTokenInvalid
	}

	return &model.UserToken{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Exp:      claims.expiry(),
	}, nil
}

// Issuer signs HS256 access tokens for directory users.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer whose tokens expire after ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token for user. Users with an email get the claims
// of a Cognito access token so the same clients work against either
// verifier.
func (i *Issuer) Issue(user model.User) (string, error) {
	now := i.now()
	claims := tokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	if user.Email != "" {
		claims.Email = user.Email
		claims.TokenUse = "access"
		claims.CognitoUsername = user.Username
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
