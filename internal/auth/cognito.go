package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/model"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const jwksTimeout = 10 * time.Second

// CognitoVerifier validates RS256 access tokens issued by a Cognito user
// pool. The pool's key set is fetched on first use and cached for the life
// of the process; a failed fetch is retried on the next request.
type CognitoVerifier struct {
	client   *resty.Client
	jwksURL  string
	issuer   string
	audience string
	parser   *jwt.Parser
	logger   zerolog.Logger

	mu   sync.Mutex
	keys keyfunc.Keyfunc
}

// NewCognitoVerifier creates a verifier for the configured user pool.
func NewCognitoVerifier(cfg config.CognitoConfig, logger zerolog.Logger) *CognitoVerifier {
	return newCognitoVerifier(cfg.JWKSURL(), cfg.Issuer(), cfg.WebClientID, logger)
}

func newCognitoVerifier(jwksURL, issuer, audience string, logger zerolog.Logger) *CognitoVerifier {
	return &CognitoVerifier{
		client:   resty.New().SetTimeout(jwksTimeout),
		jwksURL:  jwksURL,
		issuer:   issuer,
		audience: audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
		logger: logger.With().Str("verifier", "cognito").Logger(),
	}
}

// Verify checks the signature against the key named by the token's kid,
// then the issuer, audience, expiry and token_use claims.
func (v *CognitoVerifier) Verify(ctx context.Context, token string) (*model.UserToken, error) {
	var claims tokenClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token header has no kid")
		}

		keys, err := v.keySet(ctx)
		if err != nil {
			return nil, err
		}

		key, err := keys.Keyfunc(t)
		if err != nil {
			return nil, fmt.Errorf("no signing key for kid %s: %w", kid, err)
		}
		return key, nil
	})
	if err != nil {
		v.logger.Debug().Err(err).Msg("token rejected")
		return nil, classify(err)
	}

	if !v.audienceMatches(&claims) {
		v.logger.Debug().Strs("aud", claims.Audience).Str("client_id", claims.ClientID).Msg("token audience mismatch")
		return nil, model.ErrTokenInvalid
	}

	username := claims.CognitoUsername
	if username == "" {
		username = claims.Email
	}
	if claims.Subject == "" || username == "" {
		v.logger.Debug().Msg("token missing subject or username")
		return nil, model.ErrTokenInvalid
	}

	if claims.TokenUse != "access" {
		v.logger.Debug().Str("token_use", claims.TokenUse).Msg("wrong token type")
		return nil, model.ErrTokenInvalid
	}

	return &model.UserToken{
		UserID:   claims.Subject,
		Username: username,
		Email:    claims.Email,
		Exp:      claims.expiry(),
	}, nil
}

// audienceMatches accepts a token whose aud contains the web client ID.
// Access tokens carry client_id instead of aud, which must then match.
func (v *CognitoVerifier) audienceMatches(claims *tokenClaims) bool {
	if len(claims.Audience) > 0 {
		return slices.Contains(claims.Audience, v.audience)
	}
	return claims.ClientID == "" || claims.ClientID == v.audience
}

func (v *CognitoVerifier) keySet(ctx context.Context) (keyfunc.Keyfunc, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keys != nil {
		return v.keys, nil
	}

	resp, err := v.client.R().
		SetContext(ctx).
		Get(v.jwksURL)
	if err != nil {
		v.logger.Warn().Err(err).Str("url", v.jwksURL).Msg("failed to fetch JWKS")
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	if resp.IsError() {
		v.logger.Warn().Int("status", resp.StatusCode()).Str("url", v.jwksURL).Msg("JWKS endpoint returned an error")
		return nil, fmt.Errorf("failed to fetch JWKS: status %d", resp.StatusCode())
	}

	keys, err := keyfunc.NewJWKSetJSON(resp.Body())
	if err != nil {
		v.logger.Warn().Err(err).Msg("failed to decode JWKS")
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	v.logger.Info().Str("url", v.jwksURL).Msg("JWKS loaded")
	v.keys = keys
	return keys, nil
}
