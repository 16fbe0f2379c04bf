package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

func TestLocalVerifier_Verify(t *testing.T) {
	verifier := NewLocalVerifier(testSecret, zerolog.Nop())
	issuer := NewIssuer(testSecret, 30*time.Minute)

	valid, err := issuer.Issue(model.User{ID: "1", Username: "admin"})
	require.NoError(t, err)

	expired, err := NewIssuer(testSecret, -time.Minute).Issue(model.User{ID: "1", Username: "admin"})
	require.NoError(t, err)

	wrongSecret, err := NewIssuer("another-secret-key-that-is-long-enough", time.Minute).Issue(model.User{ID: "1", Username: "admin"})
	require.NoError(t, err)

	noUsername, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "1",
		"username": "admin",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rsaSigned, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":      "1",
		"username": "admin",
		"exp":      time.Now().Add(time.Minute).Unix(),
	}).SignedString(rsaKey)
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		expectedErr error
	}{
		{name: "Valid token", token: valid},
		{name: "Expired token", token: expired, expectedErr: model.ErrTokenExpired},
		{name: "Wrong secret", token: wrongSecret, expectedErr: model.ErrTokenInvalid},
		{name: "Missing username", token: noUsername, expectedErr: model.ErrTokenInvalid},
		{name: "Missing expiry", token: noExpiry, expectedErr: model.ErrTokenInvalid},
		{name: "RS256 token", token: rsaSigned, expectedErr: model.ErrTokenInvalid},
		{name: "Garbage", token: "not-a-token", expectedErr: model.ErrTokenInvalid},
		{name: "Empty", token: "", expectedErr: model.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := verifier.Verify(context.Background(), tt.token)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "1", user.UserID)
			assert.Equal(t, "admin", user.Username)
			assert.Empty(t, user.Email)
			require.NotNil(t, user.Exp)
			assert.WithinDuration(t, time.Now().Add(30*time.Minute), *user.Exp, 5*time.Second)
		})
	}
}

func TestIssuer_EmailUsersGetCognitoShape(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)
	token, err := issuer.Issue(model.User{ID: "mock-user-id", Username: "user", Email: "user@example.com"})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "mock-user-id", claims["sub"])
	assert.Equal(t, "user", claims["username"])
	assert.Equal(t, "user@example.com", claims["email"])
	assert.Equal(t, "access", claims["token_use"])
	assert.Equal(t, "user", claims["cognito:username"])

	user, err := NewLocalVerifier(testSecret, zerolog.Nop()).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestIssuer_PlainUsersOmitCognitoClaims(t *testing.T) {
	token, err := NewIssuer(testSecret, time.Minute).Issue(model.User{ID: "2", Username: "user"})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	assert.NotContains(t, claims, "email")
	assert.NotContains(t, claims, "token_use")
	assert.NotContains(t, claims, "cognito:username")
}

func TestDirectory_Authenticate(t *testing.T) {
	directory := NewDirectory()

	tests := []struct {
		name       string
		login      string
		password   string
		expectedID string
		expectErr  bool
	}{
		{name: "Email user", login: "admin@example.com", password: "admin123", expectedID: "mock-admin-id"},
		{name: "Second email user", login: "user@example.com", password: "user123", expectedID: "mock-user-id"},
		{name: "Username user", login: "admin", password: "admin123", expectedID: "1"},
		{name: "Second username user", login: "user", password: "user123", expectedID: "2"},
		{name: "Wrong password", login: "admin", password: "nope", expectErr: true},
		{name: "Wrong email password", login: "user@example.com", password: "admin123", expectErr: true},
		{name: "Unknown user", login: "ghost", password: "admin123", expectErr: true},
		{name: "Empty credentials", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := directory.Authenticate(tt.login, tt.password)

			if tt.expectErr {
				assert.Equal(t, model.ErrInvalidCredentials, err)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, user.ID)
		})
	}
}

func TestNewVerifier(t *testing.T) {
	local := NewVerifier(config.AuthConfig{JWTSecret: testSecret}, zerolog.Nop())
	assert.IsType(t, &LocalVerifier{}, local)

	noPool := NewVerifier(config.AuthConfig{JWTSecret: testSecret, UseCognito: true}, zerolog.Nop())
	assert.IsType(t, &LocalVerifier{}, noPool)

	cognito := NewVerifier(config.AuthConfig{
		JWTSecret:  testSecret,
		UseCognito: true,
		Cognito: config.CognitoConfig{
			UserPoolID:  "us-west-2_abc",
			Region:      "us-west-2",
			WebClientID: "client",
		},
	}, zerolog.Nop())
	require.IsType(t, &CognitoVerifier{}, cognito)
	assert.Equal(t,
		"https://cognito-idp.us-west-2.amazonaws.com/us-west-2_abc/.well-known/jwks.json",
		cognito.(*CognitoVerifier).jwksURL,
	)
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	user := &model.UserToken{UserID: "1", Username: "admin"}
	got, ok := UserFromContext(WithUser(context.Background(), user))
	require.True(t, ok)
	assert.Same(t, user, got)
}
