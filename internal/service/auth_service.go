package service

import (
	"context"
	"fmt"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// Authenticator checks login credentials against a user directory.
type Authenticator interface {
	Authenticate(login, password string) (*model.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(user model.User) (string, error)
}

// authService implements AuthService.
type authService struct {
	users      Authenticator
	issuer     TokenIssuer
	useCognito bool
	logger     zerolog.Logger
}

// NewAuthService creates the login service. When useCognito is set, logins
// are rejected because tokens come from the Cognito user pool instead.
func NewAuthService(users Authenticator, issuer TokenIssuer, useCognito bool, logger zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		issuer:     issuer,
		useCognito: useCognito,
		logger:     logger.With().Str("service", "auth").Logger(),
	}
}

// Login authenticates the credentials and issues a bearer token.
func (s *authService) Login(_ context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if s.useCognito {
		return nil, model.ErrCognitoLoginNotImplemented
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		s.logger.Info().Str("login", req.Username).Msg("login failed")
		return nil, err
	}

	token, err := s.issuer.Issue(*user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user logged in")

	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Username:    user.Username,
	}, nil
}
