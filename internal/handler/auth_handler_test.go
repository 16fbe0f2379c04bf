package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResponse), args.Error(1)
}

func TestAuthHandler_Login(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name            string
		body            string
		expectService   bool
		mockReturn      *model.LoginResponse
		mockError       error
		expectedStatus  int
		expectedBody    string
		expectChallenge bool
	}{
		{
			name:          "Success",
			body:          `{"username":"admin","password":"admin123"}`,
			expectService: true,
			mockReturn: &model.LoginResponse{
				AccessToken: "token",
				TokenType:   "bearer",
				UserID:      "1",
				Username:    "admin",
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"access_token":"token","token_type":"bearer","user_id":"1","username":"admin"}`,
		},
		{
			name:            "Invalid credentials",
			body:            `{"username":"admin","password":"wrong"}`,
			expectService:   true,
			mockError:       model.ErrInvalidCredentials,
			expectedStatus:  http.StatusUnauthorized,
			expectedBody:    `{"error":"INVALID_CREDENTIALS","message":"Invalid username or password"}`,
			expectChallenge: true,
		},
		{
			name:           "Cognito enabled",
			body:           `{"username":"admin","password":"admin123"}`,
			expectService:  true,
			mockError:      model.ErrCognitoLoginNotImplemented,
			expectedStatus: http.StatusNotImplemented,
			expectedBody:   `{"error":"NOT_IMPLEMENTED","message":"Cognito authentication flow not implemented in this endpoint. Use Cognito hosted UI or SDK."}`,
		},
		{
			name:           "Missing password",
			body:           `{"username":"admin"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"MISSING_FIELD","message":"username and password are required"}`,
		},
		{
			name:           "Invalid JSON",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"INVALID_JSON","message":"invalid request body"}`,
		},
		{
			name:           "Trailing data",
			body:           `{"username":"admin","password":"admin123"} extra`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"INVALID_JSON","message":"invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			if tt.expectService {
				mockService.On("Login", mock.Anything, mock.AnythingOfType("*model.LoginRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			NewAuthHandler(mockService, logger).Login(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			if tt.expectChallenge {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
			mockService.AssertExpectations(t)
		})
	}
}
