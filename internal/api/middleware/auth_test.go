package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJWTService returns fixed validation results.
type stubJWTService struct {
	claims *auth.Claims
	err    error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, subject string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.claims, s.err
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		authHeader      string
		claims          *auth.Claims
		validateErr     error
		expectedStatus  int
		expectedSubject string
	}{
		{
			name:            "valid token",
			authHeader:      "Bearer valid-token",
			claims:          &auth.Claims{Subject: "learner"},
			expectedStatus:  http.StatusOK,
			expectedSubject: "learner",
		},
		{
			name:            "lower-case scheme",
			authHeader:      "bearer valid-token",
			claims:          &auth.Claims{Subject: "learner"},
			expectedStatus:  http.StatusOK,
			expectedSubject: "learner",
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong token type",
			authHeader:     "Bearer refresh-token",
			validateErr:    auth.ErrWrongTokenType,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer some-token",
			validateErr:    errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw := NewAuthMiddleware(&stubJWTService{claims: tt.claims, err: tt.validateErr}, nil)

			var capturedSubject string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedSubject, _ = shared.GetSubject(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/cards", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.Equal(t, tt.expectedSubject, capturedSubject)
		})
	}
}

func TestAuthMiddleware_WithRealTokens(t *testing.T) {
	t.Parallel()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:     "a-test-secret-that-is-at-least-32-characters",
		TokenLifetime: time.Hour,
	})
	require.NoError(t, err)

	token, err := jwtService.GenerateToken(context.Background(), "learner")
	require.NoError(t, err)

	mw := NewAuthMiddleware(jwtService, nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := shared.GetSubject(r.Context())
		require.True(t, ok)
		assert.Equal(t, "learner", subject)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token+"tampered")
	recorder = httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
