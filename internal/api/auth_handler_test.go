package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// seedUser registers a user through the mock store so the stored hash
// matches the mock hasher/verifier scheme.
func seedUser(
	t *testing.T,
	userStore *mocks.MockUtilisateurStore,
	email, password string,
	opts ...domain.UtilisateurOption,
) *domain.Utilisateur {
	t.Helper()

	user, err := domain.NewUtilisateur(email, "Test User", password, opts...)
	require.NoError(t, err)
	require.NoError(t, userStore.Create(context.Background(), user))
	return user
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUtilisateurStore()
	jwtService := mocks.NewMockJWTService()
	handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, testLogger())

	active := seedUser(t, userStore, "alice@example.com", "password1234")
	seedUser(t, userStore, "inactive@example.com", "password1234", domain.WithActive(false))

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantTokens bool
	}{
		{
			name: "valid credentials",
			payload: map[string]interface{}{
				"email":    "alice@example.com",
				"password": "password1234",
			},
			wantStatus: http.StatusOK,
			wantTokens: true,
		},
		{
			name: "wrong password",
			payload: map[string]interface{}{
				"email":    "alice@example.com",
				"password": "not-the-password",
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			payload: map[string]interface{}{
				"email":    "nobody@example.com",
				"password": "password1234",
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "inactive account",
			payload: map[string]interface{}{
				"email":    "inactive@example.com",
				"password": "password1234",
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid email format",
			payload: map[string]interface{}{
				"email":    "not-an-email",
				"password": "password1234",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			payload: map[string]interface{}{
				"email": "alice@example.com",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloadBytes, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/auth/login/", bytes.NewBuffer(payloadBytes))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			handler.Login(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantTokens {
				var tokens TokenResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tokens))
				assert.Contains(t, tokens.AccessToken, active.ID.String())
				assert.Contains(t, tokens.RefreshToken, active.ID.String())
				assert.True(t, strings.HasPrefix(tokens.RefreshToken, "refresh:"))
			}
		})
	}
}

func TestLoginMalformedBody(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(
		mocks.NewMockUtilisateurStore(),
		mocks.NewMockJWTService(),
		&mocks.MockPasswordVerifier{},
		testLogger(),
	)

	req := httptest.NewRequest("POST", "/auth/login/", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()

	handler.Login(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUtilisateurStore()
	jwtService := mocks.NewMockJWTService()
	handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, testLogger())

	active := seedUser(t, userStore, "alice@example.com", "password1234")
	inactive := seedUser(t, userStore, "inactive@example.com", "password1234",
		domain.WithActive(false))

	refreshToken, err := jwtService.GenerateRefreshToken(context.Background(), active.ID)
	require.NoError(t, err)
	accessToken, err := jwtService.GenerateToken(context.Background(), active.ID)
	require.NoError(t, err)
	inactiveRefresh, err := jwtService.GenerateRefreshToken(context.Background(), inactive.ID)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantTokens bool
	}{
		{
			name:       "valid refresh token",
			token:      refreshToken,
			wantStatus: http.StatusOK,
			wantTokens: true,
		},
		{
			name:       "access token rejected",
			token:      accessToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			token:      "not-a-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "inactive account",
			token:      inactiveRefresh,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token",
			token:      "",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloadBytes, err := json.Marshal(map[string]string{"refresh": tt.token})
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/auth/refresh/", bytes.NewBuffer(payloadBytes))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			handler.Refresh(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantTokens {
				var tokens TokenResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tokens))
				assert.Contains(t, tokens.AccessToken, active.ID.String())
				assert.Contains(t, tokens.RefreshToken, active.ID.String())
			}
		})
	}
}

func TestRefreshForDeletedUser(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUtilisateurStore()
	jwtService := mocks.NewMockJWTService()
	handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, testLogger())

	user := seedUser(t, userStore, "gone@example.com", "password1234")
	refreshToken, err := jwtService.GenerateRefreshToken(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, userStore.Delete(context.Background(), user.ID))

	payloadBytes, err := json.Marshal(map[string]string{"refresh": refreshToken})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/auth/refresh/", bytes.NewBuffer(payloadBytes))
	recorder := httptest.NewRecorder()

	handler.Refresh(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
