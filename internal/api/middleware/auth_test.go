package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tmercier/boutique-api/internal/api/policy"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, users *mocks.MockUtilisateurStore, email string, opts ...domain.UtilisateurOption) *domain.Utilisateur {
	t.Helper()

	user, err := domain.NewUtilisateur(email, "Test User", "password1234", opts...)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

// okHandler records whether the gate let the request through and what
// identity it attached.
func okHandler(t *testing.T, called *bool, wantUser *domain.Utilisateur) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if wantUser != nil {
			userID, ok := GetUserID(r)
			assert.True(t, ok)
			assert.Equal(t, wantUser.ID, userID)

			current, ok := GetCurrentUser(r)
			assert.True(t, ok)
			assert.Equal(t, wantUser.Email, current.Email)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestPolicyGateOpenVerb(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUtilisateurStore()
	gate := NewPolicyGate(mocks.NewMockJWTService(), users)

	called := false
	handler := gate.Require(policy.Verbs(map[string]policy.Policy{
		http.MethodGet: policy.Open,
	}))(okHandler(t, &called, nil))

	// No Authorization header at all.
	req := httptest.NewRequest("GET", "/products/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPolicyGateAuthenticatedOnly(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUtilisateurStore()
	jwtService := mocks.NewMockJWTService()
	gate := NewPolicyGate(jwtService, users)

	user := newTestUser(t, users, "alice@example.com")
	token, err := jwtService.GenerateToken(context.Background(), user.ID)
	require.NoError(t, err)

	rules := policy.All(policy.AuthenticatedOnly)

	t.Run("valid token passes", func(t *testing.T) {
		called := false
		handler := gate.Require(rules)(okHandler(t, &called, user))

		req := httptest.NewRequest("GET", "/users/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		called := false
		handler := gate.Require(rules)(okHandler(t, &called, nil))

		req := httptest.NewRequest("GET", "/users/", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		called := false
		handler := gate.Require(rules)(okHandler(t, &called, nil))

		req := httptest.NewRequest("GET", "/users/", nil)
		req.Header.Set("Authorization", "Token "+token)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		called := false
		handler := gate.Require(rules)(okHandler(t, &called, nil))

		req := httptest.NewRequest("GET", "/users/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		ghost := newTestUser(t, users, "ghost@example.com")
		ghostToken, err := jwtService.GenerateToken(context.Background(), ghost.ID)
		require.NoError(t, err)
		require.NoError(t, users.Delete(context.Background(), ghost.ID))

		called := false
		handler := gate.Require(rules)(okHandler(t, &called, nil))

		req := httptest.NewRequest("GET", "/users/", nil)
		req.Header.Set("Authorization", "Bearer "+ghostToken)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := newTestUser(t, users, "inactive@example.com", domain.WithActive(false))
		inactiveToken, err := jwtService.GenerateToken(context.Background(), inactive.ID)
		require.NoError(t, err)

		called := false
		handler := gate.Require(rules)(okHandler(t, &called, nil))

		req := httptest.NewRequest("GET", "/users/", nil)
		req.Header.Set("Authorization", "Bearer "+inactiveToken)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestPolicyGateAdminOnly(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUtilisateurStore()
	jwtService := mocks.NewMockJWTService()
	gate := NewPolicyGate(jwtService, users)

	regular := newTestUser(t, users, "alice@example.com")
	staff := newTestUser(t, users, "staff@example.com", domain.WithStaff(true))
	super, err := domain.NewSuperUtilisateur("root@example.com", "Root", "password1234")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), super))

	rules := policy.All(policy.AdminOnly)

	token := func(user *domain.Utilisateur) string {
		tok, err := jwtService.GenerateToken(context.Background(), user.ID)
		require.NoError(t, err)
		return tok
	}

	t.Run("regular user forbidden", func(t *testing.T) {
		called := false
		handler := gate.Require(rules)(okHandler(t, &called, nil))

		req := httptest.NewRequest("POST", "/products/create/", nil)
		req.Header.Set("Authorization", "Bearer "+token(regular))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("staff user passes", func(t *testing.T) {
		called := false
		handler := gate.Require(rules)(okHandler(t, &called, staff))

		req := httptest.NewRequest("POST", "/products/create/", nil)
		req.Header.Set("Authorization", "Bearer "+token(staff))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("superuser passes", func(t *testing.T) {
		called := false
		handler := gate.Require(rules)(okHandler(t, &called, super))

		req := httptest.NewRequest("POST", "/products/create/", nil)
		req.Header.Set("Authorization", "Bearer "+token(super))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		called := false
		handler := gate.Require(rules)(okHandler(t, &called, nil))

		req := httptest.NewRequest("POST", "/products/create/", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestPolicyGateMixedVerbs(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUtilisateurStore()
	gate := NewPolicyGate(mocks.NewMockJWTService(), users)

	// The product detail table: read open, mutations admin-only.
	rules := policy.Verbs(map[string]policy.Policy{
		http.MethodGet:    policy.Open,
		http.MethodPut:    policy.AdminOnly,
		http.MethodPatch:  policy.AdminOnly,
		http.MethodDelete: policy.AdminOnly,
	})

	called := false
	handler := gate.Require(rules)(okHandler(t, &called, nil))

	// Anonymous read passes.
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/products/x/", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Anonymous mutation is rejected before the handler runs.
	called = false
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/products/x/", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
