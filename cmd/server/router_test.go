package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApplication wires the router against in-memory dependencies so routing
// and policy enforcement can be exercised end to end.
func testApplication(t *testing.T) (*application, *mocks.MockUtilisateurStore, *mocks.MockProduitStore) {
	t.Helper()

	userStore := mocks.NewMockUtilisateurStore()
	produitStore := mocks.NewMockProduitStore()

	app := &application{
		logger:           slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		userStore:        userStore,
		produitStore:     produitStore,
		jwtService:       mocks.NewMockJWTService(),
		passwordVerifier: &mocks.MockPasswordVerifier{},
	}
	return app, userStore, produitStore
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(payloadBytes)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func adminToken(t *testing.T, app *application, userStore *mocks.MockUtilisateurStore) string {
	t.Helper()

	admin, err := domain.NewSuperUtilisateur("admin@example.com", "Admin", "password1234")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(context.Background(), admin))

	token, err := app.jwtService.GenerateToken(context.Background(), admin.ID)
	require.NoError(t, err)
	return token
}

func TestRegisterLoginMeFlow(t *testing.T) {
	t.Parallel()

	app, _, _ := testApplication(t)
	router := app.setupRouter()

	// Register
	recorder := doJSON(t, router, "POST", "/users/create/", "", map[string]string{
		"nom":      "Alice Martin",
		"email":    "alice@example.com",
		"password": "password1234",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Login
	recorder = doJSON(t, router, "POST", "/auth/login/", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password1234",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tokens))
	require.NotEmpty(t, tokens.Access)
	require.NotEmpty(t, tokens.Refresh)

	// Me
	recorder = doJSON(t, router, "GET", "/users/me/", tokens.Access, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var me struct {
		Email string `json:"email"`
		Nom   string `json:"nom"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&me))
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, "Alice Martin", me.Nom)

	// Refresh
	recorder = doJSON(t, router, "POST", "/auth/refresh/", "", map[string]string{
		"refresh": tokens.Refresh,
	})
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestProductPolicyEnforcement(t *testing.T) {
	t.Parallel()

	app, userStore, _ := testApplication(t)
	router := app.setupRouter()

	payload := map[string]interface{}{
		"nom":      "Clavier mécanique",
		"prix":     89.99,
		"quantite": 3,
	}

	// Anonymous create is rejected before the handler runs.
	recorder := doJSON(t, router, "POST", "/products/create/", "", payload)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// A regular authenticated user is forbidden.
	regular, err := domain.NewUtilisateur("bob@example.com", "Bob", "password1234")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(context.Background(), regular))
	regularToken, err := app.jwtService.GenerateToken(context.Background(), regular.ID)
	require.NoError(t, err)

	recorder = doJSON(t, router, "POST", "/products/create/", regularToken, payload)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// An admin succeeds, and availability is derived from the quantity.
	token := adminToken(t, app, userStore)
	recorder = doJSON(t, router, "POST", "/products/create/", token, payload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		ID            string `json:"id"`
		EstDisponible bool   `json:"est_disponible"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	assert.True(t, created.EstDisponible)

	// Anyone can read the catalog.
	recorder = doJSON(t, router, "GET", "/products/", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, router, "GET", "/products/"+created.ID+"/", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Anonymous delete is rejected; the admin's succeeds.
	recorder = doJSON(t, router, "DELETE", "/products/"+created.ID+"/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	recorder = doJSON(t, router, "DELETE", "/products/"+created.ID+"/", token, nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestUserRoutesPolicyEnforcement(t *testing.T) {
	t.Parallel()

	app, userStore, _ := testApplication(t)
	router := app.setupRouter()

	regular, err := domain.NewUtilisateur("bob@example.com", "Bob", "password1234")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(context.Background(), regular))
	regularToken, err := app.jwtService.GenerateToken(context.Background(), regular.ID)
	require.NoError(t, err)

	// Listing requires authentication.
	recorder := doJSON(t, router, "GET", "/users/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	recorder = doJSON(t, router, "GET", "/users/", regularToken, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Detail lookup is admin-only, even for the row's owner.
	recorder = doJSON(t, router, "GET", "/users/"+regular.ID.String()+"/", regularToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	token := adminToken(t, app, userStore)
	recorder = doJSON(t, router, "GET", "/users/"+regular.ID.String()+"/", token, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	app, _, _ := testApplication(t)
	router := app.setupRouter()

	recorder := doJSON(t, router, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "OK", recorder.Body.String())
}
