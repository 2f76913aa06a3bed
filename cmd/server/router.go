package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tmercier/boutique-api/internal/api"
	apiMiddleware "github.com/tmercier/boutique-api/internal/api/middleware"
	"github.com/tmercier/boutique-api/internal/api/policy"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Access control is declared next to each route as a
// per-verb policy table and enforced by the gate before any handler runs.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	produitHandler := api.NewProduitHandler(app.produitStore, app.logger)
	utilisateurHandler := api.NewUtilisateurHandler(app.userStore, app.logger)
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)

	gate := apiMiddleware.NewPolicyGate(app.jwtService, app.userStore)

	// Catalog: public reads, administrative writes.
	r.Group(func(r chi.Router) {
		r.Use(gate.Require(policy.Verbs(map[string]policy.Policy{
			http.MethodGet: policy.Open,
		})))
		r.Get("/products/", produitHandler.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.Require(policy.Verbs(map[string]policy.Policy{
			http.MethodPost: policy.AdminOnly,
		})))
		r.Post("/products/create/", produitHandler.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.Require(policy.Verbs(map[string]policy.Policy{
			http.MethodGet:    policy.Open,
			http.MethodPut:    policy.AdminOnly,
			http.MethodPatch:  policy.AdminOnly,
			http.MethodDelete: policy.AdminOnly,
		})))
		r.Get("/products/{id}/", produitHandler.Get)
		r.Put("/products/{id}/", produitHandler.Update)
		r.Patch("/products/{id}/", produitHandler.Patch)
		r.Delete("/products/{id}/", produitHandler.Delete)
	})

	// Accounts: open registration, authenticated listing and self-lookup,
	// administrative management.
	r.Group(func(r chi.Router) {
		r.Use(gate.Require(policy.Verbs(map[string]policy.Policy{
			http.MethodGet: policy.AuthenticatedOnly,
		})))
		r.Get("/users/", utilisateurHandler.List)
		r.Get("/users/me/", utilisateurHandler.Me)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.Require(policy.Verbs(map[string]policy.Policy{
			http.MethodPost: policy.Open,
		})))
		r.Post("/users/create/", utilisateurHandler.Register)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.Require(policy.All(policy.AdminOnly)))
		r.Get("/users/{id}/", utilisateurHandler.Get)
		r.Put("/users/{id}/", utilisateurHandler.Update)
		r.Patch("/users/{id}/", utilisateurHandler.Patch)
		r.Delete("/users/{id}/", utilisateurHandler.Delete)
	})

	// Token endpoints (public).
	r.Post("/auth/login/", authHandler.Login)
	r.Post("/auth/refresh/", authHandler.Refresh)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
