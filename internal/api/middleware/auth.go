// Package middleware provides the HTTP middleware applied around handlers:
// the policy gate enforcing per-verb access control and trace-ID injection.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/api/policy"
	"github.com/tmercier/boutique-api/internal/api/shared"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/redact"
	"github.com/tmercier/boutique-api/internal/service/auth"
	"github.com/tmercier/boutique-api/internal/store"
)

// PolicyGate enforces the per-verb access policy on routes. It resolves the
// bearer identity only when the effective policy requires one, and always
// short-circuits before the handler runs on failure.
type PolicyGate struct {
	jwtService auth.JWTService
	users      store.UtilisateurStore
}

// NewPolicyGate creates a new PolicyGate with the given dependencies.
func NewPolicyGate(jwtService auth.JWTService, users store.UtilisateurStore) *PolicyGate {
	return &PolicyGate{
		jwtService: jwtService,
		users:      users,
	}
}

// Require returns middleware enforcing the given per-verb policy table.
// The policy is computed exactly once per request from the HTTP verb.
func (g *PolicyGate) Require(rules policy.PerVerb) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			effective := rules.ForVerb(r.Method)
			if effective == policy.Open {
				next.ServeHTTP(w, r)
				return
			}

			user, ok := g.resolveCaller(w, r)
			if !ok {
				return
			}

			if effective == policy.AdminOnly && !user.IsAdmin() {
				shared.RespondWithError(w, r, http.StatusForbidden,
					"Administrator privileges required")
				return
			}

			ctx := context.WithValue(r.Context(), shared.UserIDContextKey, user.ID)
			ctx = context.WithValue(ctx, shared.CurrentUserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveCaller validates the bearer token and loads the caller's record.
// On failure it writes the error response and returns false.
func (g *PolicyGate) resolveCaller(w http.ResponseWriter, r *http.Request) (*domain.Utilisateur, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
		return nil, false
	}

	claims, err := g.jwtService.ValidateToken(r.Context(), parts[1])
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrWrongTokenType),
			errors.Is(err, auth.ErrTokenNotYetValid):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		default:
			slog.Error("failed to validate token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
		}
		return nil, false
	}

	user, err := g.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUtilisateurNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return nil, false
		}
		slog.Error("failed to load caller", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
		return nil, false
	}

	if !user.IsActive {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account is inactive")
		return nil, false
	}

	return user, true
}

// GetUserID extracts the authenticated user's ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}

// GetCurrentUser extracts the authenticated user's record from the request
// context, as loaded by the policy gate.
func GetCurrentUser(r *http.Request) (*domain.Utilisateur, bool) {
	user, ok := r.Context().Value(shared.CurrentUserContextKey).(*domain.Utilisateur)
	return user, ok && user != nil
}
