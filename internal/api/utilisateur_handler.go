package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/api/middleware"
	"github.com/tmercier/boutique-api/internal/api/shared"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/platform/logger"
	"github.com/tmercier/boutique-api/internal/store"
)

// UtilisateurHandler handles account-related HTTP requests.
type UtilisateurHandler struct {
	userStore store.UtilisateurStore
	logger    *slog.Logger
}

// NewUtilisateurHandler creates a new UtilisateurHandler with the given
// dependencies.
func NewUtilisateurHandler(userStore store.UtilisateurStore, logger *slog.Logger) *UtilisateurHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UtilisateurHandler")
	}

	return &UtilisateurHandler{
		userStore: userStore,
		logger:    logger.With(slog.String("component", "utilisateur_handler")),
	}
}

// List handles GET /users/ requests.
func (h *UtilisateurHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUtilisateurListResponse(users))
}

// Register handles POST /users/create/ requests. Registration is open; the
// password is hashed by the store before the row is written, and a duplicate
// email is a validation failure that leaves the original account untouched.
func (h *UtilisateurHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	user, err := domain.NewUtilisateur(req.Email, req.Nom, req.Password)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	log.Debug("user registered", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, NewUtilisateurResponse(user))
}

// Me handles GET /users/me/ requests, returning the caller's own record as
// loaded by the policy gate.
func (h *UtilisateurHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetCurrentUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUtilisateurResponse(user))
}

// Get handles GET /users/{id}/ requests.
func (h *UtilisateurHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUtilisateurResponse(user))
}

// Update handles PUT /users/{id}/ requests with a full replacement body.
// An omitted password keeps the stored hash.
func (h *UtilisateurHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req UtilisateurUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	user.Nom = req.Nom
	user.Email = domain.NormalizeEmail(req.Email)
	user.Password = req.Password
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	log.Debug("user updated", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, NewUtilisateurResponse(user))
}

// Patch handles PATCH /users/{id}/ requests, applying only the fields
// present in the body.
func (h *UtilisateurHandler) Patch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req UtilisateurPatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if req.Nom != nil {
		user.Nom = *req.Nom
	}
	if req.Email != nil {
		user.Email = domain.NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		user.Password = *req.Password
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	log.Debug("user patched", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, NewUtilisateurResponse(user))
}

// Delete handles DELETE /users/{id}/ requests.
func (h *UtilisateurHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.userStore.Delete(r.Context(), userID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	log.Debug("user deleted", slog.String("user_id", userID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// userID parses the {id} URL parameter. On failure it writes the error
// response and returns false.
func (h *UtilisateurHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}
