package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/api/shared"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/platform/logger"
	"github.com/tmercier/boutique-api/internal/store"
)

// ProduitHandler handles catalog-related HTTP requests.
type ProduitHandler struct {
	produitStore store.ProduitStore
	logger       *slog.Logger
}

// NewProduitHandler creates a new ProduitHandler with the given dependencies.
func NewProduitHandler(produitStore store.ProduitStore, logger *slog.Logger) *ProduitHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProduitHandler")
	}

	return &ProduitHandler{
		produitStore: produitStore,
		logger:       logger.With(slog.String("component", "produit_handler")),
	}
}

// List handles GET /products/ requests. The catalog is public.
func (h *ProduitHandler) List(w http.ResponseWriter, r *http.Request) {
	produits, err := h.produitStore.List(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProduitListResponse(produits))
}

// Create handles POST /products/create/ requests.
func (h *ProduitHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ProduitCreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	produit, err := domain.NewProduit(req.Nom, req.Description, req.Prix, req.Quantite)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if err := h.produitStore.Create(r.Context(), produit); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	log.Debug("product created",
		slog.String("produit_id", produit.ID.String()),
		slog.String("nom", produit.Nom))
	shared.RespondWithJSON(w, r, http.StatusCreated, NewProduitResponse(produit))
}

// Get handles GET /products/{id}/ requests.
func (h *ProduitHandler) Get(w http.ResponseWriter, r *http.Request) {
	produitID, ok := h.produitID(w, r)
	if !ok {
		return
	}

	produit, err := h.produitStore.GetByID(r.Context(), produitID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProduitResponse(produit))
}

// Update handles PUT /products/{id}/ requests with a full replacement body.
func (h *ProduitHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	produitID, ok := h.produitID(w, r)
	if !ok {
		return
	}

	var req ProduitUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	produit, err := h.produitStore.GetByID(r.Context(), produitID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	produit.Nom = req.Nom
	produit.Description = req.Description
	produit.Prix = req.Prix
	produit.Quantite = req.Quantite

	if err := h.produitStore.Update(r.Context(), produit); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	log.Debug("product updated", slog.String("produit_id", produit.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, NewProduitResponse(produit))
}

// Patch handles PATCH /products/{id}/ requests, applying only the fields
// present in the body.
func (h *ProduitHandler) Patch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	produitID, ok := h.produitID(w, r)
	if !ok {
		return
	}

	var req ProduitPatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	produit, err := h.produitStore.GetByID(r.Context(), produitID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if req.Nom != nil {
		produit.Nom = *req.Nom
	}
	if req.Description != nil {
		produit.Description = *req.Description
	}
	if req.Prix != nil {
		produit.Prix = *req.Prix
	}
	if req.Quantite != nil {
		produit.Quantite = *req.Quantite
	}

	if err := h.produitStore.Update(r.Context(), produit); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	log.Debug("product patched", slog.String("produit_id", produit.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, NewProduitResponse(produit))
}

// Delete handles DELETE /products/{id}/ requests.
func (h *ProduitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	produitID, ok := h.produitID(w, r)
	if !ok {
		return
	}

	if err := h.produitStore.Delete(r.Context(), produitID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	log.Debug("product deleted", slog.String("produit_id", produitID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// produitID parses the {id} URL parameter. On failure it writes the error
// response and returns false.
func (h *ProduitHandler) produitID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	produitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid product ID")
		return uuid.Nil, false
	}
	return produitID, true
}
