// Package api contains the HTTP handlers, request/response models and error
// mapping for the REST surface.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/domain"
)

// ProduitResponse is the wire representation of a catalog product.
// EstDisponible is derived from the quantity at serialization time and is
// never accepted as input.
type ProduitResponse struct {
	ID               uuid.UUID `json:"id"`
	Nom              string    `json:"nom"`
	Description      string    `json:"description"`
	Prix             float64   `json:"prix"`
	Quantite         int       `json:"quantite"`
	EstDisponible    bool      `json:"est_disponible"`
	DateCreation     time.Time `json:"date_creation"`
	DateModification time.Time `json:"date_modification"`
}

// NewProduitResponse builds the wire representation of a product.
func NewProduitResponse(produit *domain.Produit) ProduitResponse {
	return ProduitResponse{
		ID:               produit.ID,
		Nom:              produit.Nom,
		Description:      produit.Description,
		Prix:             produit.Prix,
		Quantite:         produit.Quantite,
		EstDisponible:    produit.EstDisponible(),
		DateCreation:     produit.DateCreation,
		DateModification: produit.DateModification,
	}
}

// NewProduitListResponse builds the wire representation of a product list.
func NewProduitListResponse(produits []*domain.Produit) []ProduitResponse {
	responses := make([]ProduitResponse, 0, len(produits))
	for _, produit := range produits {
		responses = append(responses, NewProduitResponse(produit))
	}
	return responses
}

// ProduitCreateRequest is the payload for creating a product. The quantity
// defaults to zero when omitted.
type ProduitCreateRequest struct {
	Nom         string  `json:"nom" validate:"required,max=200"`
	Description string  `json:"description"`
	Prix        float64 `json:"prix" validate:"required,gt=0"`
	Quantite    int     `json:"quantite" validate:"gte=0"`
}

// ProduitUpdateRequest is the payload for a full product replacement (PUT).
type ProduitUpdateRequest struct {
	Nom         string  `json:"nom" validate:"required,max=200"`
	Description string  `json:"description"`
	Prix        float64 `json:"prix" validate:"required,gt=0"`
	Quantite    int     `json:"quantite" validate:"gte=0"`
}

// ProduitPatchRequest is the payload for a partial product update (PATCH).
// Only the fields present in the body are applied.
type ProduitPatchRequest struct {
	Nom         *string  `json:"nom" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Prix        *float64 `json:"prix" validate:"omitempty,gt=0"`
	Quantite    *int     `json:"quantite" validate:"omitempty,gte=0"`
}

// UtilisateurResponse is the wire representation of an account. Password
// material is never part of any response.
type UtilisateurResponse struct {
	ID         uuid.UUID `json:"id"`
	Nom        string    `json:"nom"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// NewUtilisateurResponse builds the wire representation of a user.
func NewUtilisateurResponse(user *domain.Utilisateur) UtilisateurResponse {
	return UtilisateurResponse{
		ID:         user.ID,
		Nom:        user.Nom,
		Email:      user.Email,
		IsActive:   user.IsActive,
		DateJoined: user.DateJoined,
	}
}

// NewUtilisateurListResponse builds the wire representation of a user list.
func NewUtilisateurListResponse(users []*domain.Utilisateur) []UtilisateurResponse {
	responses := make([]UtilisateurResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUtilisateurResponse(user))
	}
	return responses
}

// RegisterRequest is the payload for account registration. The password is
// write-only: accepted here, hashed before storage, never serialized back.
type RegisterRequest struct {
	Nom      string `json:"nom" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UtilisateurUpdateRequest is the payload for a full user replacement (PUT).
// A non-empty password replaces the stored hash.
type UtilisateurUpdateRequest struct {
	Nom      string `json:"nom" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	IsActive *bool  `json:"is_active"`
}

// UtilisateurPatchRequest is the payload for a partial user update (PATCH).
type UtilisateurPatchRequest struct {
	Nom      *string `json:"nom" validate:"omitempty,min=1,max=150"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	IsActive *bool   `json:"is_active"`
}

// LoginRequest is the payload for the credential exchange.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the payload for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// TokenResponse carries a freshly issued access/refresh token pair.
type TokenResponse struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}
