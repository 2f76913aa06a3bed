package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Maximum length for a product name, matching the catalog schema.
const MaxNomProduitLength = 200

// Common product validation errors.
var (
	ErrEmptyProduitID  = errors.New("product ID cannot be empty")
	ErrEmptyNom        = errors.New("name cannot be empty")
	ErrNomTooLong      = errors.New("name must be at most 200 characters long")
	ErrInvalidPrix     = errors.New("price must be strictly positive")
	ErrInvalidQuantite = errors.New("quantity cannot be negative")
)

// Produit represents a catalog item with a price and a stock quantity.
// Availability is always derived from the quantity at read time and is
// never persisted.
type Produit struct {
	ID               uuid.UUID `json:"id"`
	Nom              string    `json:"nom"`
	Description      string    `json:"description"`
	Prix             float64   `json:"prix"`
	Quantite         int       `json:"quantite"`
	DateCreation     time.Time `json:"date_creation"`
	DateModification time.Time `json:"date_modification"`
}

// NewProduit creates a new Produit with the given attributes.
// It generates a new UUID and sets both timestamps to the current time.
// Returns a validation error if any field is invalid.
func NewProduit(nom, description string, prix float64, quantite int) (*Produit, error) {
	now := time.Now().UTC()
	produit := &Produit{
		ID:               uuid.New(),
		Nom:              nom,
		Description:      description,
		Prix:             prix,
		Quantite:         quantite,
		DateCreation:     now,
		DateModification: now,
	}

	if err := produit.Validate(); err != nil {
		return nil, err
	}

	return produit, nil
}

// Validate checks if the Produit has valid data.
// Returns an error if any field fails validation.
func (p *Produit) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProduitID
	}

	if p.Nom == "" {
		return ErrEmptyNom
	}

	if len(p.Nom) > MaxNomProduitLength {
		return ErrNomTooLong
	}

	if p.Prix <= 0 {
		return ErrInvalidPrix
	}

	if p.Quantite < 0 {
		return ErrInvalidQuantite
	}

	return nil
}

// EstDisponible reports whether the product is in stock.
// It is computed from the current quantity on every call so that it can
// never go stale after a concurrent stock update.
func (p *Produit) EstDisponible() bool {
	return p.Quantite > 0
}
