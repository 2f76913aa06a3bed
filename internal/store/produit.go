package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/domain"
)

// ProduitStore defines the interface for product data persistence.
type ProduitStore interface {
	// Create saves a new product to the store.
	// Returns validation errors from the domain Produit if data is invalid;
	// validation always runs before any write.
	Create(ctx context.Context, produit *domain.Produit) error

	// List retrieves all products ordered by date_creation, newest first.
	List(ctx context.Context) ([]*domain.Produit, error)

	// GetByID retrieves a product by its unique ID.
	// Returns ErrProduitNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Produit, error)

	// Update replaces an existing product's fields and refreshes
	// date_modification. Returns ErrProduitNotFound if the product does
	// not exist, or a validation error if the data is invalid.
	Update(ctx context.Context, produit *domain.Produit) error

	// Delete removes a product from the store by its ID.
	// Returns ErrProduitNotFound if the product does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProduitStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProduitStore
}
