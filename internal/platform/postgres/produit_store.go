package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/platform/logger"
	"github.com/tmercier/boutique-api/internal/store"
)

// PostgresProduitStore implements the store.ProduitStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProduitStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProduitStore creates a new PostgreSQL implementation of the
// ProduitStore interface. It accepts a database connection or transaction
// that is managed by the caller. If logger is nil, a default logger is used.
func NewPostgresProduitStore(db store.DBTX, logger *slog.Logger) *PostgresProduitStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProduitStore{
		db:     db,
		logger: logger.With(slog.String("component", "produit_store")),
	}
}

// Ensure PostgresProduitStore implements store.ProduitStore interface
var _ store.ProduitStore = (*PostgresProduitStore)(nil)

const produitColumns = `id, nom, description, prix, quantite, date_creation, date_modification`

// Create implements store.ProduitStore.Create
// Validation always runs before the INSERT so an invalid product never
// reaches the database.
func (s *PostgresProduitStore) Create(ctx context.Context, produit *domain.Produit) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := produit.Validate(); err != nil {
		log.Warn("product validation failed during create",
			slog.String("error", err.Error()),
			slog.String("produit_id", produit.ID.String()))
		return err
	}

	query := `
		INSERT INTO produits (` + produitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		produit.ID,
		produit.Nom,
		produit.Description,
		produit.Prix,
		produit.Quantite,
		produit.DateCreation,
		produit.DateModification,
	)

	if err != nil {
		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("produit_id", produit.ID.String()))
		return MapError(err)
	}

	log.Info("product created successfully",
		slog.String("produit_id", produit.ID.String()),
		slog.String("nom", produit.Nom))
	return nil
}

// List implements store.ProduitStore.List
// It retrieves all products ordered by date_creation, newest first.
func (s *PostgresProduitStore) List(ctx context.Context) ([]*domain.Produit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + produitColumns + `
		FROM produits
		ORDER BY date_creation DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query products", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	produits := []*domain.Produit{}
	for rows.Next() {
		produit, err := scanProduit(rows.Scan)
		if err != nil {
			log.Error("failed to scan product row", slog.String("error", err.Error()))
			return nil, err
		}
		produits = append(produits, produit)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed products", slog.Int("count", len(produits)))
	return produits, nil
}

// GetByID implements store.ProduitStore.GetByID
// Returns store.ErrProduitNotFound if the product does not exist.
func (s *PostgresProduitStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Produit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + produitColumns + `
		FROM produits
		WHERE id = $1
	`

	produit, err := scanProduit(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("product not found", slog.String("produit_id", id.String()))
			return nil, store.ErrProduitNotFound
		}
		log.Error("failed to get product by ID",
			slog.String("error", err.Error()),
			slog.String("produit_id", id.String()))
		return nil, err
	}

	return produit, nil
}

// Update implements store.ProduitStore.Update
// It replaces the writable fields and refreshes date_modification.
// Returns store.ErrProduitNotFound if the product does not exist.
func (s *PostgresProduitStore) Update(ctx context.Context, produit *domain.Produit) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := produit.Validate(); err != nil {
		log.Warn("product validation failed during update",
			slog.String("error", err.Error()),
			slog.String("produit_id", produit.ID.String()))
		return err
	}

	produit.DateModification = time.Now().UTC()

	query := `
		UPDATE produits
		SET nom = $1, description = $2, prix = $3, quantite = $4, date_modification = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		produit.Nom,
		produit.Description,
		produit.Prix,
		produit.Quantite,
		produit.DateModification,
		produit.ID,
	)

	if err != nil {
		log.Error("failed to update product",
			slog.String("error", err.Error()),
			slog.String("produit_id", produit.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProduitNotFound); err != nil {
		log.Debug("product not found for update",
			slog.String("produit_id", produit.ID.String()))
		return err
	}

	log.Info("product updated successfully",
		slog.String("produit_id", produit.ID.String()))
	return nil
}

// Delete implements store.ProduitStore.Delete
// Returns store.ErrProduitNotFound if the product does not exist.
func (s *PostgresProduitStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM produits WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete product",
			slog.String("error", err.Error()),
			slog.String("produit_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProduitNotFound); err != nil {
		log.Debug("product not found for delete",
			slog.String("produit_id", id.String()))
		return err
	}

	log.Info("product deleted successfully", slog.String("produit_id", id.String()))
	return nil
}

// WithTx implements store.ProduitStore.WithTx
func (s *PostgresProduitStore) WithTx(tx *sql.Tx) store.ProduitStore {
	return &PostgresProduitStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanProduit reads one product row through the given scan function.
func scanProduit(scan func(dest ...any) error) (*domain.Produit, error) {
	var produit domain.Produit
	var creation, modification time.Time

	err := scan(
		&produit.ID,
		&produit.Nom,
		&produit.Description,
		&produit.Prix,
		&produit.Quantite,
		&creation,
		&modification,
	)
	if err != nil {
		return nil, err
	}

	produit.DateCreation = creation.UTC()
	produit.DateModification = modification.UTC()
	return &produit, nil
}
