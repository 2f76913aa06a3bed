package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/domain"
)

// UtilisateurStore defines the interface for user data persistence.
type UtilisateurStore interface {
	// Create saves a new user to the store.
	// It hashes the plaintext Password into HashedPassword before writing;
	// the plaintext is cleared on success and never persisted.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain Utilisateur if data is invalid.
	Create(ctx context.Context, user *domain.Utilisateur) error

	// List retrieves all users ordered by date_joined, newest first.
	// The returned users never contain a plaintext password.
	List(ctx context.Context) ([]*domain.Utilisateur, error)

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUtilisateurNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Utilisateur, error)

	// GetByEmail retrieves a user by their email address.
	// The email is normalized before lookup.
	// Returns ErrUtilisateurNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Utilisateur, error)

	// Update modifies an existing user's details. The caller MUST provide a
	// complete user object including HashedPassword. If a new plaintext
	// Password is set, it is hashed and replaces the stored hash.
	// Returns ErrUtilisateurNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.Utilisateur) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUtilisateurNotFound if the user does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UtilisateurStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UtilisateurStore
}
