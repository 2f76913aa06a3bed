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
	"github.com/tmercier/boutique-api/internal/service/auth"
	"github.com/tmercier/boutique-api/internal/store"
)

// PostgresUtilisateurStore implements the store.UtilisateurStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUtilisateurStore struct {
	db     store.DBTX
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewPostgresUtilisateurStore creates a new PostgreSQL implementation of the
// UtilisateurStore interface. It accepts a database connection or
// transaction managed by the caller, and the hasher used to turn plaintext
// passwords into stored hashes. If logger is nil, a default logger is used.
func NewPostgresUtilisateurStore(
	db store.DBTX,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *PostgresUtilisateurStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUtilisateurStore{
		db:     db,
		hasher: hasher,
		logger: logger.With(slog.String("component", "utilisateur_store")),
	}
}

// Ensure PostgresUtilisateurStore implements store.UtilisateurStore interface
var _ store.UtilisateurStore = (*PostgresUtilisateurStore)(nil)

const utilisateurColumns = `id, nom, email, hashed_password, is_active, is_staff, is_superuser, date_joined`

// Create implements store.UtilisateurStore.Create
// It validates the user, hashes the plaintext password and inserts the row.
// Returns store.ErrEmailExists on a duplicate email; no row is written.
func (s *PostgresUtilisateurStore) Create(ctx context.Context, user *domain.Utilisateur) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}
	user.HashedPassword = hashed
	user.Password = ""

	query := `
		INSERT INTO utilisateurs (` + utilisateurColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Nom,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
		user.DateJoined,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// List implements store.UtilisateurStore.List
// It retrieves all users ordered by date_joined, newest first.
func (s *PostgresUtilisateurStore) List(ctx context.Context) ([]*domain.Utilisateur, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + utilisateurColumns + `
		FROM utilisateurs
		ORDER BY date_joined DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	users := []*domain.Utilisateur{}
	for rows.Next() {
		user, err := scanUtilisateur(rows.Scan)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed users", slog.Int("count", len(users)))
	return users, nil
}

// GetByID implements store.UtilisateurStore.GetByID
// Returns store.ErrUtilisateurNotFound if the user does not exist.
func (s *PostgresUtilisateurStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Utilisateur, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + utilisateurColumns + `
		FROM utilisateurs
		WHERE id = $1
	`

	user, err := scanUtilisateur(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUtilisateurNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, err
	}

	return user, nil
}

// GetByEmail implements store.UtilisateurStore.GetByEmail
// The email is normalized before lookup.
// Returns store.ErrUtilisateurNotFound if the user does not exist.
func (s *PostgresUtilisateurStore) GetByEmail(ctx context.Context, email string) (*domain.Utilisateur, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + utilisateurColumns + `
		FROM utilisateurs
		WHERE email = $1
	`

	user, err := scanUtilisateur(s.db.QueryRowContext(ctx, query, domain.NormalizeEmail(email)).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found by email")
			return nil, store.ErrUtilisateurNotFound
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		return nil, err
	}

	return user, nil
}

// Update implements store.UtilisateurStore.Update
// If a new plaintext Password is set, it is hashed and replaces the stored
// hash. Returns store.ErrUtilisateurNotFound if the user does not exist and
// store.ErrEmailExists when the new email is already taken.
func (s *PostgresUtilisateurStore) Update(ctx context.Context, user *domain.Utilisateur) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if user.Password != "" {
		hashed, err := s.hasher.Hash(user.Password)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return err
		}
		user.HashedPassword = hashed
		user.Password = ""
	}

	query := `
		UPDATE utilisateurs
		SET nom = $1, email = $2, hashed_password = $3,
		    is_active = $4, is_staff = $5, is_superuser = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Nom,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
		user.ID,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during user update",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUtilisateurNotFound); err != nil {
		log.Debug("user not found for update",
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user updated successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// Delete implements store.UtilisateurStore.Delete
// Returns store.ErrUtilisateurNotFound if the user does not exist.
func (s *PostgresUtilisateurStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM utilisateurs WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUtilisateurNotFound); err != nil {
		log.Debug("user not found for delete",
			slog.String("user_id", id.String()))
		return err
	}

	log.Info("user deleted successfully", slog.String("user_id", id.String()))
	return nil
}

// WithTx implements store.UtilisateurStore.WithTx
func (s *PostgresUtilisateurStore) WithTx(tx *sql.Tx) store.UtilisateurStore {
	return &PostgresUtilisateurStore{
		db:     tx,
		hasher: s.hasher,
		logger: s.logger,
	}
}

// scanUtilisateur reads one user row through the given scan function.
func scanUtilisateur(scan func(dest ...any) error) (*domain.Utilisateur, error) {
	var user domain.Utilisateur
	var dateJoined time.Time

	err := scan(
		&user.ID,
		&user.Nom,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&user.IsStaff,
		&user.IsSuperuser,
		&dateJoined,
	)
	if err != nil {
		return nil, err
	}

	user.DateJoined = dateJoined.UTC()
	return &user, nil
}
