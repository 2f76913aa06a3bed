// Package main implements a small CLI that provisions an administrator
// account against the configured database. It is the operational entry
// point for bootstrapping the first staff user.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/tmercier/boutique-api/internal/config"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/platform/logger"
	"github.com/tmercier/boutique-api/internal/platform/postgres"
	"github.com/tmercier/boutique-api/internal/service/auth"
	"github.com/tmercier/boutique-api/internal/store"
)

func main() {
	email := flag.String("email", "", "email address of the administrator account (required)")
	nom := flag.String("nom", "", "display name of the administrator account (required)")
	password := flag.String("password", "", "password for the account (required, min 8 chars)")
	flag.Parse()

	if *email == "" || *nom == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), *email, *nom, *password); err != nil {
		log.Fatalf("Failed to create administrator: %v", err)
	}

	fmt.Printf("Administrator account created for %s\n", domain.NormalizeEmail(*email))
}

func run(ctx context.Context, email, nom, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	admin, err := domain.NewSuperUtilisateur(email, nom, password)
	if err != nil {
		return fmt.Errorf("invalid administrator data: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	users := postgres.NewPostgresUtilisateurStore(db, hasher, appLogger)

	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return users.WithTx(tx).Create(ctx, admin)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return fmt.Errorf("an account already exists for %s", admin.Email)
		}
		return fmt.Errorf("failed to store administrator: %w", err)
	}

	appLogger.Info("Administrator account created",
		"user_id", admin.ID.String(),
		"email", admin.Email)
	return nil
}
