package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"legalrag-backend/bootstrap"
	"legalrag-backend/handlers"
	"legalrag-backend/models"
	"legalrag-backend/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	email := flag.String("email", "", "email of the API user")
	name := flag.String("name", "", "display name")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.EnsureLedgerSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure ledger schema: %v", err)
	}

	users := repository.NewAPIUserRepository(pool)
	existing, err := users.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		log.Printf("API user %s already exists (ID: %s)", existing.Email, existing.ID)
		return
	case !errors.Is(err, repository.ErrAPIUserNotFound):
		log.Fatalf("Failed to look up user: %v", err)
	}

	key, prefix, hash, err := handlers.GenerateAPIKey()
	if err != nil {
		log.Fatalf("Failed to generate API key: %v", err)
	}

	user := &models.APIUser{Email: *email, Name: *name, KeyPrefix: prefix, KeyHash: hash}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create API user: %v", err)
	}

	fmt.Printf("✅ API user created successfully!\n")
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Printf("   Email: %s\n", user.Email)
	fmt.Printf("   API key: %s\n", key)
	fmt.Println("   Store the key now; it cannot be shown again.")
}
