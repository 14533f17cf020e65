package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"legalrag-backend/bootstrap"
	"legalrag-backend/repository"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ctx := context.Background()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()

	if err := repository.CheckReady(ctx, app.Weaviate); err != nil {
		log.Fatalf("Vector store unavailable: %v", err)
	}
	if err := app.EnsureSchemas(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	classes, err := app.Schema.SchemaInfo(ctx)
	if err != nil {
		log.Fatalf("Failed to read schema: %v", err)
	}
	for _, c := range classes {
		fmt.Printf("✓ %s (%s, %d properties)\n", c.Name, c.Vectorizer, c.Properties)
	}
	if app.DB != nil {
		fmt.Println("✓ ledger tables ready")
	} else {
		fmt.Println("- DATABASE_URL not set, ledger tables skipped")
	}
}
