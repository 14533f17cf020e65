package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"legalrag-backend/bootstrap"
	"legalrag-backend/service"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	dir := flag.String("dir", "", "directory to ingest")
	file := flag.String("file", "", "single file to ingest")
	recursive := flag.Bool("recursive", true, "descend into subdirectories")
	watch := flag.Bool("watch", false, "keep running and ingest new or changed files under -dir")
	metadataJSON := flag.String("metadata", "", "JSON object of metadata overrides applied to every file")
	flag.Parse()

	if (*dir == "") == (*file == "") {
		log.Fatal("exactly one of -dir or -file is required")
	}

	var metadata map[string]interface{}
	if *metadataJSON != "" {
		if err := json.Unmarshal([]byte(*metadataJSON), &metadata); err != nil {
			log.Fatalf("Invalid -metadata: %v", err)
		}
	}

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()
	logger := app.Logger

	if err := app.EnsureSchemas(ctx); err != nil {
		logger.Fatal("Failed to ensure schema", zap.Error(err))
	}

	if *file != "" {
		res, err := app.Ingestion.ProcessDocument(ctx, service.ProcessDocumentRequest{Path: *file, Metadata: metadata})
		if err != nil {
			logger.Fatal("Failed to ingest file", zap.String("file", *file), zap.Error(err))
		}
		fmt.Printf("✓ %s -> %s (%d sections, %d citations)\n", res.Title, res.DocumentID, res.Sections, res.Citations)
		return
	}

	stats, err := app.Ingestion.ProcessingStats(*dir, *recursive)
	if err != nil {
		logger.Fatal("Failed to scan directory", zap.Error(err))
	}
	fmt.Printf("Found %d files (%d supported, %.2f MB)\n", stats.TotalFiles, stats.SupportedFiles, stats.TotalSizeMB)

	res, err := app.Ingestion.ProcessDirectory(ctx, service.ProcessDirectoryRequest{Dir: *dir, Recursive: *recursive, Metadata: metadata})
	if err != nil && res == nil {
		logger.Fatal("Failed to ingest directory", zap.Error(err))
	}
	for _, o := range res.Outcomes {
		if o.Error != "" {
			fmt.Printf("✗ %s: %s\n", o.Path, o.Error)
		} else {
			fmt.Printf("✓ %s -> %s\n", o.Path, o.DocumentID)
		}
	}
	fmt.Printf("Processed %d, failed %d\n", len(res.DocumentIDs), res.Outcomes.Failed())
	if res.JobID != nil {
		fmt.Printf("Job ID: %s\n", res.JobID)
	}
	if err != nil {
		os.Exit(1)
	}

	if *watch {
		err := app.Ingestion.Watch(ctx, service.WatchRequest{
			Dir:       *dir,
			Recursive: *recursive,
			OnResult: func(path string, res *service.ProcessDocumentResult, err error) {
				if err == nil {
					fmt.Printf("✓ %s -> %s\n", path, res.DocumentID)
				}
			},
		})
		if err != nil {
			logger.Fatal("Watch stopped", zap.Error(err))
		}
	}
}
