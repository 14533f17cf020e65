package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"legalrag-backend/bootstrap"
	"legalrag-backend/repository"
	"legalrag-backend/service"
)

var defaultDocumentPaths = []string{"./legal-docs", "./documents", "/legal-docs"}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	skipDemo := flag.Bool("no-demo", false, "skip the demonstration queries")
	flag.Parse()

	fmt.Println(titleStyle.Render("🏛️  Legal Document RAG System - Demo"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, *configPath, flag.Arg(0), *skipDemo)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("❌ "+err.Error()))
		os.Exit(1)
	}
}

// run drives the demo. Deferred cleanup completes before main decides the
// exit status.
func run(ctx context.Context, configPath, documentPath string, skipDemo bool) error {
	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Generation.Provider == "weaviate" && cfg.Weaviate.OpenAIAPIKey == "" {
		return errors.New("missing required environment variables: OPENAI_API_KEY")
	}

	if documentPath == "" {
		documentPath = firstExisting(defaultDocumentPaths)
	}
	if documentPath != "" {
		fmt.Printf("📁 Will process documents from: %s\n", documentPath)
	} else {
		fmt.Println(mutedStyle.Render("📁 No document path provided. Demo will use existing data."))
		fmt.Println(mutedStyle.Render("   Usage: legalrag-backend /path/to/legal/documents"))
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer app.Close()

	if !setup(ctx, app.Schema) {
		return nil
	}
	if err := app.EnsureSchemas(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	if documentPath != "" {
		ingest(ctx, os.Stdout, app.Ingestion, documentPath)
	}

	if !skipDemo {
		demonstrateSearch(ctx, os.Stdout, app.Queries)
		demonstrateResearch(ctx, os.Stdout, app.Queries)
		demonstrateCaseAnalysis(ctx, os.Stdout, app.Queries)
	}

	interactive(ctx, os.Stdin, os.Stdout, app.Queries)
	return nil
}

func setup(ctx context.Context, schema *repository.SchemaRepository) bool {
	classes, err := schema.SchemaInfo(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Failed to connect to Weaviate: %v", err)))
		return false
	}
	fmt.Println(okStyle.Render("✅ Connected to Weaviate successfully"))
	fmt.Printf("📊 Schema classes: %d\n", len(classes))
	return true
}

func ingest(ctx context.Context, out io.Writer, ingestion *service.IngestionService, path string) {
	fmt.Fprintf(out, "\n📁 Ingesting documents from: %s\n", path)

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Path not found: "+path))
		return
	}

	if !info.IsDir() {
		res, err := ingestion.ProcessDocument(ctx, service.ProcessDocumentRequest{Path: path})
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Failed to process file %s: %v", path, err)))
			return
		}
		fmt.Fprintln(out, okStyle.Render("✅ Successfully processed file: "+res.Title))
		return
	}

	stats, err := ingestion.ProcessingStats(path, true)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ %v", err)))
		return
	}
	fmt.Fprintln(out, "📊 Directory stats:")
	fmt.Fprintf(out, "   Total files: %d\n", stats.TotalFiles)
	fmt.Fprintf(out, "   Supported files: %d\n", stats.SupportedFiles)
	fmt.Fprintf(out, "   Total size: %.2f MB\n", stats.TotalSizeMB)

	if stats.SupportedFiles == 0 {
		fmt.Fprintln(out, errorStyle.Render("❌ No supported documents found"))
		return
	}
	res, err := ingestion.ProcessDirectory(ctx, service.ProcessDirectoryRequest{Dir: path, Recursive: true})
	if err != nil && res == nil {
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ %v", err)))
		return
	}
	fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("✅ Successfully processed %d documents", len(res.DocumentIDs))))
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
