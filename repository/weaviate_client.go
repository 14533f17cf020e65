package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
)

// Class names in the vector store
const (
	DocumentClass = "LegalDocument"
	CitationClass = "Citation"
	SectionClass  = "DocumentSection"
)

// AllClasses lists every class owned by this service, parents first
var AllClasses = []string{DocumentClass, CitationClass, SectionClass}

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrStoreNotReady    = errors.New("vector store is not ready")
)

// WeaviateOptions holds connection settings for NewWeaviateClient
type WeaviateOptions struct {
	URL          string
	APIKey       string
	OpenAIAPIKey string
}

// NewWeaviateClient creates a client for the given URL. The OpenAI key is
// forwarded so the server-side vectorizer and generative modules can call OpenAI.
func NewWeaviateClient(opts WeaviateOptions) (*weaviate.Client, error) {
	host, scheme, err := splitURL(opts.URL)
	if err != nil {
		return nil, err
	}

	cfg := weaviate.Config{
		Host:    host,
		Scheme:  scheme,
		Headers: map[string]string{},
	}
	if opts.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: opts.APIKey}
	}
	if opts.OpenAIAPIKey != "" {
		cfg.Headers["X-OpenAI-Api-Key"] = opts.OpenAIAPIKey
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}
	return client, nil
}

// CheckReady fails unless the server reports ready
func CheckReady(ctx context.Context, client *weaviate.Client) error {
	ready, err := client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach vector store: %w", err)
	}
	if !ready {
		return ErrStoreNotReady
	}
	return nil
}

func splitURL(raw string) (host, scheme string, err error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid weaviate url %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("invalid weaviate url %q: missing host", raw)
	}
	return u.Host, u.Scheme, nil
}

// beacon builds a weak cross-reference to an object of class
func beacon(class, id string) []map[string]string {
	return []map[string]string{
		{"beacon": fmt.Sprintf("weaviate://localhost/%s/%s", class, id)},
	}
}

func isNotFound(err error) bool {
	var clientErr *fault.WeaviateClientError
	return errors.As(err, &clientErr) && clientErr.StatusCode == 404
}
