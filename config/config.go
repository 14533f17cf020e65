package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// IngestionConfig controls which files are accepted and how they are classified
type IngestionConfig struct {
	MaxDocumentSizeMB     float64  `yaml:"max_document_size_mb"`
	SupportedFormats      []string `yaml:"supported_formats"`
	DefaultPracticeArea   string   `yaml:"default_practice_area"`
	ConfidentialityLevels []string `yaml:"confidentiality_levels"`
}

// WeaviateConfig contains connection details for the vector store
type WeaviateConfig struct {
	URL           string `yaml:"url"`
	APIKey        string `yaml:"api_key"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	BackupBackend string `yaml:"backup_backend"`
}

// GenerationConfig selects the answer generator
type GenerationConfig struct {
	Provider     string  `yaml:"provider"` // "weaviate" or "gemini"
	GeminiAPIKey string  `yaml:"gemini_api_key"`
	GeminiModel  string  `yaml:"gemini_model"`
	Temperature  float32 `yaml:"temperature"`
}

// StorageConfig selects where uploaded source files are archived
type StorageConfig struct {
	Type      string `yaml:"type"` // "local", "s3" or "none"
	LocalPath string `yaml:"local_path"`
	S3Bucket  string `yaml:"s3_bucket"`
	S3Region  string `yaml:"s3_region"`
	// Static S3 credentials; when either is empty the default AWS chain applies
	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port        string `yaml:"port"`
	RequireAuth bool   `yaml:"require_auth"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// Config is the root application configuration
type Config struct {
	Ingestion   IngestionConfig  `yaml:"ingestion"`
	Weaviate    WeaviateConfig   `yaml:"weaviate"`
	Generation  GenerationConfig `yaml:"generation"`
	Storage     StorageConfig    `yaml:"storage"`
	Server      ServerConfig     `yaml:"server"`
	Log         LogConfig        `yaml:"log"`
	DatabaseURL string           `yaml:"database_url"`
}

var (
	ErrInvalidSizeLimit = errors.New("max document size must be positive")
	ErrNoFormats        = errors.New("at least one supported format is required")
	ErrUnknownProvider  = errors.New("unknown generation provider")
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Ingestion: IngestionConfig{
			MaxDocumentSizeMB:     50,
			SupportedFormats:      []string{"pdf", "docx", "txt", "html"},
			DefaultPracticeArea:   "general",
			ConfidentialityLevels: []string{"public", "standard", "confidential", "highly_confidential"},
		},
		Weaviate: WeaviateConfig{
			URL:           "http://localhost:8080",
			BackupBackend: "s3",
		},
		Generation: GenerationConfig{
			Provider:    "weaviate",
			GeminiModel: "gemini-1.5-pro",
			Temperature: 0.2,
		},
		Storage: StorageConfig{
			Type:      "local",
			LocalPath: "./storage/files",
			S3Region:  "us-east-1",
		},
		Server: ServerConfig{
			Port:        "8080",
			RequireAuth: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty or missing path
// skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Ingestion.MaxDocumentSizeMB = getEnvAsFloat("MAX_DOCUMENT_SIZE_MB", cfg.Ingestion.MaxDocumentSizeMB)
	cfg.Ingestion.SupportedFormats = getEnvAsList("SUPPORTED_FORMATS", cfg.Ingestion.SupportedFormats)
	cfg.Ingestion.DefaultPracticeArea = getEnv("DEFAULT_PRACTICE_AREA", cfg.Ingestion.DefaultPracticeArea)
	cfg.Ingestion.ConfidentialityLevels = getEnvAsList("CONFIDENTIALITY_LEVELS", cfg.Ingestion.ConfidentialityLevels)

	cfg.Weaviate.URL = getEnv("WEAVIATE_URL", cfg.Weaviate.URL)
	cfg.Weaviate.APIKey = getEnv("WEAVIATE_API_KEY", cfg.Weaviate.APIKey)
	cfg.Weaviate.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.Weaviate.OpenAIAPIKey)
	cfg.Weaviate.BackupBackend = getEnv("BACKUP_BACKEND", cfg.Weaviate.BackupBackend)

	cfg.Generation.Provider = getEnv("GENERATION_PROVIDER", cfg.Generation.Provider)
	cfg.Generation.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.Generation.GeminiAPIKey)
	cfg.Generation.GeminiModel = getEnv("GEMINI_MODEL", cfg.Generation.GeminiModel)

	cfg.Storage.Type = getEnv("STORAGE_TYPE", cfg.Storage.Type)
	cfg.Storage.LocalPath = getEnv("STORAGE_LOCAL_PATH", cfg.Storage.LocalPath)
	cfg.Storage.S3Bucket = getEnv("AWS_S3_BUCKET", cfg.Storage.S3Bucket)
	cfg.Storage.S3Region = getEnv("AWS_REGION", cfg.Storage.S3Region)
	cfg.Storage.S3AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", cfg.Storage.S3AccessKeyID)
	cfg.Storage.S3SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.Storage.S3SecretAccessKey)

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.RequireAuth = getEnvAsBool("REQUIRE_AUTH", cfg.Server.RequireAuth)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
}

// Validate checks the invariants the ingestion pipeline relies on
func (c *Config) Validate() error {
	if c.Ingestion.MaxDocumentSizeMB <= 0 {
		return ErrInvalidSizeLimit
	}
	if len(c.Ingestion.SupportedFormats) == 0 {
		return ErrNoFormats
	}
	if c.Ingestion.DefaultPracticeArea == "" {
		c.Ingestion.DefaultPracticeArea = "general"
	}
	switch c.Generation.Provider {
	case "weaviate", "gemini":
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Generation.Provider)
	}
	return nil
}

// MaxDocumentBytes returns the size ceiling in bytes
func (c *Config) MaxDocumentBytes() int64 {
	return int64(c.Ingestion.MaxDocumentSizeMB * 1024 * 1024)
}

// IsSupportedFormat reports whether ext (with or without the dot) is accepted
func (c *Config) IsSupportedFormat(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, f := range c.Ingestion.SupportedFormats {
		if f == ext {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
