package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	defaultGeminiModel = "gemini-1.5-pro"
	maxRetries         = 3
	initialBackoff     = time.Second
	maxPromptChars     = 30000
)

var ErrGenerationFailed = errors.New("failed to generate content")

// GeminiGenerator generates answers with the Gemini API
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	backoff     time.Duration
	logger      *zap.Logger
	call        func(ctx context.Context, prompt string) (string, error)
}

// GeminiGeneratorOption is a functional option for GeminiGenerator
type GeminiGeneratorOption func(*GeminiGenerator)

// GeminiWithModel sets the model name
func GeminiWithModel(model string) GeminiGeneratorOption {
	return func(g *GeminiGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// GeminiWithTemperature sets the sampling temperature
func GeminiWithTemperature(t float32) GeminiGeneratorOption {
	return func(g *GeminiGenerator) {
		g.temperature = t
	}
}

// GeminiWithLogger sets the logger
func GeminiWithLogger(logger *zap.Logger) GeminiGeneratorOption {
	return func(g *GeminiGenerator) {
		g.logger = logger
	}
}

// NewGeminiClient connects to the Gemini API with apiKey
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiGenerator creates a generator backed by client
func NewGeminiGenerator(client *genai.Client, opts ...GeminiGeneratorOption) *GeminiGenerator {
	g := &GeminiGenerator{
		client:      client,
		model:       defaultGeminiModel,
		temperature: 0.2,
		backoff:     initialBackoff,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.call = g.generateContent
	return g
}

// Generate sends prompt to Gemini, retrying up to three times with
// exponential backoff. Prompts longer than 30000 characters are truncated.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if len(prompt) > maxPromptChars {
		g.logger.Warn("Prompt too long, truncating", zap.Int("chars", len(prompt)), zap.Int("limit", maxPromptChars))
		prompt = truncate(prompt, maxPromptChars) + "\n\n[Content truncated due to length...]"
	}

	var lastErr error
	backoff := g.backoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, err := g.call(ctx, prompt)
		if err != nil {
			lastErr = err
			g.logger.Warn("Gemini call failed", zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		if text != "" {
			return text, nil
		}
		lastErr = ErrGenerationFailed
	}
	return "", fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, lastErr)
}

func (g *GeminiGenerator) generateContent(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini client not set")
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("API blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("API returned no candidates")
	}

	var out strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			g.logger.Warn("Candidate finished early", zap.Int("candidate", i), zap.String("reason", candidate.FinishReason.String()))
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}
