package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerator_Retries(t *testing.T) {
	g := NewGeminiGenerator(nil)
	g.backoff = 0

	calls := 0
	g.call = func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("unavailable")
		}
		return "answer", nil
	}

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Equal(t, 3, calls)
}

func TestGeminiGenerator_GivesUp(t *testing.T) {
	g := NewGeminiGenerator(nil)
	g.backoff = 0
	calls := 0
	g.call = func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", nil
	}

	_, err := g.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, maxRetries, calls)
}

func TestGeminiGenerator_TruncatesLongPrompts(t *testing.T) {
	g := NewGeminiGenerator(nil)
	var seen string
	g.call = func(ctx context.Context, prompt string) (string, error) {
		seen = prompt
		return "ok", nil
	}

	_, err := g.Generate(context.Background(), strings.Repeat("a", maxPromptChars+10))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(seen, strings.Repeat("a", maxPromptChars)+"\n\n[Content truncated"))
}

func TestGeminiGenerator_NoClient(t *testing.T) {
	g := NewGeminiGenerator(nil)
	g.backoff = 0
	_, err := g.Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "gemini client not set")
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "")
	assert.Error(t, err)
}
