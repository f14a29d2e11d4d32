package fix

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.2
	geminiAttempts     = 3
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("fix: empty response from model")

// TextGenerator turns a prompt into text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is a TextGenerator backed by the Gemini API.
type Gemini struct {
	cli         *genai.Client
	model       string
	temperature float32
}

var _ TextGenerator = (*Gemini)(nil)

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required (set GEMINI_API_KEY)")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{cli: cli, model: model, temperature: cfg.Temperature}, nil
}

func (g *Gemini) Name() string { return "gemini:" + g.model }

func (g *Gemini) Close() error { return nil }

// Generate retries transient failures with exponential backoff.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	temp := g.temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temp}

	text, err := retry(ctx, geminiAttempts, geminiBackoff, func() (string, error) {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			cfg,
		)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", ErrEmptyResponse
		}
		var b strings.Builder
		for _, p := range resp.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
		if strings.TrimSpace(b.String()) == "" {
			return "", ErrEmptyResponse
		}
		return b.String(), nil
	})
	if err != nil && ctx.Err() == nil {
		return "", fmt.Errorf("gemini %s: %w", g.model, err)
	}
	return text, err
}

func geminiBackoff(attempt int) time.Duration {
	return time.Duration(300*(1<<attempt)) * time.Millisecond
}

// retry calls fn up to attempts times, sleeping backoff(n) between attempt n
// and n+1. It returns the last error once attempts run out.
func retry(ctx context.Context, attempts int, backoff func(int) time.Duration, fn func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	return "", lastErr
}
