// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/medscribe/pkg/types"
)

// New returns the Classifier selected by cfg.Backend. BackendNone yields a
// nil Classifier, which NewAnalyzer treats as always Neutral. Errors other
// than ErrUnknownBackend mean the backend exists but cannot be reached.
func New(ctx context.Context, cfg types.SentimentConfig) (Classifier, error) {
	switch cfg.Backend {
	case "", types.BackendLexicon:
		return NewLexicon(), nil
	case types.BackendNone:
		return nil, nil
	case types.BackendClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude backend: %w", ErrNoAPIKey)
		}
		return &ClaudeClassifier{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Client:     &http.Client{Timeout: cfg.Timeout},
		}, nil
	case types.BackendGemini:
		g, err := NewGeminiClassifier(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini backend: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Backend)
	}
}
