// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash-lite"

// contentGenerator is the subset of *genai.Models the classifier needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClassifier classifies sentiment with the Gemini API.
type GeminiClassifier struct {
	models contentGenerator
	model  string
}

// NewGeminiClassifier creates a Gemini API client for model.
func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return newGeminiClassifier(client.Models, model), nil
}

func newGeminiClassifier(models contentGenerator, model string) *GeminiClassifier {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClassifier{models: models, model: model}
}

// Classify implements Classifier.
func (g *GeminiClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	prompt, err := renderPrompt(text)
	if err != nil {
		return Prediction{}, fmt.Errorf("rendering prompt: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("Gemini GenerateContent failed: %w", err)
	}

	out := result.Text()
	if out == "" {
		return Prediction{}, fmt.Errorf("Gemini returned empty response")
	}
	return parsePrediction(out)
}
