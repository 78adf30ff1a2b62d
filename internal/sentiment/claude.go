// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/medscribe/internal/httputil"
)

// classificationPromptTmpl asks a hosted model for a polarity label. The
// model must answer with JSON only.
var classificationPromptTmpl = template.Must(template.New("sentiment").Parse(`You are a sentiment classifier for patient statements made during a medical consultation.

Classify the overall polarity of the statement below as one of:
- "POSITIVE": the patient sounds relieved, reassured, hopeful, or satisfied
- "NEGATIVE": the patient sounds worried, anxious, distressed, or in discomfort
- "NEUTRAL": neither, or a purely factual statement

Respond with a JSON object with two fields: "label" (one of the values above) and "score" (a float between 0.0 and 1.0 giving your confidence). Do not include any text outside the JSON object.

Example response:
{"label": "NEGATIVE", "score": 0.87}

Statement:
{{.Text}}
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const defaultClaudeModel = "claude-haiku-4-5"

// ClaudeClassifier calls the Claude Messages API to classify sentiment.
type ClaudeClassifier struct {
	APIKey     string
	Model      string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Classify implements Classifier.
func (c *ClaudeClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	if c.APIKey == "" {
		return Prediction{}, ErrNoAPIKey
	}

	prompt, err := renderPrompt(text)
	if err != nil {
		return Prediction{}, fmt.Errorf("rendering prompt: %w", err)
	}

	model := c.Model
	if model == "" {
		model = defaultClaudeModel
	}

	bodyBytes, err := json.Marshal(claudeRequest{
		Model:     model,
		MaxTokens: 64,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Prediction{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.MaxRetries)
	if err != nil {
		return Prediction{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Prediction{}, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Prediction{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		return parsePrediction(block.Text)
	}
	return Prediction{}, fmt.Errorf("no text content in Claude API response")
}

// renderPrompt executes the classification prompt template with text.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := classificationPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// parsePrediction decodes a model's JSON answer. Markdown code fences
// around the object are tolerated.
func parsePrediction(raw string) (Prediction, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var p Prediction
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return Prediction{}, fmt.Errorf("parsing model response JSON: %w", err)
	}
	p.Label = Label(strings.ToUpper(string(p.Label)))
	switch p.Label {
	case LabelPositive, LabelNegative, LabelNeutral:
	default:
		return Prediction{}, fmt.Errorf("unexpected label %q", p.Label)
	}
	if p.Score < 0 || p.Score > 1 {
		return Prediction{}, fmt.Errorf("score %f out of range [0,1]", p.Score)
	}
	return p, nil
}
