// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentiment labels patient utterances with a sentiment class and a
// rule-based intent. Sentiment comes from a pluggable Classifier; when no
// classifier is available, or it fails, the result is Neutral.
package sentiment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/medscribe/pkg/types"
)

// DefaultMaxChars is the classifier input limit when none is configured.
const DefaultMaxChars = 512

// Label is the raw polarity returned by a classifier.
type Label string

const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
	LabelNeutral  Label = "NEUTRAL"
)

// Prediction is a classifier output.
type Prediction struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// Classifier predicts the polarity of a text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

var (
	// ErrNoAPIKey is returned when a hosted backend is selected without credentials.
	ErrNoAPIKey = errors.New("no API key configured")

	// ErrUnknownBackend is returned for a backend name New does not know.
	ErrUnknownBackend = errors.New("unknown sentiment backend")
)

// Analyzer combines a Classifier with the intent rules.
type Analyzer struct {
	classifier Classifier
	maxChars   int
	logger     *zap.Logger
}

// NewAnalyzer returns an Analyzer. A nil classifier makes every sentiment
// Neutral; maxChars <= 0 uses DefaultMaxChars.
func NewAnalyzer(c Classifier, maxChars int, logger *zap.Logger) *Analyzer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{classifier: c, maxChars: maxChars, logger: logger}
}

// Analyze returns the sentiment and intent for patientText.
func (a *Analyzer) Analyze(ctx context.Context, patientText string) types.SentimentResult {
	return types.SentimentResult{
		Sentiment: a.Sentiment(ctx, patientText),
		Intent:    DetectIntent(patientText),
	}
}

// Sentiment classifies the first maxChars characters of text.
func (a *Analyzer) Sentiment(ctx context.Context, text string) types.Sentiment {
	if a.classifier == nil {
		return types.SentimentNeutral
	}
	pred, err := a.classifier.Classify(ctx, truncate(text, a.maxChars))
	if err != nil {
		a.logger.Warn("sentiment classification failed, reporting neutral", zap.Error(err))
		return types.SentimentNeutral
	}
	a.logger.Debug("sentiment classified",
		zap.String("label", string(pred.Label)),
		zap.Float64("score", pred.Score))
	return MapLabel(pred.Label)
}

// MapLabel converts a classifier label into a patient sentiment.
func MapLabel(l Label) types.Sentiment {
	switch Label(strings.ToUpper(string(l))) {
	case LabelNegative:
		return types.SentimentAnxious
	case LabelPositive:
		return types.SentimentReassured
	default:
		return types.SentimentNeutral
	}
}

// intentRules are checked in order; the first rule with a matching cue wins.
var intentRules = []struct {
	intent types.Intent
	cues   []string
}{
	{types.IntentSeekingReassurance, []string{"i'm worried", "i am worried", "worried", "concern", "don't know", "scared"}},
	{types.IntentReportingSymptoms, []string{"i had", "i was", "i have", "my neck", "my back", "pain"}},
	{types.IntentReassured, []string{"thank", "good", "relief", "pleased"}},
}

// DetectIntent applies the intent rules to text.
func DetectIntent(text string) types.Intent {
	lowered := normalizeQuotes(strings.ToLower(text))
	for _, rule := range intentRules {
		for _, cue := range rule.cues {
			if strings.Contains(lowered, cue) {
				return rule.intent
			}
		}
	}
	return types.IntentOther
}

// normalizeQuotes folds typographic apostrophes so "don’t" matches "don't".
func normalizeQuotes(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
