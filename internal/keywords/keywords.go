// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords ranks the key phrases of a transcript. Two strategies
// are available: YAKE, an unsupervised statistical scorer, and a noun-chunk
// frequency count built on the part-of-speech tagger.
package keywords

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/medscribe/internal/nlp"
	"github.com/pdiddy/medscribe/pkg/types"
)

// DefaultTopK is the number of keywords returned when topK <= 0.
const DefaultTopK = 10

// ErrNoKeywords is returned when a strategy finds no candidate phrases.
var ErrNoKeywords = errors.New("no keyword candidates")

// Extractor returns up to topK keywords for a document, best first.
type Extractor interface {
	Extract(doc *nlp.Doc, topK int) ([]string, error)
}

// New returns the Extractor for the configured strategy.
func New(cfg types.KeywordConfig, logger *zap.Logger) (Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Strategy {
	case types.KeywordsYAKE:
		return NewYAKE(cfg.MaxNGram), nil
	case types.KeywordsChunks:
		return ChunkFrequency{}, nil
	case types.KeywordsAuto, "":
		return &Fallback{
			Primary:   NewYAKE(cfg.MaxNGram),
			Secondary: ChunkFrequency{},
			Logger:    logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown keyword strategy %q: use auto, yake, or chunks", cfg.Strategy)
	}
}

// Fallback uses Primary and switches to Secondary when Primary fails or
// finds nothing.
type Fallback struct {
	Primary   Extractor
	Secondary Extractor
	Logger    *zap.Logger
}

// Extract implements Extractor.
func (f *Fallback) Extract(doc *nlp.Doc, topK int) ([]string, error) {
	kws, err := f.Primary.Extract(doc, topK)
	if err == nil && len(kws) > 0 {
		return kws, nil
	}
	if f.Logger != nil {
		f.Logger.Debug("primary keyword extractor produced nothing, using fallback", zap.Error(err))
	}
	return f.Secondary.Extract(doc, topK)
}

func normalizeTopK(topK int) int {
	if topK <= 0 {
		return DefaultTopK
	}
	return topK
}
