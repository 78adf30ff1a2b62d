// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"sort"
	"strings"

	"github.com/pdiddy/medscribe/internal/nlp"
)

// ChunkFrequency ranks lower-cased noun chunks by how often they occur.
// Ties keep the order of first appearance.
type ChunkFrequency struct{}

// Extract implements Extractor.
func (ChunkFrequency) Extract(doc *nlp.Doc, topK int) ([]string, error) {
	return mostCommon(doc.NounChunks(), normalizeTopK(topK))
}

func mostCommon(chunks []string, topK int) ([]string, error) {
	counts := make(map[string]int)
	var order []string
	for _, c := range chunks {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	if len(order) == 0 {
		return nil, ErrNoKeywords
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topK {
		order = order[:topK]
	}
	return order, nil
}
