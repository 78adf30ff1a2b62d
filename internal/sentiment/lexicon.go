// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"
)

// Lexicon is an offline classifier that scores text against word lists.
// Words after a contrastive "but" weigh more than words before it, and a
// negator within the two preceding words flips a word's polarity.
type Lexicon struct {
	Positive map[string]float64
	Negative map[string]float64

	// Threshold is the minimum absolute normalized score for a
	// non-neutral label.
	Threshold float64
}

var lexiconWord = regexp.MustCompile(`[a-z]+(?:'[a-z]+)?`)

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "don't": true, "didn't": true,
	"doesn't": true, "isn't": true, "wasn't": true, "haven't": true,
	"hasn't": true, "can't": true, "won't": true, "nothing": true, "without": true,
}

const (
	beforeContrastWeight = 0.5
	afterContrastWeight  = 1.5
)

// NewLexicon returns a Lexicon with the built-in clinical word lists.
func NewLexicon() *Lexicon {
	return &Lexicon{
		Positive: map[string]float64{
			"better": 1, "good": 1, "great": 1.5, "fine": 0.5, "relief": 1.5,
			"relieved": 1.5, "happy": 1.5, "hope": 1, "hopeful": 1, "improving": 1,
			"improved": 1, "recovered": 1.5, "recovery": 1, "thank": 1, "thanks": 1,
			"appreciate": 1, "pleased": 1.5, "glad": 1.5, "comfortable": 1,
			"reassured": 1.5, "excellent": 2, "normal": 0.5, "easier": 1,
		},
		Negative: map[string]float64{
			"worried": 1.5, "worry": 1.5, "worse": 1.5, "pain": 1, "painful": 1.5,
			"hurt": 1, "hurts": 1, "discomfort": 1, "scared": 2, "afraid": 2,
			"anxious": 2, "nervous": 1.5, "concerned": 1.5, "concern": 1, "bad": 1,
			"terrible": 2, "awful": 2, "rough": 1, "trouble": 1, "stiff": 0.5,
			"stiffness": 0.5, "shocked": 1.5, "sore": 1, "ache": 1, "aches": 1,
			"backache": 1, "backaches": 1, "dizzy": 1, "tired": 0.5, "struggling": 1.5,
		},
		Threshold: 0.05,
	}
}

// Classify implements Classifier.
func (l *Lexicon) Classify(_ context.Context, text string) (Prediction, error) {
	words := lexiconWord.FindAllString(normalizeQuotes(strings.ToLower(text)), -1)
	if len(words) == 0 {
		return Prediction{Label: LabelNeutral}, nil
	}

	contrast := -1
	for i, w := range words {
		if w == "but" || w == "however" || w == "though" {
			contrast = i
		}
	}

	var score float64
	for i, w := range words {
		v := l.Positive[w] - l.Negative[w]
		if v == 0 {
			continue
		}
		if negatedAt(words, i) {
			v = -v
		}
		switch {
		case contrast < 0:
		case i < contrast:
			v *= beforeContrastWeight
		default:
			v *= afterContrastWeight
		}
		score += v
	}

	norm := score / math.Sqrt(score*score+15)
	switch {
	case norm >= l.Threshold:
		return Prediction{Label: LabelPositive, Score: norm}, nil
	case norm <= -l.Threshold:
		return Prediction{Label: LabelNegative, Score: -norm}, nil
	default:
		return Prediction{Label: LabelNeutral, Score: 1 - math.Abs(norm)}, nil
	}
}

func negatedAt(words []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if negators[words[j]] {
			return true
		}
	}
	return false
}
