// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	_ "embed"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/medscribe/internal/nlp"
)

//go:embed stopwords_en.txt
var stopwordsEN string

const (
	defaultMaxNGram   = 3
	defaultWindowSize = 1
	defaultDedupLimit = 0.9
	minTermChars      = 3
)

var (
	// sentenceBoundary separates sentences; candidates never cross it.
	sentenceBoundary = regexp.MustCompile(`[.!?\n]+`)

	// fragmentBoundary separates phrases inside a sentence.
	fragmentBoundary = regexp.MustCompile(`[,;:()"“”–—]+`)

	// wordPattern matches a word, keeping inner apostrophes and hyphens.
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*`)
)

// YAKE implements the YAKE unsupervised keyword extractor (Campos et al.).
// Lower scores are better.
type YAKE struct {
	MaxNGram   int
	WindowSize int
	DedupLimit float64

	stopwords map[string]bool
}

// NewYAKE returns a YAKE extractor for candidates of up to maxNGram words.
func NewYAKE(maxNGram int) *YAKE {
	if maxNGram <= 0 {
		maxNGram = defaultMaxNGram
	}
	return &YAKE{
		MaxNGram:   maxNGram,
		WindowSize: defaultWindowSize,
		DedupLimit: defaultDedupLimit,
		stopwords:  parseStopwords(stopwordsEN),
	}
}

func parseStopwords(list string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range strings.Split(list, "\n") {
		w := strings.TrimSpace(line)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		set[w] = true
	}
	return set
}

// Extract implements Extractor.
func (y *YAKE) Extract(doc *nlp.Doc, topK int) ([]string, error) {
	scored := y.Score(doc.Text())
	if len(scored) == 0 {
		return nil, ErrNoKeywords
	}

	topK = normalizeTopK(topK)
	var out []string
	for _, kw := range scored {
		if y.isDuplicate(kw.Phrase, out) {
			continue
		}
		out = append(out, kw.Phrase)
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

// ScoredKeyword is a candidate phrase and its YAKE score.
type ScoredKeyword struct {
	Phrase string
	Score  float64
}

// term accumulates the statistics YAKE needs for one lower-cased word.
type term struct {
	tf        float64
	tfUpper   float64
	tfAcronym float64
	sentences map[int]bool
	positions []int
	left      map[string]int
	right     map[string]int
	stop      bool
	weight    float64
}

type candidate struct {
	words []string
	tf    float64
	first int
}

// Score returns every candidate phrase in text ordered from best to worst,
// without de-duplication.
func (y *YAKE) Score(text string) []ScoredKeyword {
	terms := make(map[string]*term)
	candidates := make(map[string]*candidate)
	numSentences := 0

	for _, sentence := range sentenceBoundary.Split(text, -1) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		sentIdx := numSentences
		numSentences++
		wordIdx := 0

		for _, fragment := range fragmentBoundary.Split(sentence, -1) {
			words := wordPattern.FindAllString(fragment, -1)
			keys := make([]string, len(words))

			for i, w := range words {
				key := strings.ToLower(w)
				keys[i] = key

				t := terms[key]
				if t == nil {
					t = &term{
						sentences: make(map[int]bool),
						left:      make(map[string]int),
						right:     make(map[string]int),
						stop:      y.isStopword(key),
					}
					terms[key] = t
				}
				t.tf++
				t.sentences[sentIdx] = true
				t.positions = append(t.positions, sentIdx)
				if isAcronym(w) {
					t.tfAcronym++
				} else if wordIdx > 0 && startsUpper(w) {
					t.tfUpper++
				}
				wordIdx++

				if t.stop {
					continue
				}
				for back := 1; back <= y.WindowSize && i-back >= 0; back++ {
					prev := keys[i-back]
					if terms[prev].stop {
						continue
					}
					t.left[prev]++
					terms[prev].right[key]++
				}
			}

			y.collectCandidates(keys, candidates, len(candidates))
		}
	}

	if numSentences == 0 || len(candidates) == 0 {
		return nil
	}

	y.weighTerms(terms, numSentences)

	ordered := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].first < ordered[j].first })

	scored := make([]ScoredKeyword, len(ordered))
	for i, c := range ordered {
		prod, sum := 1.0, 0.0
		for _, w := range c.words {
			t := terms[w]
			if t.stop {
				continue
			}
			prod *= t.weight
			sum += t.weight
		}
		scored[i] = ScoredKeyword{
			Phrase: strings.Join(c.words, " "),
			Score:  prod / (c.tf * (1 + sum)),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score < scored[j].Score })
	return scored
}

// collectCandidates records every valid n-gram of keys.
func (y *YAKE) collectCandidates(keys []string, candidates map[string]*candidate, seq int) {
	for i := range keys {
		for n := 1; n <= y.MaxNGram && i+n <= len(keys); n++ {
			words := keys[i : i+n]
			if !y.validCandidate(words) {
				continue
			}
			phrase := strings.Join(words, " ")
			c := candidates[phrase]
			if c == nil {
				c = &candidate{words: append([]string(nil), words...), first: seq}
				candidates[phrase] = c
				seq++
			}
			c.tf++
		}
	}
}

func (y *YAKE) validCandidate(words []string) bool {
	first, last := words[0], words[len(words)-1]
	if y.isStopword(first) || y.isStopword(last) {
		return false
	}
	for _, w := range words {
		if isNumeric(w) {
			return false
		}
	}
	return len([]rune(first)) >= minTermChars && len([]rune(last)) >= minTermChars
}

// weighTerms sets the YAKE weight of every term:
//
//	H = (Pos * Rel) / (Case + Freq/Rel + Spread/Rel)
func (y *YAKE) weighTerms(terms map[string]*term, numSentences int) {
	var validTFs []float64
	maxTF := 0.0
	for _, t := range terms {
		if t.tf > maxTF {
			maxTF = t.tf
		}
		if !t.stop {
			validTFs = append(validTFs, t.tf)
		}
	}
	mean, std := meanStd(validTFs)

	for _, t := range terms {
		wCase := math.Max(t.tfUpper, t.tfAcronym) / (1 + math.Log(t.tf))
		wPos := math.Log(math.Log(3 + median(t.positions)))
		wFreq := t.tf
		if mean+std > 0 {
			wFreq = t.tf / (mean + std)
		}
		wRel := (0.5 + dispersion(t.left)*(t.tf/maxTF)) + (0.5 + dispersion(t.right)*(t.tf/maxTF))
		wSpread := float64(len(t.sentences)) / float64(numSentences)

		t.weight = (wPos * wRel) / (wCase + wFreq/wRel + wSpread/wRel)
	}
}

func (y *YAKE) isStopword(w string) bool {
	return y.stopwords[w] || len([]rune(w)) < 2
}

func (y *YAKE) isDuplicate(phrase string, selected []string) bool {
	for _, s := range selected {
		if similarity(phrase, s) >= y.DedupLimit {
			return true
		}
	}
	return false
}

// dispersion is the ratio of distinct neighbours to total co-occurrences.
func dispersion(neighbours map[string]int) float64 {
	total := 0
	for _, n := range neighbours {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(len(neighbours)) / float64(total)
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

func median(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := append([]int(nil), xs...)
	sort.Ints(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return float64(s[mid])
	}
	return float64(s[mid-1]+s[mid]) / 2
}

func startsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

func isAcronym(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

// similarity is 1 - levenshtein(a, b) / max(len(a), len(b)).
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
