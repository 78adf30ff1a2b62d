// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nlp

import "strings"

// NounChunks returns base noun phrases in order of appearance. A chunk is
// an optional determiner or possessive pronoun, any number of adjectives,
// and one or more nouns.
func (d *Doc) NounChunks() []string {
	return nounChunks(d.Tokens())
}

func nounChunks(tokens []Token) []string {
	var chunks []string

	for i := 0; i < len(tokens); {
		j := i
		if j < len(tokens) && isDeterminer(tokens[j].Tag) {
			j++
		}
		for j < len(tokens) && isAdjective(tokens[j].Tag) {
			j++
		}
		nounStart := j
		for j < len(tokens) && isNoun(tokens[j].Tag) {
			j++
		}

		if j == nounStart {
			i++
			continue
		}

		words := make([]string, 0, j-i)
		for _, t := range tokens[i:j] {
			words = append(words, t.Text)
		}
		chunks = append(chunks, strings.Join(words, " "))
		i = j
	}

	return chunks
}

func isDeterminer(tag string) bool {
	return tag == "DT" || tag == "PDT" || tag == "PRP$" || tag == "WP$"
}

func isAdjective(tag string) bool {
	return tag == "JJ" || tag == "JJR" || tag == "JJS"
}

func isNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}
