// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package nlp wraps the part-of-speech and entity tagger used by the
// pipeline. Tagging is deferred until a caller first asks for tokens or
// entities, and runs at most once per document.
package nlp

import (
	"strings"
	"sync"

	"github.com/tsawler/prose/v3"
	"go.uber.org/zap"
)

// LabelPerson is the entity label for people.
const LabelPerson = "PERSON"

// Token is a word with its Penn Treebank part-of-speech tag.
type Token struct {
	Text string
	Tag  string
}

// Entity is a named entity span.
type Entity struct {
	Text  string
	Label string
}

// Tagger produces tokens and entities for a text. The prose-backed tagger
// is the production implementation; tests supply fixed annotations.
type Tagger interface {
	Tag(text string) ([]Token, []Entity, error)
}

// proseTagger tags text with the prose model bundled in the binary.
type proseTagger struct{}

func (proseTagger) Tag(text string) ([]Token, []Entity, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, nil, err
	}

	ptoks := doc.Tokens()
	tokens := make([]Token, len(ptoks))
	for i, t := range ptoks {
		tokens[i] = Token{Text: t.Text, Tag: t.Tag}
	}

	pents := doc.Entities()
	entities := make([]Entity, len(pents))
	for i, e := range pents {
		entities[i] = Entity{Text: e.Text, Label: strings.ToUpper(e.Label)}
	}
	return tokens, entities, nil
}

// Analyzer creates documents backed by a Tagger.
type Analyzer struct {
	tagger Tagger
	logger *zap.Logger
}

// NewAnalyzer returns an Analyzer using the prose tagger.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return NewAnalyzerWithTagger(proseTagger{}, logger)
}

// NewAnalyzerWithTagger returns an Analyzer using t.
func NewAnalyzerWithTagger(t Tagger, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{tagger: t, logger: logger}
}

// Parse wraps text in a Doc. No tagging happens until it is needed.
func (a *Analyzer) Parse(text string) *Doc {
	return &Doc{text: text, tagger: a.tagger, logger: a.logger}
}

// Doc is a text with lazily computed annotations. It is safe for
// concurrent use.
type Doc struct {
	text   string
	tagger Tagger
	logger *zap.Logger

	once     sync.Once
	tokens   []Token
	entities []Entity
}

// Text returns the original text.
func (d *Doc) Text() string { return d.text }

// Lower returns the lower-cased text.
func (d *Doc) Lower() string { return strings.ToLower(d.text) }

func (d *Doc) annotate() {
	d.once.Do(func() {
		if d.tagger == nil {
			return
		}
		tokens, entities, err := d.tagger.Tag(d.text)
		if err != nil {
			d.logger.Warn("tagging failed, continuing without annotations", zap.Error(err))
			return
		}
		d.tokens = tokens
		d.entities = entities
	})
}

// Tokens returns the tagged tokens.
func (d *Doc) Tokens() []Token {
	d.annotate()
	return d.tokens
}

// Entities returns the named entities in order of appearance.
func (d *Doc) Entities() []Entity {
	d.annotate()
	return d.entities
}

// FirstPerson returns the text of the first PERSON entity, or "".
// Entities containing any of the skip words (compared case-insensitively)
// are passed over.
func (d *Doc) FirstPerson(skip ...string) string {
	for _, e := range d.Entities() {
		if e.Label != LabelPerson || containsWord(e.Text, skip) {
			continue
		}
		return strings.TrimSpace(e.Text)
	}
	return ""
}

func containsWord(text string, words []string) bool {
	for _, f := range strings.Fields(text) {
		f = strings.Trim(f, ".,:;")
		for _, w := range words {
			if strings.EqualFold(f, w) {
				return true
			}
		}
	}
	return false
}
