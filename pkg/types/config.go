// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by backends that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "medscribe/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for backends that call a hosted model API.
type AIConfig struct {
	// Model is the model identifier (e.g. "claude-haiku-4-5", "gemini-2.5-flash-lite").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// KeywordStrategy selects the keyword extraction algorithm.
type KeywordStrategy string

const (
	// KeywordsAuto tries YAKE first and falls back to noun chunks.
	KeywordsAuto   KeywordStrategy = "auto"
	KeywordsYAKE   KeywordStrategy = "yake"
	KeywordsChunks KeywordStrategy = "chunks"
)

// KeywordConfig holds settings for keyword extraction.
type KeywordConfig struct {
	// Strategy selects yake, chunks, or auto (default auto).
	Strategy KeywordStrategy `json:"strategy" yaml:"strategy"`

	// TopK is the number of keywords attached to a summary (default 8).
	TopK int `json:"top_k" yaml:"top_k"`

	// MaxNGram is the longest YAKE candidate in tokens (default 3).
	MaxNGram int `json:"max_ngram" yaml:"max_ngram"`
}

// SentimentBackend identifies the sentiment classifier.
type SentimentBackend string

const (
	BackendClaude  SentimentBackend = "claude"
	BackendGemini  SentimentBackend = "gemini"
	BackendLexicon SentimentBackend = "lexicon"
	BackendNone    SentimentBackend = "none"
)

// SentimentConfig holds settings for the sentiment stage.
type SentimentConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// Backend selects claude, gemini, lexicon, or none (default lexicon).
	Backend SentimentBackend `json:"backend" yaml:"backend"`

	// MaxChars truncates the text sent to the classifier (default 512).
	MaxChars int `json:"max_chars" yaml:"max_chars"`
}

// ArchiveConfig holds settings for the report archive.
type ArchiveConfig struct {
	// Dir is the directory holding medscribe.db and export files (default "archive").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ConvertConfig holds settings for converting PDF, DOCX and similar
// documents into plain-text transcripts.
type ConvertConfig struct {
	// Runtime is "docker", "podman", or "" to detect.
	Runtime string `json:"runtime,omitempty" yaml:"runtime,omitempty"`

	// Image is the markitdown container image (default "markitdown:latest").
	Image string `json:"image" yaml:"image"`

	// OutputDir receives converted transcripts (default "transcripts").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Keywords  KeywordConfig   `json:"keywords" yaml:"keywords"`
	Sentiment SentimentConfig `json:"sentiment" yaml:"sentiment"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
	Convert   ConvertConfig   `json:"convert" yaml:"convert"`
}

// DefaultPipelineConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Keywords: KeywordConfig{
			Strategy: KeywordsAuto,
			TopK:     8,
			MaxNGram: 3,
		},
		Sentiment: SentimentConfig{
			AIConfig:   AIConfig{MaxRetries: 3},
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: "medscribe/0.1"},
			Backend:    BackendLexicon,
			MaxChars:   512,
		},
		Archive: ArchiveConfig{
			Dir:        "archive",
			MaxResults: 20,
		},
		Convert: ConvertConfig{
			Image:     "markitdown:latest",
			OutputDir: "transcripts",
		},
	}
}
