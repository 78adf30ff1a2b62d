// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns transcripts delivered as documents (PDF, DOCX, RTF,
// HTML) into the plain-text form the pipeline reads. Conversion backends
// implement Converter; the markitdown backend runs in a container.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/medscribe/internal/transcript"
)

// Converter transforms a document into Markdown or plain text.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// documentExts are the extensions that need a Converter. Anything else is
// read as text.
var documentExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".odt":  true,
	".rtf":  true,
	".html": true,
	".htm":  true,
}

// NeedsConversion reports whether path must go through a Converter before
// it can be parsed as a transcript.
func NeedsConversion(path string) bool {
	return documentExts[strings.ToLower(filepath.Ext(path))]
}

// Status is the outcome of converting one document.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Options controls where converted transcripts are written.
type Options struct {
	// OutputDir receives <name>.txt files.
	OutputDir string

	// Force re-converts documents whose output already exists.
	Force bool
}

// ConvertFile converts the document at path and writes
// OutputDir/<name>.txt with frontmatter recording the source. Existing
// output is kept unless opts.Force is set.
func ConvertFile(ctx context.Context, c Converter, path string, opts Options, w io.Writer) Status {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(opts.OutputDir, base+".txt")

	if !opts.Force {
		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped:   %s (already exists)\n", base)
			return StatusSkipped
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed
	}

	raw, err := c.Convert(ctx, path)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed
	}

	content := addFrontmatter(path, Cleanup(raw))
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", base, outPath)
	return StatusConverted
}

// ConvertBatch converts each path, printing per-file status to w and
// returning a summary. It stops early if ctx is cancelled.
func ConvertBatch(ctx context.Context, c Converter, paths []string, opts Options, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}
		switch ConvertFile(ctx, c, p, opts, w) {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// Load parses the transcript at path, converting it first when it is a
// document. c may be nil when path is plain text.
func Load(ctx context.Context, c Converter, path string) (*transcript.Transcript, error) {
	if !NeedsConversion(path) {
		return transcript.Load(path)
	}
	if c == nil {
		return nil, fmt.Errorf("%s needs conversion but no converter is available", path)
	}
	raw, err := c.Convert(ctx, path)
	if err != nil {
		return nil, err
	}
	t, err := transcript.Parse(Cleanup(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing converted %s: %w", path, err)
	}
	if t.Meta.Source == "" {
		t.Meta.Source = path
	}
	return t, nil
}

var (
	mdHeading  = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	mdQuote    = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	mdBullet   = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	mdEmphasis = regexp.MustCompile(`\*\*|__`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	trailingWS = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Cleanup strips the Markdown markup converters add so that speaker labels
// such as "**Doctor:**" parse as plain labels.
func Cleanup(md string) string {
	s := strings.ReplaceAll(md, "\r\n", "\n")
	s = mdHeading.ReplaceAllString(s, "")
	s = mdQuote.ReplaceAllString(s, "")
	s = mdBullet.ReplaceAllString(s, "")
	s = mdEmphasis.ReplaceAllString(s, "")
	s = trailingWS.ReplaceAllString(s, "")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s) + "\n"
}

// addFrontmatter prepends YAML frontmatter recording the source document.
func addFrontmatter(source, body string) string {
	ts := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "source: %q\n", source)
	fmt.Fprintf(&b, "converted_at: %q\n", ts)
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String()
}
