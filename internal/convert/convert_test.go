// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/medscribe/internal/transcript"
)

// fakeConverter implements Converter for testing. It returns canned text
// or an error, depending on configuration.
type fakeConverter struct {
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Convert(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// setupDoc creates a temporary document and returns its path and the output dir.
func setupDoc(t *testing.T, name string) (docPath, outDir string) {
	t.Helper()
	tmpDir := t.TempDir()
	docPath = filepath.Join(tmpDir, name)
	if err := os.WriteFile(docPath, []byte("fake document"), 0o644); err != nil {
		t.Fatal(err)
	}
	return docPath, filepath.Join(tmpDir, "transcripts")
}

const markitdownOutput = "# Consultation\n\n**Physician:** Good morning, Ms. Jones.\n\n**Patient:** My neck still hurts.\n"

func TestNeedsConversion(t *testing.T) {
	tests := map[string]bool{
		"visit.pdf":       true,
		"visit.DOCX":      true,
		"notes/visit.rtf": true,
		"visit.html":      true,
		"visit.txt":       false,
		"visit.md":        false,
		"visit":           false,
		"-":               false,
	}
	for path, want := range tests {
		if got := NeedsConversion(path); got != want {
			t.Errorf("NeedsConversion(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		preCreate  bool
		force      bool
		wantStatus Status
		wantLog    string
		wantCalls  int
	}{
		{
			name:       "successful conversion",
			converter:  &fakeConverter{output: markitdownOutput},
			wantStatus: StatusConverted,
			wantLog:    "converted:",
			wantCalls:  1,
		},
		{
			name:       "skip existing output",
			converter:  &fakeConverter{output: "should not be called"},
			preCreate:  true,
			wantStatus: StatusSkipped,
			wantLog:    "skipped:",
		},
		{
			name:       "force overwrites existing output",
			converter:  &fakeConverter{output: markitdownOutput},
			preCreate:  true,
			force:      true,
			wantStatus: StatusConverted,
			wantLog:    "converted:",
			wantCalls:  1,
		},
		{
			name:       "conversion failure",
			converter:  &fakeConverter{err: errors.New("container crashed")},
			wantStatus: StatusFailed,
			wantLog:    "container crashed",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docPath, outDir := setupDoc(t, "visit-0301.pdf")

			if tt.preCreate {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(outDir, "visit-0301.txt"), []byte("existing"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			var log bytes.Buffer
			status := ConvertFile(context.Background(), tt.converter, docPath, Options{OutputDir: outDir, Force: tt.force}, &log)

			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if !strings.Contains(log.String(), tt.wantLog) {
				t.Errorf("log output %q does not contain %q", log.String(), tt.wantLog)
			}
			if tt.converter.calls != tt.wantCalls {
				t.Errorf("converter called %d times, want %d", tt.converter.calls, tt.wantCalls)
			}
		})
	}
}

func TestConvertFile_OutputParsesAsTranscript(t *testing.T) {
	docPath, outDir := setupDoc(t, "visit.docx")
	conv := &fakeConverter{output: markitdownOutput}

	if status := ConvertFile(context.Background(), conv, docPath, Options{OutputDir: outDir}, io.Discard); status != StatusConverted {
		t.Fatalf("expected StatusConverted, got %q", status)
	}

	outPath := filepath.Join(outDir, "visit.txt")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "---\n") {
		t.Error("output should start with YAML frontmatter delimiter")
	}
	if !strings.Contains(content, "converted_at:") {
		t.Error("frontmatter should contain converted_at")
	}
	if strings.Contains(content, "**") {
		t.Error("Markdown emphasis should be stripped")
	}

	tr, err := transcript.Load(outPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tr.Meta.Source != docPath {
		t.Errorf("Source = %q, want %q", tr.Meta.Source, docPath)
	}
	if got := tr.PatientText(); got != "My neck still hurts." {
		t.Errorf("PatientText = %q", got)
	}
}

func TestConvertBatch(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "transcripts")

	// a converts, b already has output, c fails.
	var paths []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte("pdf"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "b.txt"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	conv := &selectiveConverter{
		outputs: map[string]string{paths[0]: "Patient: a", paths[1]: "Patient: b"},
		errors:  map[string]error{paths[2]: errors.New("bad pdf")},
	}

	var log bytes.Buffer
	result := ConvertBatch(context.Background(), conv, paths, Options{OutputDir: outDir}, &log)

	if result.Converted != 1 {
		t.Errorf("converted = %d, want 1", result.Converted)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 3 {
		t.Errorf("total = %d, want 3", result.Total())
	}
	if !strings.Contains(log.String(), "Batch summary:") {
		t.Error("batch output should contain summary line")
	}
}

func TestConvertBatch_Cancelled(t *testing.T) {
	docPath, outDir := setupDoc(t, "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &fakeConverter{output: "Patient: hi"}
	result := ConvertBatch(ctx, conv, []string{docPath}, Options{OutputDir: outDir}, io.Discard)
	if result.Total() != 0 || conv.calls != 0 {
		t.Errorf("cancelled batch processed %d documents", result.Total())
	}
}

func TestLoad(t *testing.T) {
	docPath, _ := setupDoc(t, "visit.pdf")

	tr, err := Load(context.Background(), &fakeConverter{output: markitdownOutput}, docPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// The "Consultation" heading becomes a leading unlabeled turn.
	if len(tr.Turns) != 3 {
		t.Errorf("got %d turns, want 3", len(tr.Turns))
	}
	if tr.Meta.Source != docPath {
		t.Errorf("Source = %q", tr.Meta.Source)
	}

	if _, err := Load(context.Background(), nil, docPath); err == nil {
		t.Error("expected error converting without a converter")
	}

	txt := filepath.Join(t.TempDir(), "visit.txt")
	if err := os.WriteFile(txt, []byte("Patient: plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, err = Load(context.Background(), nil, txt)
	if err != nil {
		t.Fatalf("Load(txt): %v", err)
	}
	if tr.PatientText() != "plain text" {
		t.Errorf("PatientText = %q", tr.PatientText())
	}
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold labels", "**Doctor:** Hello.", "Doctor: Hello.\n"},
		{"headings", "## Visit notes\nPatient: hi", "Visit notes\nPatient: hi\n"},
		{"quotes and bullets", "> Patient: hi\n- Doctor: ok", "Patient: hi\nDoctor: ok\n"},
		{"blank runs", "a\n\n\n\nb", "a\n\nb\n"},
		{"crlf", "a  \r\nb", "a\nb\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cleanup(tt.in); got != tt.want {
				t.Errorf("Cleanup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// selectiveConverter returns different results per file path.
type selectiveConverter struct {
	outputs map[string]string
	errors  map[string]error
}

func (s *selectiveConverter) Convert(_ context.Context, path string) (string, error) {
	if err, ok := s.errors[path]; ok {
		return "", err
	}
	if out, ok := s.outputs[path]; ok {
		return out, nil
	}
	return "", errors.New("unexpected path: " + path)
}
