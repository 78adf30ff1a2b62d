// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/medscribe/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes matching records to dir/export.yaml and returns the
// file path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching records to dir/export.json and returns the
// file path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]types.Record, error) {
	opts.MaxResults = exportLimit
	records, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []types.Record{}
	}
	return records, nil
}

// ImportSummary holds counts from an import run.
type ImportSummary struct {
	Imported int
	Updated  int
	Skipped  int
	Failed   int
}

// Total returns the number of records processed.
func (s ImportSummary) Total() int {
	return s.Imported + s.Updated + s.Skipped + s.Failed
}

// Import loads records from an export file (.yaml, .yml or .json).
// A record replaces the archived copy only when it is strictly newer;
// same-age and older copies are skipped. Progress lines are written to w.
func (s *Store) Import(ctx context.Context, path string, w io.Writer) (ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []types.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		return ImportSummary{}, fmt.Errorf("unsupported import format %q: use .yaml or .json", filepath.Ext(path))
	}
	if err != nil {
		return ImportSummary{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	var summary ImportSummary
	for i := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rec := &records[i]
		if rec.Transcript == "" {
			fmt.Fprintf(w, "failed   record %d: empty transcript\n", i)
			summary.Failed++
			continue
		}
		if rec.ID == "" {
			rec.ID = RecordID(rec.Transcript)
		}

		if existing, err := s.Get(ctx, rec.ID); err == nil && !newer(rec.CreatedAt, existing.CreatedAt) {
			fmt.Fprintf(w, "skipped  %s\n", rec.ID)
			summary.Skipped++
			continue
		}

		updated, err := s.Save(ctx, rec)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", rec.ID, err)
			summary.Failed++
			continue
		}
		if updated {
			fmt.Fprintf(w, "updated  %s (%s)\n", rec.ID, rec.Patient)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "imported %s (%s)\n", rec.ID, rec.Patient)
			summary.Imported++
		}
	}

	fmt.Fprintf(w, "\nimported: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Imported, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

// newer reports whether a is later than b. Times are compared at
// microsecond precision so values read back from an export file match.
func newer(a, b time.Time) bool {
	return a.UTC().Truncate(time.Microsecond).After(b.UTC().Truncate(time.Microsecond))
}
