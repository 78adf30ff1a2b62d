// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/medscribe/pkg/types"
)

// QueryOptions holds archive search parameters. All filters combine with
// AND semantics; an empty QueryOptions lists every record.
type QueryOptions struct {
	// Query matches a substring of the transcript or patient name,
	// case-insensitively.
	Query string

	// Patient matches a substring of the patient name.
	Patient string

	// Diagnosis matches the diagnosis exactly, ignoring case.
	Diagnosis string

	// Keyword requires an extracted keyword equal to this value.
	Keyword string

	// Symptom requires an extracted symptom equal to this value.
	Symptom string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Patient == "" && q.Diagnosis == "" && q.Keyword == "" && q.Symptom == ""
}

// Search returns matching records, newest first.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]types.Record, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + recordColumns + ` FROM records r WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND (r.transcript LIKE ? ESCAPE '\' OR r.patient LIKE ? ESCAPE '\')`)
		pattern := likePattern(opts.Query)
		args = append(args, pattern, pattern)
	}
	if opts.Patient != "" {
		qb.WriteString(` AND r.patient LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(opts.Patient))
	}
	if opts.Diagnosis != "" {
		qb.WriteString(` AND r.diagnosis = ? COLLATE NOCASE`)
		args = append(args, opts.Diagnosis)
	}
	if opts.Keyword != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM record_keywords k WHERE k.record_id = r.id AND k.keyword = ?)`)
		args = append(args, strings.ToLower(opts.Keyword))
	}
	if opts.Symptom != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM record_symptoms y WHERE y.record_id = r.id AND y.symptom = ?)`)
		args = append(args, strings.ToLower(opts.Symptom))
	}

	qb.WriteString(` ORDER BY r.created_at DESC, r.id LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []types.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *rec)
	}
	return results, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
