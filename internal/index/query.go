// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

// QueryOptions holds parameters for annotation queries.
type QueryOptions struct {
	// Text matches annotation text: an FTS5 phrase when available,
	// otherwise a case-insensitive substring.
	Text string

	// Type filters by entity type (exact match).
	Type string

	// NormalizedID filters by ontology identifier (exact match).
	NormalizedID string

	// DocumentID filters by document.
	DocumentID string

	// MaxResults limits result count. Zero uses the index default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Text == "" && q.Type == "" && q.NormalizedID == "" && q.DocumentID == ""
}

// QueryResult is an annotation with its document title.
type QueryResult struct {
	types.Annotation
	DocumentTitle string `json:"document_title" yaml:"document_title"`
}

// Query searches annotations. Full-text queries are ranked by relevance;
// otherwise results follow document order, then start offset.
func (x *Index) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = x.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Text != "" && x.fts
	)

	if useFTS {
		qb.WriteString(
			`SELECT a.doc_id, a.key, a.start_offset, a.end_offset, a.text, a.type, a.normalized_id, d.title
			FROM annotations_fts
			JOIN annotations a ON a.rowid = annotations_fts.rowid
			JOIN documents d ON d.position = a.doc_position
			WHERE annotations_fts MATCH ?`)
		args = append(args, ftsPhrase(opts.Text))
	} else {
		qb.WriteString(
			`SELECT a.doc_id, a.key, a.start_offset, a.end_offset, a.text, a.type, a.normalized_id, d.title
			FROM annotations a
			JOIN documents d ON d.position = a.doc_position
			WHERE 1=1`)
		if opts.Text != "" {
			qb.WriteString(` AND a.text LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(opts.Text)+"%")
		}
	}

	if opts.Type != "" {
		qb.WriteString(` AND a.type = ?`)
		args = append(args, opts.Type)
	}
	if opts.NormalizedID != "" {
		qb.WriteString(` AND a.normalized_id = ?`)
		args = append(args, opts.NormalizedID)
	}
	if opts.DocumentID != "" {
		qb.WriteString(` AND a.doc_id = ?`)
		args = append(args, opts.DocumentID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY annotations_fts.rank, a.doc_position, a.start_offset`)
	} else {
		qb.WriteString(` ORDER BY a.doc_position, a.start_offset, a.rowid`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := x.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr    QueryResult
			norm  sql.NullString
			title sql.NullString
		)
		if err := rows.Scan(
			&qr.ID, &qr.Key, &qr.Start, &qr.End, &qr.Text, &qr.Type, &norm, &title,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if norm.Valid {
			qr.NormalizedID = types.StringPtr(norm.String)
		}
		qr.DocumentTitle = title.String
		results = append(results, qr)
	}
	return results, rows.Err()
}

// TypeCount summarizes one entity type across the index.
type TypeCount struct {
	Type        string `json:"type" yaml:"type"`
	Annotations int    `json:"annotations" yaml:"annotations"`
	Documents   int    `json:"documents" yaml:"documents"`
	Distinct    int    `json:"distinct_texts" yaml:"distinct_texts"`
}

// TypeCounts returns per-type annotation statistics ordered by type.
// Distinct counts case-insensitively distinct annotation texts.
func (x *Index) TypeCounts(ctx context.Context) ([]TypeCount, error) {
	rows, err := x.db.QueryContext(ctx,
		`SELECT type, COUNT(*), COUNT(DISTINCT doc_position), COUNT(DISTINCT lower(text))
		 FROM annotations GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("counting types: %w", err)
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Annotations, &tc.Documents, &tc.Distinct); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// ftsPhrase quotes s as a single FTS5 phrase so user input cannot inject
// query operators.
func ftsPhrase(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
