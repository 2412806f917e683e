// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds an in-memory SQLite index over a loaded document
// set so annotations can be searched across a whole corpus by text, type,
// normalized identifier, or document. The database lives only as long as
// the Index value; nothing is written to disk.
package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

const defaultMaxResults = 20

// Index is an ephemeral query index over documents and annotations.
type Index struct {
	db         *sql.DB
	fts        bool
	maxResults int
}

// Open creates an empty in-memory index. Full-text search uses FTS5 when
// the SQLite build provides it and falls back to LIKE matching otherwise.
func Open(ctx context.Context, cfg types.QueryConfig) (*Index, error) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	x := &Index{db: db, maxResults: maxResults}
	if err := x.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return x, nil
}

// Close releases the database.
func (x *Index) Close() error {
	return x.db.Close()
}

// FullText reports whether FTS5 ranking is available.
func (x *Index) FullText() bool {
	return x.fts
}

func (x *Index) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE documents (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			title TEXT,
			abstract TEXT
		)`,
		`CREATE INDEX idx_documents_id ON documents(id)`,
		`CREATE TABLE annotations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_position INTEGER NOT NULL REFERENCES documents(position),
			doc_id TEXT NOT NULL,
			key INTEGER,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			text TEXT NOT NULL,
			type TEXT NOT NULL,
			normalized_id TEXT
		)`,
		`CREATE INDEX idx_annotations_type ON annotations(type)`,
		`CREATE INDEX idx_annotations_doc ON annotations(doc_id)`,
		`CREATE INDEX idx_annotations_norm ON annotations(normalized_id)`,
	}
	for _, stmt := range statements {
		if _, err := x.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 is a compile-time option of the driver; without it the index
	// still works through LIKE.
	if _, err := x.db.ExecContext(ctx,
		`CREATE VIRTUAL TABLE annotations_fts USING fts5(text, content=annotations, content_rowid=rowid)`,
	); err != nil {
		return nil
	}
	if _, err := x.db.ExecContext(ctx,
		`CREATE TRIGGER annotations_ai AFTER INSERT ON annotations BEGIN
			INSERT INTO annotations_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
	); err != nil {
		return fmt.Errorf("creating FTS trigger: %w", err)
	}
	x.fts = true
	return nil
}

// LoadSummary counts what Load inserted.
type LoadSummary struct {
	Documents   int
	Annotations int
}

// Load inserts docs in one transaction. Documents keep their position in
// the slice, so repeated ids remain distinguishable.
func (x *Index) Load(ctx context.Context, docs []types.Document) (LoadSummary, error) {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var base int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM documents`).Scan(&base); err != nil {
		return LoadSummary{}, fmt.Errorf("reading document count: %w", err)
	}

	docStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (position, id, title, abstract) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("preparing document insert: %w", err)
	}
	defer docStmt.Close()

	annStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO annotations (doc_position, doc_id, key, start_offset, end_offset, text, type, normalized_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("preparing annotation insert: %w", err)
	}
	defer annStmt.Close()

	var summary LoadSummary
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return LoadSummary{}, err
		}
		d := &docs[i]
		pos := base + i
		if _, err := docStmt.ExecContext(ctx, pos, d.ID, d.Title, d.Abstract); err != nil {
			return LoadSummary{}, fmt.Errorf("inserting document %s: %w", d.ID, err)
		}
		summary.Documents++

		for _, a := range d.Annotations {
			var norm sql.NullString
			if a.NormalizedID != nil {
				norm = sql.NullString{String: *a.NormalizedID, Valid: true}
			}
			if _, err := annStmt.ExecContext(ctx,
				pos, d.ID, a.Key, a.Start, a.End, a.Text, a.Type, norm,
			); err != nil {
				return LoadSummary{}, fmt.Errorf("inserting annotation %s [%d,%d): %w", d.ID, a.Start, a.End, err)
			}
			summary.Annotations++
		}
	}

	if err := tx.Commit(); err != nil {
		return LoadSummary{}, fmt.Errorf("committing: %w", err)
	}
	return summary, nil
}
