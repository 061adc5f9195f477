// Package catalog keeps a local history of export runs in a SQLite
// database. Recording is strictly best-effort: a catalog failure is logged
// by the caller and never aborts an export.
package catalog

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id         TEXT PRIMARY KEY,
	project    TEXT NOT NULL,
	source     TEXT NOT NULL,
	format     TEXT NOT NULL,
	idml_path  TEXT,
	pdf_path   TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS exports_project ON exports(project, created_at);
`

// Entry is one recorded export run.
type Entry struct {
	ID        string
	Project   string
	Source    string
	Format    string
	IDMLPath  string
	PDFPath   string
	CreatedAt time.Time
}

// Catalog wraps a single SQLite connection. Not safe for concurrent use;
// the orchestrator serializes access.
type Catalog struct {
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open creates or opens the catalog database at path and applies the
// schema.
func Open(path string, log *zap.Logger) (*Catalog, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("unable to open export catalog (%s): %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare export catalog schema: %w", err)
	}
	return &Catalog{conn: conn, log: log.Named("catalog")}, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

// Record inserts one export run.
func (c *Catalog) Record(e Entry) error {
	err := sqlitex.Execute(c.conn,
		`INSERT INTO exports (id, project, source, format, idml_path, pdf_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				e.ID, e.Project, e.Source, e.Format,
				e.IDMLPath, e.PDFPath,
				e.CreatedAt.UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return fmt.Errorf("unable to record export: %w", err)
	}
	c.log.Debug("Recorded export", zap.String("id", e.ID), zap.String("project", e.Project))
	return nil
}

// List returns recorded exports, newest first. A zero limit means all.
func (c *Catalog) List(limit int) ([]Entry, error) {
	query := `SELECT id, project, source, format, idml_path, pdf_path, created_at
		 FROM exports ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var entries []Entry
	err := sqlitex.Execute(c.conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			created, err := time.Parse(time.RFC3339, stmt.ColumnText(6))
			if err != nil {
				return fmt.Errorf("bad created_at for %s: %w", stmt.ColumnText(0), err)
			}
			entries = append(entries, Entry{
				ID:        stmt.ColumnText(0),
				Project:   stmt.ColumnText(1),
				Source:    stmt.ColumnText(2),
				Format:    stmt.ColumnText(3),
				IDMLPath:  stmt.ColumnText(4),
				PDFPath:   stmt.ColumnText(5),
				CreatedAt: created,
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read export catalog: %w", err)
	}
	return entries, nil
}
