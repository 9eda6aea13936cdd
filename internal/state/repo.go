package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PageRow represents a row in the pages table.
type PageRow struct {
	OutputPath  string
	Category    string
	SourcePath  string
	Title       string
	Description string
	Checksum    string
	Tags        []string
	Difficulty  string
	SyncedAt    time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	OutputPath string
	Title      string
	Snippet    string
}

// UpsertPage inserts or replaces a page row and its FTS entry within a
// transaction. body is the rendered page content used for search.
func (db *DB) UpsertPage(p PageRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("state: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(p.Tags)

	// Upsert pages table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO pages (output_path, category, source_path, title, description, checksum, tags, difficulty, body, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(output_path) DO UPDATE SET
			category    = excluded.category,
			source_path = excluded.source_path,
			title       = excluded.title,
			description = excluded.description,
			checksum    = excluded.checksum,
			tags        = excluded.tags,
			difficulty  = excluded.difficulty,
			body        = excluded.body,
			synced_at   = excluded.synced_at
	`, p.OutputPath, p.Category, p.SourcePath, p.Title, p.Description, p.Checksum, string(tagsJSON), p.Difficulty, body, p.SyncedAt)
	if err != nil {
		return fmt.Errorf("state: upsert page: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, p.OutputPath, p.Title, body, p.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePage removes a page row and its FTS entry.
func (db *DB) DeletePage(outputPath string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("state: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM pages WHERE output_path = ?`, outputPath); err != nil {
		return fmt.Errorf("state: delete page: %w", err)
	}
	ftsDelete(tx, outputPath)

	return tx.Commit()
}

// GetPage returns a single page row, or nil when none exists.
func (db *DB) GetPage(outputPath string) (*PageRow, error) {
	row := db.conn.QueryRow(`
		SELECT output_path, category, source_path, title, description, checksum, tags, difficulty, synced_at
		FROM pages WHERE output_path = ?
	`, outputPath)
	p, err := scanPage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("state: get page: %w", err)
	}
	return p, nil
}

// ListPages returns paginated page rows with optional category and tag
// filters. sort is one of "synced_at", "title", or "output_path".
func (db *DB) ListPages(limit, offset int, category, tag, sort string) ([]PageRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	where := "1=1"
	args := []any{}
	if category != "" {
		where += " AND category = ?"
		args = append(args, category)
	}
	if tag != "" {
		// Tags are stored as a JSON array of strings.
		where += ` AND tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	order := "synced_at DESC"
	switch sort {
	case "title":
		order = "title COLLATE NOCASE ASC"
	case "output_path":
		order = "output_path ASC"
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("state: count pages: %w", err)
	}

	query := `
		SELECT output_path, category, source_path, title, description, checksum, tags, difficulty, synced_at
		FROM pages WHERE ` + where + ` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("state: list pages: %w", err)
	}
	defer rows.Close()

	var out []PageRow
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

// SourceChecksums returns source_path → checksum for every page in the given
// category, or all pages when category is empty.
func (db *DB) SourceChecksums(category string) (map[string]string, error) {
	query := `SELECT source_path, checksum FROM pages`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("state: source checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var src, cs string
		if err := rows.Scan(&src, &cs); err != nil {
			return nil, err
		}
		out[src] = cs
	}
	return out, rows.Err()
}

// OutputBySource returns source_path → output_path for every page in the
// given category. Used by the pruning pass.
func (db *DB) OutputBySource(category string) (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT source_path, output_path FROM pages WHERE category = ?`, category)
	if err != nil {
		return nil, fmt.Errorf("state: outputs by source: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var src, op string
		if err := rows.Scan(&src, &op); err != nil {
			return nil, err
		}
		out[src] = op
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(r rowScanner) (*PageRow, error) {
	var p PageRow
	var tagsJSON string
	if err := r.Scan(&p.OutputPath, &p.Category, &p.SourcePath, &p.Title, &p.Description, &p.Checksum, &tagsJSON, &p.Difficulty, &p.SyncedAt); err != nil {
		return nil, err
	}
	if tagsJSON != "" {
		_ = json.Unmarshal([]byte(tagsJSON), &p.Tags)
	}
	return &p, nil
}
