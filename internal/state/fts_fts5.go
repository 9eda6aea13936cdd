//go:build sqlite_fts5

package state

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
			output_path UNINDEXED,
			title,
			body,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, outputPath, title, body string, tags []string) error {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE output_path = ?`, outputPath)
	_, err := tx.Exec(`INSERT INTO pages_fts (output_path, title, body, tags) VALUES (?, ?, ?, ?)`,
		outputPath, title, body, strings.Join(tags, " "))
	if err != nil {
		return fmt.Errorf("state: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, outputPath string) {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE output_path = ?`, outputPath)
}

// Search performs an FTS5 full-text search and returns matching pages with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT output_path,
		       title,
		       snippet(pages_fts, 2, '<b>', '</b>', '...', 64)
		FROM pages_fts
		WHERE pages_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("state: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.OutputPath, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
