// Package archive persists which playlist videos have already been seen, so
// repeated listings of the same playlist can report only new entries.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ytls/internal/playlist"
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_videos (
    playlist_id TEXT NOT NULL,
    watch_url   TEXT NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    added_at    TEXT NOT NULL,
    PRIMARY KEY (playlist_id, watch_url)
);
`

// Store manages seen-video persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the archive database at path, creating
// parent directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Seen reports whether the watch URL has already been recorded for the
// playlist.
func (s *Store) Seen(ctx context.Context, playlistID, watchURL string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM seen_videos WHERE playlist_id = ? AND watch_url = ?`,
		playlistID, watchURL,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query seen: %w", err)
	}
	return n > 0, nil
}

// Record stores the entries for a playlist, ignoring ones already present.
// It returns how many entries were newly recorded.
func (s *Store) Record(ctx context.Context, playlistID string, entries []playlist.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin record: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	added := 0
	for _, entry := range entries {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO seen_videos (playlist_id, watch_url, title, added_at)
             VALUES (?, ?, ?, ?)`,
			playlistID, entry.URL, entry.Title, now,
		)
		if err != nil {
			return 0, fmt.Errorf("record entry %s: %w", entry.URL, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record: %w", err)
	}
	return added, nil
}

// FilterNew returns the subset of entries not yet recorded for the playlist,
// preserving order.
func (s *Store) FilterNew(ctx context.Context, playlistID string, entries []playlist.Entry) ([]playlist.Entry, error) {
	fresh := make([]playlist.Entry, 0, len(entries))
	for _, entry := range entries {
		seen, err := s.Seen(ctx, playlistID, entry.URL)
		if err != nil {
			return nil, err
		}
		if !seen {
			fresh = append(fresh, entry)
		}
	}
	return fresh, nil
}
