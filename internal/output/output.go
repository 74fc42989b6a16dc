// Package output renders a built playlist as a plain-text or JSON listing.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ytls/internal/playlist"
)

// Document is the JSON form of a playlist listing.
type Document struct {
	ID         string           `json:"id"`
	URL        string           `json:"url"`
	Title      string           `json:"title,omitempty"`
	LastUpdate string           `json:"last_update,omitempty"`
	Count      int              `json:"count"`
	Videos     []playlist.Entry `json:"videos"`
}

// WriteText writes the entries as tab-separated "url<TAB>title" lines.
func WriteText(w io.Writer, entries []playlist.Entry) error {
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", entry.URL, entry.Title); err != nil {
			return fmt.Errorf("write listing: %w", err)
		}
	}
	return nil
}

// WriteJSON writes the playlist as an indented JSON document. The entries are
// passed separately so callers can emit a filtered subset while keeping the
// playlist metadata.
func WriteJSON(w io.Writer, p *playlist.Playlist, entries []playlist.Entry) error {
	doc := Document{
		ID:     p.ID,
		URL:    p.URL,
		Title:  p.Title,
		Count:  len(entries),
		Videos: entries,
	}
	if !p.LastUpdate.IsZero() {
		doc.LastUpdate = p.LastUpdate.Format("2006-01-02")
	}
	if doc.Videos == nil {
		doc.Videos = []playlist.Entry{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}
	return nil
}

// Create opens the destination for a listing. An empty path or "-" selects
// stdout; otherwise parent directories are created and the file is truncated.
func Create(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
