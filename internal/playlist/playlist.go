// Package playlist implements the playlist listing engine: it discovers the
// initial listing data embedded in a playlist page, follows the continuation
// chain until the listing is exhausted, and merges every page into one
// ordered, deduplicated collection of watch URL / title pairs.
package playlist

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	titlePattern      = regexp.MustCompile(`<title>(.+?)</title>`)
	lastUpdatePattern = regexp.MustCompile(`<li>Last updated on (\w{3}) (\d{1,2}), (\d{4})</li>`)
)

// Options configures a playlist build.
type Options struct {
	// Limiter, when set, is waited on before every continuation request.
	Limiter *rate.Limiter

	// MaxPages caps the number of pages fetched as a guard against a remote
	// response that never stops issuing tokens. Zero means no cap.
	MaxPages int

	// Logger receives debug output for each continuation request.
	Logger *zerolog.Logger
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// Stats describes how a build went: pages processed, entries encountered and
// duplicates dropped across pages.
type Stats struct {
	Pages      int
	Seen       int
	Duplicates int
}

// Playlist is the materialized result of draining a listing's pagination.
// It is built once by Build and immutable afterwards.
type Playlist struct {
	ID  string
	URL string

	// Title and LastUpdate are parsed from the first page independently of
	// pagination; their zero values mean the page did not carry them.
	Title      string
	LastUpdate time.Time

	entries []Entry
	stats   Stats
}

// Build fetches the playlist page for urlOrID, drains the continuation chain
// and returns the merged playlist.
//
// On a mid-pagination failure the returned playlist is still non-nil and
// holds every entry accumulated before the failure, alongside the error.
// A nil error means the listing genuinely ended.
func Build(ctx context.Context, urlOrID string, f Fetcher, opts Options) (*Playlist, error) {
	id := ResolveID(urlOrID)
	listing := CanonicalURL(id)

	doc, err := f.Fetch(ctx, listing, nil)
	if err != nil {
		return nil, &FetchError{URL: listing, Err: err}
	}

	p := &Playlist{
		ID:  id,
		URL: listing,
	}
	p.Title = pageTitle(doc)
	p.LastUpdate = pageLastUpdate(doc)

	seen := make(map[string]bool)
	pager := newPager(doc, f, opts)
	for {
		page, ok, err := pager.Next(ctx)
		if err != nil {
			return p, err
		}
		if !ok {
			break
		}

		p.stats.Pages++
		for _, entry := range page.Entries {
			p.stats.Seen++
			if seen[entry.URL] {
				p.stats.Duplicates++
				continue
			}
			seen[entry.URL] = true
			p.entries = append(p.entries, entry)
		}
	}

	return p, nil
}

// Entries returns the playlist's videos in first-seen order. No two entries
// share a watch URL.
func (p *Playlist) Entries() []Entry { return p.entries }

// Len returns the number of unique videos in the playlist.
func (p *Playlist) Len() int { return len(p.entries) }

// Stats returns pagination statistics for the build.
func (p *Playlist) Stats() Stats { return p.stats }

// ResolveID extracts the playlist identifier from a playlist URL. Inputs
// that carry no list query parameter are taken to be the identifier itself.
func ResolveID(urlOrID string) string {
	q := urlOrID
	if i := strings.IndexByte(q, '?'); i != -1 {
		q = q[i+1:]
	} else if !strings.Contains(q, "=") {
		return urlOrID
	}
	values, err := url.ParseQuery(q)
	if err != nil {
		return urlOrID
	}
	if id := values.Get("list"); id != "" {
		return id
	}
	return urlOrID
}

// CanonicalURL returns the stable listing URL for a playlist identifier.
func CanonicalURL(id string) string {
	return siteBase + "/playlist?list=" + url.QueryEscape(id)
}

// pageTitle extracts the playlist title from the document title, minus the
// site suffix. An empty result means the page carried no usable title.
func pageTitle(doc string) string {
	m := titlePattern.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(m[1], "- YouTube", ""))
}

// pageLastUpdate extracts the listing's last-update date. The zero time means
// the page carried none.
func pageLastUpdate(doc string) time.Time {
	m := lastUpdatePattern.FindStringSubmatch(doc)
	if m == nil {
		return time.Time{}
	}
	t, err := time.Parse("Jan 2 2006", fmt.Sprintf("%s %s %s", m[1], m[2], m[3]))
	if err != nil {
		return time.Time{}
	}
	return t
}
