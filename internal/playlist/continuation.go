package playlist

import (
	"html"
	"net/url"
)

const (
	siteBase       = "https://www.youtube.com"
	browseEndpoint = siteBase + "/browse_ajax"

	// Protocol constants for the browse_ajax endpoint. The remote service
	// matches these against known web client versions; there is no discovery
	// mechanism, so pagination silently stops working if they are deprecated.
	clientNameHeader    = "X-YouTube-Client-Name"
	clientVersionHeader = "X-YouTube-Client-Version"
	clientName          = "1"
	clientVersion       = "2.20200720.00.02"
)

// Entry is a single video reference extracted from a listing page.
// Identity is the watch URL; the title is informational only.
type Entry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Page is one page of listing results: the entries it contributed and the
// continuation token for the next page, if any. An empty Continuation means
// the listing ends here.
type Page struct {
	Entries      []Entry
	Continuation string
}

// ParsePage extracts entries and a continuation token from a decoded listing
// value of either recognized shape.
//
// The initial-page shape is tried first; on any lookup failure the
// continuation-response shape is tried. If neither matches, the page
// contributes nothing — an empty tail is a legitimate terminal response, not
// an error.
func ParsePage(data any) Page {
	container, ok := dig(data,
		"contents", "twoColumnBrowseResultsRenderer", "tabs", 0,
		"tabRenderer", "content", "sectionListRenderer", "contents", 0,
		"itemSectionRenderer", "contents", 0, "playlistVideoListRenderer")
	if !ok {
		return ParseContinuationPage(data)
	}
	return parseListContainer(container)
}

// ParseContinuationPage extracts entries and a token from a browse_ajax
// response: a JSON array whose second element wraps the continuation
// contents. Responses of any other shape contribute nothing.
func ParseContinuationPage(data any) Page {
	container, ok := dig(data,
		1, "response", "continuationContents", "playlistVideoListContinuation")
	if !ok {
		return Page{}
	}
	return parseListContainer(container)
}

// parseListContainer reads the contents/continuations fields shared by both
// response shapes. Elements that do not look like video renderers (ads,
// continuation sentinels) are skipped rather than failing the page.
func parseListContainer(container any) Page {
	var page Page

	contents, ok := dig(container, "contents")
	if !ok {
		return page
	}
	items, ok := contents.([]any)
	if !ok {
		return page
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		renderer, ok := dig(item, "playlistVideoRenderer")
		if !ok {
			continue
		}
		id, ok := digString(renderer, "videoId")
		if !ok || id == "" {
			continue
		}
		title, ok := rendererTitle(renderer)
		if !ok {
			continue
		}

		watch := watchURL(id)
		if seen[watch] {
			continue
		}
		seen[watch] = true
		page.Entries = append(page.Entries, Entry{URL: watch, Title: title})
	}

	// Absence of a continuation marks the last page and is normal.
	if token, ok := digString(container,
		"continuations", 0, "nextContinuationData", "continuation"); ok {
		page.Continuation = token
	}

	return page
}

// rendererTitle reads a video title in either of its encountered encodings:
// a plain simpleText string or a runs array of text fragments.
func rendererTitle(renderer any) (string, bool) {
	if s, ok := digString(renderer, "title", "simpleText"); ok {
		return html.UnescapeString(s), true
	}
	if s, ok := digString(renderer, "title", "runs", 0, "text"); ok {
		return html.UnescapeString(s), true
	}
	return "", false
}

// ContinuationURL builds the request for the next page of a listing. The
// token is carried in both the ctoken and continuation parameters; the remote
// service requires the two to match exactly.
func ContinuationURL(token string) (string, map[string]string) {
	escaped := url.QueryEscape(token)
	u := browseEndpoint + "?ctoken=" + escaped + "&continuation=" + escaped
	headers := map[string]string{
		clientNameHeader:    clientName,
		clientVersionHeader: clientVersion,
	}
	return u, headers
}

// watchURL builds the absolute watch URL for a video id.
func watchURL(videoID string) string {
	return siteBase + "/watch?id=" + videoID
}

// dig walks a decoded JSON value by map keys (string) and array indexes
// (int). It reports failure on any missing key, wrong type, or index out of
// range instead of panicking on heterogeneous data.
func dig(v any, path ...any) (any, bool) {
	for _, step := range path {
		switch key := step.(type) {
		case string:
			m, ok := v.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok = m[key]
			if !ok {
				return nil, false
			}
		case int:
			s, ok := v.([]any)
			if !ok || key < 0 || key >= len(s) {
				return nil, false
			}
			v = s[key]
		default:
			return nil, false
		}
	}
	return v, true
}

// digString is dig for leaf values expected to be strings.
func digString(v any, path ...any) (string, bool) {
	leaf, ok := dig(v, path...)
	if !ok {
		return "", false
	}
	s, ok := leaf.(string)
	return s, ok
}
