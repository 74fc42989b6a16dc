package playlist

import (
	"encoding/json"
	"strings"
)

// initialDataMarkers are the assignment prefixes YouTube has used to embed the
// first page of listing data in the playlist HTML. Both forms appear in the
// wild depending on page vintage.
var initialDataMarkers = []string{
	`window["ytInitialData"] = `,
	`var ytInitialData = `,
}

// ExtractInitialData locates the ytInitialData assignment in a playlist page
// and returns the decoded JSON value.
//
// The JSON literal runs to the end of the assignment statement; the trailing
// semicolon is stripped before decoding. A missing marker yields
// ErrMarkerNotFound, a literal that fails to decode yields *MalformedDataError.
func ExtractInitialData(doc string) (any, error) {
	raw, ok := initialDataLiteral(doc)
	if !ok {
		return nil, ErrMarkerNotFound
	}

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, &MalformedDataError{Err: err}
	}
	return data, nil
}

// initialDataLiteral returns the raw JSON literal of the initial-data
// assignment, with the statement terminator removed.
func initialDataLiteral(doc string) (string, bool) {
	for _, marker := range initialDataMarkers {
		start := strings.Index(doc, marker)
		if start == -1 {
			continue
		}

		// The literal runs to the end of the statement: either the end of
		// the line or the end of the enclosing script block, whichever
		// comes first.
		rest := doc[start+len(marker):]
		if end := strings.IndexByte(rest, '\n'); end != -1 {
			rest = rest[:end]
		}
		if end := strings.Index(rest, "</script>"); end != -1 {
			rest = rest[:end]
		}
		rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
		return rest, true
	}
	return "", false
}
