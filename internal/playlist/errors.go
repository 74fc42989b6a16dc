package playlist

import (
	"errors"
	"fmt"
)

// ErrMarkerNotFound is returned when the initial-data assignment cannot be
// located in the playlist page. It means the site markup changed; retrying
// the same document cannot help.
var ErrMarkerNotFound = errors.New("playlist: initial data marker not found")

// MalformedDataError indicates the embedded initial-data blob was located but
// is not valid JSON.
type MalformedDataError struct {
	Err error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("playlist: malformed initial data: %v", e.Err)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

// FetchError indicates a continuation request failed mid-pagination. Entries
// accumulated from earlier pages remain valid; the chain cannot proceed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("playlist: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
