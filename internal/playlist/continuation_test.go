package playlist

import (
	"encoding/json"
	"reflect"
	"testing"
)

// initialShape is the embedded listing blob as served on the playlist page.
const initialShape = `{"contents":{"twoColumnBrowseResultsRenderer":{"tabs":[{"tabRenderer":{"content":{"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[{"playlistVideoListRenderer":{"contents":[{"playlistVideoRenderer":{"videoId":"abc12345678","title":{"simpleText":"Song A"}}}],"continuations":[{"nextContinuationData":{"continuation":"TOK1"}}]}}]}}]}}}}]}}}`

func decode(t *testing.T, raw string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return data
}

func TestParsePageInitialShape(t *testing.T) {
	page := ParsePage(decode(t, initialShape))

	want := []Entry{{URL: "https://www.youtube.com/watch?id=abc12345678", Title: "Song A"}}
	if !reflect.DeepEqual(page.Entries, want) {
		t.Errorf("entries = %v, want %v", page.Entries, want)
	}
	if page.Continuation != "TOK1" {
		t.Errorf("continuation = %q, want %q", page.Continuation, "TOK1")
	}
}

func TestParsePageIdempotent(t *testing.T) {
	data := decode(t, initialShape)

	first := ParsePage(data)
	second := ParsePage(data)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-parsing the same value differed: %v vs %v", first, second)
	}
}

func TestParsePageNoContinuations(t *testing.T) {
	raw := `{"contents":{"twoColumnBrowseResultsRenderer":{"tabs":[{"tabRenderer":{"content":{"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[{"playlistVideoListRenderer":{"contents":[{"playlistVideoRenderer":{"videoId":"abc12345678","title":{"simpleText":"Song A"}}}]}}]}}]}}}}]}}}`

	page := ParsePage(decode(t, raw))
	if len(page.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(page.Entries))
	}
	if page.Continuation != "" {
		t.Errorf("expected no continuation, got %q", page.Continuation)
	}
}

func TestParsePageFallbackShape(t *testing.T) {
	// Continuation-response envelope: entries must still parse when the
	// initial path is absent.
	raw := `[{"page":"browse"},{"response":{"continuationContents":{"playlistVideoListContinuation":{"contents":[{"playlistVideoRenderer":{"videoId":"def12345678","title":{"simpleText":"Song B"}}}],"continuations":[{"nextContinuationData":{"continuation":"TOK2"}}]}}}}]`

	page := ParsePage(decode(t, raw))
	want := []Entry{{URL: "https://www.youtube.com/watch?id=def12345678", Title: "Song B"}}
	if !reflect.DeepEqual(page.Entries, want) {
		t.Errorf("entries = %v, want %v", page.Entries, want)
	}
	if page.Continuation != "TOK2" {
		t.Errorf("continuation = %q, want %q", page.Continuation, "TOK2")
	}
}

func TestParsePageNeitherShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty object", raw: `{}`},
		{name: "empty array", raw: `[]`},
		{name: "unrelated object", raw: `{"responseContext":{}}`},
		{name: "scalar", raw: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := ParsePage(decode(t, tt.raw))
			if len(page.Entries) != 0 || page.Continuation != "" {
				t.Errorf("expected empty page, got %+v", page)
			}
		})
	}
}

func TestParsePageSkipsMalformedElements(t *testing.T) {
	// Ad slots and renderers without an id or title must be skipped without
	// losing the rest of the page.
	raw := `[{},{"response":{"continuationContents":{"playlistVideoListContinuation":{"contents":[
		{"continuationItemRenderer":{}},
		{"playlistVideoRenderer":{"title":{"simpleText":"No ID"}}},
		{"playlistVideoRenderer":{"videoId":"aaa11111111"}},
		{"playlistVideoRenderer":{"videoId":"bbb22222222","title":{"simpleText":"Kept"}}},
		"not even an object"
	]}}}}]`

	page := ParsePage(decode(t, raw))
	want := []Entry{{URL: "https://www.youtube.com/watch?id=bbb22222222", Title: "Kept"}}
	if !reflect.DeepEqual(page.Entries, want) {
		t.Errorf("entries = %v, want %v", page.Entries, want)
	}
}

func TestParsePageDeduplicatesWithinPage(t *testing.T) {
	raw := `[{},{"response":{"continuationContents":{"playlistVideoListContinuation":{"contents":[
		{"playlistVideoRenderer":{"videoId":"aaa11111111","title":{"simpleText":"First"}}},
		{"playlistVideoRenderer":{"videoId":"bbb22222222","title":{"simpleText":"Second"}}},
		{"playlistVideoRenderer":{"videoId":"aaa11111111","title":{"simpleText":"First again"}}}
	]}}}}]`

	page := ParsePage(decode(t, raw))
	if len(page.Entries) != 2 {
		t.Fatalf("expected 2 unique entries, got %d", len(page.Entries))
	}
	if page.Entries[0].Title != "First" || page.Entries[1].Title != "Second" {
		t.Errorf("first-seen order not preserved: %v", page.Entries)
	}
}

func TestRendererTitleVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "simpleText",
			raw:  `{"videoId":"x","title":{"simpleText":"Plain"}}`,
			want: "Plain",
		},
		{
			name: "runs",
			raw:  `{"videoId":"x","title":{"runs":[{"text":"From runs"}]}}`,
			want: "From runs",
		},
		{
			name: "entities unescaped",
			raw:  `{"videoId":"x","title":{"simpleText":"Rock &amp; Roll"}}`,
			want: "Rock & Roll",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, ok := rendererTitle(decode(t, tt.raw))
			if !ok {
				t.Fatal("expected a title")
			}
			if title != tt.want {
				t.Errorf("title = %q, want %q", title, tt.want)
			}
		})
	}
}

func TestContinuationURL(t *testing.T) {
	url, headers := ContinuationURL("TOKEN123")

	want := "https://www.youtube.com/browse_ajax?ctoken=TOKEN123&continuation=TOKEN123"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if headers["X-YouTube-Client-Name"] != "1" {
		t.Errorf("client name header = %q", headers["X-YouTube-Client-Name"])
	}
	if headers["X-YouTube-Client-Version"] != "2.20200720.00.02" {
		t.Errorf("client version header = %q", headers["X-YouTube-Client-Version"])
	}
}

func TestContinuationURLEscapesToken(t *testing.T) {
	url, _ := ContinuationURL("a+b=c")

	want := "https://www.youtube.com/browse_ajax?ctoken=a%2Bb%3Dc&continuation=a%2Bb%3Dc"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}
