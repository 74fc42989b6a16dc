package playlist

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Fetcher is the HTTP collaborator the pager drives. Implementations return
// the response body on success and an error on network failure or a
// non-success status. Retry policy, if any, belongs to the implementation.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}

type pagerState int

const (
	stateInitial pagerState = iota
	stateContinuing
	stateDone
)

// pager walks the continuation chain of a listing, yielding one Page per
// Next call. It is single-pass and not restartable: the initial document is
// consumed by the first call, and every later page depends on the token from
// the page before it, so fetches are strictly sequential.
type pager struct {
	fetch   Fetcher
	logger  zerolog.Logger
	limiter *rate.Limiter

	state    pagerState
	doc      string // initial page HTML, cleared after the first page
	token    string
	pages    int
	maxPages int
}

func newPager(doc string, f Fetcher, opts Options) *pager {
	return &pager{
		fetch:    f,
		logger:   opts.logger(),
		limiter:  opts.Limiter,
		state:    stateInitial,
		doc:      doc,
		maxPages: opts.MaxPages,
	}
}

// Next produces the next page of the listing. It returns ok=false once the
// chain is exhausted. Errors are fatal for the chain: the pager transitions
// to its terminal state and stays there.
func (p *pager) Next(ctx context.Context) (Page, bool, error) {
	switch p.state {
	case stateInitial:
		data, err := ExtractInitialData(p.doc)
		if err != nil {
			p.state = stateDone
			return Page{}, false, err
		}
		p.doc = ""
		page := ParsePage(data)
		p.advance(page, "")
		return page, true, nil

	case stateContinuing:
		token := p.token
		url, headers := ContinuationURL(token)
		p.logger.Debug().Str("url", url).Int("page", p.pages+1).Msg("fetching continuation")

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				p.state = stateDone
				return Page{}, false, err
			}
		}

		body, err := p.fetch.Fetch(ctx, url, headers)
		if err != nil {
			p.state = stateDone
			return Page{}, false, &FetchError{URL: url, Err: err}
		}

		var data any
		if err := json.Unmarshal([]byte(body), &data); err != nil {
			p.state = stateDone
			return Page{}, false, &FetchError{URL: url, Err: err}
		}

		// The response format is known here, no shape fallback needed.
		page := ParseContinuationPage(data)
		p.advance(page, token)
		return page, true, nil

	default:
		return Page{}, false, nil
	}
}

// advance applies the post-page state transition. Pagination ends when the
// page carries no token, when the service echoes back the token that was just
// fetched (a non-advancing cursor would otherwise loop forever), or when the
// page cap is reached.
func (p *pager) advance(page Page, fetchedWith string) {
	p.pages++

	switch {
	case page.Continuation == "":
		p.state = stateDone
	case fetchedWith != "" && page.Continuation == fetchedWith:
		p.logger.Warn().Str("token", fetchedWith).Msg("continuation token did not advance, stopping")
		p.state = stateDone
	case p.maxPages > 0 && p.pages >= p.maxPages:
		p.logger.Warn().Int("max_pages", p.maxPages).Msg("page cap reached, stopping")
		p.state = stateDone
	default:
		p.token = page.Continuation
		p.state = stateContinuing
	}
}
