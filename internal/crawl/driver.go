package crawl

import (
	"context"
	"log"
	"net/url"
	"strconv"

	"vacsift-engine/internal/domain"
)

// maxCrawlIters caps one crawl regardless of what the provider reports.
// A misbehaving provider that keeps growing `pages` cannot spin us forever.
const maxCrawlIters = 1000

// State is the pagination cursor carried across fetches and across redo
// rounds. Page always points at the next page to request.
type State struct {
	Found int
	Page  int
	Pages int
}

// Crawl runs the paginated fetch loop: request the page at st.Page, merge
// the returned items, advance the cursor from the response, and stop once
// the accumulated count (seed plus everything fetched here) reaches
// min(found, cap) or the cursor runs off the last page.
//
// A fresh crawl starts from the zero State (Pages is treated as 1 so the
// first fetch happens). On ErrExhausted the partial accumulator and cursor
// are returned along with the error; the caller decides whether to resume
// later. An actual empty page with found=0 is a normal termination, not an
// error, which keeps outage and end-of-data distinguishable.
func (c *Client) Crawl(ctx context.Context, vacURL string, params url.Values, limit int, st State, seed int) ([]domain.RawRecord, State, error) {
	if st.Pages == 0 {
		st.Pages = 1
	}

	var items []domain.RawRecord
	for iter := 0; st.Page < st.Pages && iter < maxCrawlIters; iter++ {
		params.Set("page", strconv.Itoa(st.Page))

		data, err := c.GetJSON(ctx, vacURL, params)
		if err != nil {
			return items, st, err
		}

		pageItems := recordList(data["items"])
		st.Found = intField(data, "found")
		st.Pages = intField(data, "pages")
		st.Page = intField(data, "page") + 1
		items = append(items, pageItems...)

		log.Printf("[crawl] page=%d/%d found=%d got=%d accumulated=%d",
			st.Page, st.Pages, st.Found, len(pageItems), seed+len(items))

		target := st.Found
		if limit < target {
			target = limit
		}
		if seed+len(items) >= target {
			break
		}
	}
	return items, st, nil
}

func recordList(v any) []domain.RawRecord {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]domain.RawRecord, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

func intField(m map[string]any, key string) int {
	switch t := m[key].(type) {
	case float64:
		return int(t)
	case int:
		return t
	default:
		return 0
	}
}
