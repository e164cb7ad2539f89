package crawl

import (
	"context"
	"log"
	"strings"

	"vacsift-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// HydrateDetails fetches each vacancy's detail document and attaches the
// plain-text description and the comma-joined skill names to the raw record.
// Work is bounded by workers; a failed item is logged and left unhydrated,
// siblings continue.
func (c *Client) HydrateDetails(ctx context.Context, recs []domain.RawRecord, workers int) {
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rec := range recs {
		g.Go(func() error {
			u, _ := rec["url"].(string)
			if u == "" {
				return nil
			}
			data, err := c.GetJSON(gctx, u, nil)
			if err != nil {
				log.Printf("[crawl] details id=%v skipped: %v", rec["id"], err)
				return nil
			}
			if desc, ok := data["description"].(string); ok {
				rec["job_description"] = htmlToText(desc)
			}
			if joined, ok := joinSkillNames(data["key_skills"]); ok {
				rec["key_skills"] = joined
			}
			return nil
		})
	}
	_ = g.Wait()
}

// htmlToText strips description markup down to readable text.
func htmlToText(h string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(h))
	if err != nil {
		return strings.TrimSpace(h)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}

// joinSkillNames flattens the detail payload's [{"name": ...}] skill list to
// one comma-joined string, matching the shape the table builders expect.
func joinSkillNames(v any) (string, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	var names []string
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			if name, ok := rec["name"].(string); ok && name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return strings.Join(names, ","), true
}
