package extract

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"vacsift-engine/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Result is one parsed archive entry. Entry is kept for error attribution
// and progress logging downstream.
type Result struct {
	Entry   string
	Records []domain.RawRecord
}

type Extractor struct {
	Workers int
}

// Parse decodes the named entries in parallel, bounded by Workers, and
// streams results as they complete. Completion order is not submission
// order. A malformed entry is logged and skipped; siblings are unaffected.
func (e *Extractor) Parse(ctx context.Context, zr *zip.Reader, names []string) <-chan Result {
	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}

	out := make(chan Result)
	go func() {
		defer close(out)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, name := range names {
			g.Go(func() error {
				recs, err := parseEntry(zr, name)
				if err != nil {
					log.Printf("[extract] entry=%q parse failed: %v", name, err)
					return nil
				}
				select {
				case out <- Result{Entry: name, Records: recs}:
				case <-gctx.Done():
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
	return out
}

// ParseBatches consumes entries in fixed-size batches: every entry of a
// batch is submitted before any result is awaited, and the whole batch is
// waited on before the next one starts. A running record count is logged
// after each completed entry.
func (e *Extractor) ParseBatches(ctx context.Context, zr *zip.Reader, names []string, batchSize int) <-chan []Result {
	if batchSize <= 0 {
		batchSize = 1
	}

	out := make(chan []Result)
	go func() {
		defer close(out)

		count := 0
		for start := 0; start < len(names); start += batchSize {
			end := start + batchSize
			if end > len(names) {
				end = len(names)
			}

			var mu sync.Mutex
			var batch []Result

			g, _ := errgroup.WithContext(ctx)
			g.SetLimit(batchSize)
			for _, name := range names[start:end] {
				g.Go(func() error {
					recs, err := parseEntry(zr, name)
					if err != nil {
						log.Printf("[extract] entry=%q parse failed: %v", name, err)
						return nil
					}
					mu.Lock()
					count += len(recs)
					log.Printf("[extract] entry=%q loaded (%d records so far)", name, count)
					batch = append(batch, Result{Entry: name, Records: recs})
					mu.Unlock()
					return nil
				})
			}
			_ = g.Wait()

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func parseEntry(zr *zip.Reader, name string) ([]domain.RawRecord, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	defer f.Close()

	var recs []domain.RawRecord
	if err := json.NewDecoder(f).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return recs, nil
}
