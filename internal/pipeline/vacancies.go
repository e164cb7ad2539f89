package pipeline

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"vacsift-engine/internal/config"
	"vacsift-engine/internal/crawl"
	"vacsift-engine/internal/domain"
	"vacsift-engine/internal/store"
	"vacsift-engine/internal/tables"
)

// Vacancies crawls the search API, hydrates details, builds the three
// tables and commits them through the resilient writer. The outer redo
// loop keeps crawling while the post-filter count is still under
// min(found, cap) and pages remain, bounded by max_rounds.
func Vacancies(ctx context.Context, cfg config.Config) (err error) {
	defer contain("vacancies", &err)

	run := runID()
	client := crawl.NewClient(cfg.Crawl)

	areas, aerr := client.AreaIDs(ctx, cfg.Crawl.AreasURL, cfg.Crawl.Country, cfg.Crawl.Regions)
	if aerr != nil {
		return aerr
	}
	log.Printf("[pipeline] run=%s areas resolved: %v", run, areas)

	params := url.Values{}
	for k, v := range cfg.Crawl.Params {
		params.Set(k, v)
	}
	for id := range areas {
		params.Add("area", id)
	}

	var (
		vacs    []domain.Vacancy
		allRaws []domain.RawRecord
		st      crawl.State
	)
	for round := 1; round <= cfg.Crawl.MaxRounds; round++ {
		raws, next, cerr := client.Crawl(ctx, cfg.Crawl.VacanciesURL, params, cfg.Crawl.MaxVacancies, st, len(vacs))
		st = next
		if cerr != nil && !errors.Is(cerr, crawl.ErrExhausted) {
			return cerr
		}

		client.HydrateDetails(ctx, raws, cfg.Crawl.DetailWorkers)
		allRaws = append(allRaws, raws...)
		vacs = mergeVacancies(vacs, tables.BuildVacancies(raws))

		if cerr != nil {
			// Exhausted retries are a transient gap, not end-of-data:
			// stop crawling, keep the pages that did arrive, persist them.
			log.Printf("[pipeline] run=%s round=%d crawl interrupted: %v", run, round, cerr)
			break
		}

		target := st.Found
		if cfg.Crawl.MaxVacancies < target {
			target = cfg.Crawl.MaxVacancies
		}
		log.Printf("[pipeline] run=%s round=%d kept=%d target=%d page=%d/%d",
			run, round, len(vacs), target, st.Page, st.Pages)

		if len(vacs) >= target || st.Page >= st.Pages {
			break
		}
		if serr := sleepCtx(ctx, time.Duration(cfg.Crawl.RoundDelaySeconds)*time.Second); serr != nil {
			return serr
		}
	}

	if len(vacs) == 0 {
		log.Printf("[pipeline] run=%s nothing to persist", run)
		return nil
	}

	w := store.NewWriter(cfg.DB.Path, cfg.Writer)
	updates := []store.Table{
		withDeleteSQL(cfg, tables.VacanciesTable(vacs), "delete_from_vacancies.sql"),
		withDeleteSQL(cfg, tables.EmployersTable(tables.BuildEmployers(allRaws)), "delete_from_employers.sql"),
		withDeleteSQL(cfg, tables.KeySkillsTable(tables.BuildKeySkills(vacs)), "delete_from_key_skills.sql"),
	}
	for _, t := range updates {
		if werr := w.Replace(ctx, t); werr != nil {
			// abandoned for this cycle; the next full run repairs it
			log.Printf("[pipeline] run=%s table=%s update abandoned: %v", run, t.Name, werr)
			if err == nil {
				err = werr
			}
		}
	}

	if verr := store.Vacuum(cfg.DB.Path); verr != nil {
		log.Printf("[pipeline] run=%s vacuum failed: %v", run, verr)
	}
	return err
}

// withDeleteSQL attaches the externally maintained delete statement when
// the sql directory provides one; the writer falls back to a synthesized
// keyed delete otherwise.
func withDeleteSQL(cfg config.Config, t store.Table, name string) store.Table {
	if text, err := store.Query(cfg.SQLDir, name); err == nil {
		t.DeleteSQL = text
	}
	return t
}

func mergeVacancies(have, add []domain.Vacancy) []domain.Vacancy {
	seen := make(map[string]bool, len(have))
	for _, v := range have {
		seen[v.ID] = true
	}
	for _, v := range add {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		have = append(have, v)
	}
	return have
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
