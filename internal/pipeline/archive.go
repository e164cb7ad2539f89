package pipeline

import (
	"archive/zip"
	"context"
	"fmt"
	"log"
	"strings"

	"vacsift-engine/internal/classify"
	"vacsift-engine/internal/config"
	"vacsift-engine/internal/domain"
	"vacsift-engine/internal/extract"
	"vacsift-engine/internal/store"
	"vacsift-engine/internal/tables"

	"github.com/google/uuid"
)

// Archive is the batch entry point over a zip of registry dumps: extract in
// batches, classify and filter, append each batch's survivors to the
// companies table. One batch failing to persist does not stop the rest;
// the first hard error is reported at the end.
func Archive(ctx context.Context, cfg config.Config) (err error) {
	defer contain("archive", &err)

	run := runID()
	log.Printf("[pipeline] run=%s archive=%s start", run, cfg.Archive.Path)

	zr, zerr := zip.OpenReader(cfg.Archive.Path)
	if zerr != nil {
		return fmt.Errorf("open archive: %w", zerr)
	}
	defer zr.Close()

	names := cfg.Archive.Entries
	if len(names) == 0 {
		for _, f := range zr.File {
			if strings.HasSuffix(f.Name, ".json") {
				names = append(names, f.Name)
			}
		}
	}

	ex := extract.Extractor{Workers: cfg.Archive.Workers}
	w := store.NewWriter(cfg.DB.Path, cfg.Writer)
	path := classify.PathFromConfig(cfg.Classify)

	var firstErr error
	for batch := range ex.ParseBatches(ctx, &zr.Reader, names, cfg.Archive.BatchSize) {
		var recs []domain.RawRecord
		for _, res := range batch {
			recs = append(recs, res.Records...)
		}

		companies := tables.BuildCompanies(recs, path, cfg.Classify.Prefix)
		log.Printf("[pipeline] run=%s batch entries=%d records=%d kept=%d",
			run, len(batch), len(recs), len(companies))
		if len(companies) == 0 {
			continue
		}

		if werr := w.Append(ctx, tables.CompaniesTable(companies)); werr != nil {
			log.Printf("[pipeline] run=%s companies append abandoned: %v", run, werr)
			if firstErr == nil {
				firstErr = werr
			}
		}
	}

	log.Printf("[pipeline] run=%s archive done", run)
	return firstErr
}

func runID() string {
	return uuid.NewString()[:8]
}

// contain keeps programming errors inside the batch entry point: a panic is
// converted to a logged error instead of unwinding past the pipeline.
func contain(name string, err *error) {
	if r := recover(); r != nil {
		log.Printf("[pipeline] %s aborted: %v", name, r)
		*err = fmt.Errorf("pipeline %s aborted: %v", name, r)
	}
}
