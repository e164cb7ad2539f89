package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"vacsift-engine/internal/config"
	"vacsift-engine/internal/pipeline"
	"vacsift-engine/internal/store"
)

var createQueries = []string{
	"create_companies.sql",
	"create_vacancies.sql",
	"create_employers.sql",
	"create_key_skills.sql",
}

func main() {
	cfgPath := flag.String("config", "config/config.yml", "path to config file")
	mode := flag.String("mode", "all", "what to run: archive | crawl | all")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", *cfgPath, err)
	}

	// Every retry/failure line also lands in the append-only log file.
	lf, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer lf.Close()
	log.SetOutput(io.MultiWriter(os.Stderr, lf))

	if err := createTables(cfg); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	ctx := context.Background()
	failed := false

	runArchive := *mode == "archive" || *mode == "all"
	runCrawl := *mode == "crawl" || *mode == "all"
	if !runArchive && !runCrawl {
		log.Fatalf("unknown mode %q", *mode)
	}

	if runArchive && cfg.Archive.Path != "" {
		if err := pipeline.Archive(ctx, cfg); err != nil {
			log.Printf("[engine] archive pipeline: %v", err)
			failed = true
		}
	}
	if runCrawl && cfg.Crawl.VacanciesURL != "" {
		if err := pipeline.Vacancies(ctx, cfg); err != nil {
			log.Printf("[engine] crawl pipeline: %v", err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func createTables(cfg config.Config) error {
	db, err := store.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, name := range createQueries {
		q, err := store.Query(cfg.SQLDir, name)
		if err != nil {
			return err
		}
		if err := store.ExecScript(db.Pool, q); err != nil {
			return err
		}
	}
	return nil
}
