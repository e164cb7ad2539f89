package pipeline

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"vacsift-engine/internal/config"
	"vacsift-engine/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createCompanies = `
CREATE TABLE IF NOT EXISTS companies (
  ogrn TEXT NOT NULL,
  inn TEXT,
  kpp TEXT,
  name TEXT,
  full_name TEXT,
  code_okved TEXT NOT NULL,
  name_okved TEXT,
  type_okved TEXT
);`

func writeArchive(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, "egrul.zip")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestArchivePipeline(t *testing.T) {
	dir := t.TempDir()

	var cfg config.Config
	cfg.ApplyDefaults()
	cfg.Classify.Prefix = "61"
	cfg.DB.Path = filepath.Join(dir, "test.db")
	cfg.Writer = config.Writer{Attempts: 2, RetryDelayMS: 1, PollIntervalMS: 1}
	cfg.Archive.Workers = 2
	cfg.Archive.BatchSize = 2
	cfg.Archive.Path = writeArchive(t, dir, map[string]string{
		"a.json": `[
			{"ogrn":"1","inn":"11","kpp":"111","name":"Alpha","full_name":"Alpha LLC",
			 "data":{"СвОКВЭД":{"СвОКВЭДОсн":{"КодОКВЭД":"61.10","НаимОКВЭД":"Связь"}}}},
			{"ogrn":"2","inn":"22","kpp":"222","name":"Beta","full_name":"Beta LLC",
			 "data":{"СвОКВЭД":{"СвОКВЭДОсн":{"КодОКВЭД":"62.01","НаимОКВЭД":"ИТ"}}}}
		]`,
		"bad.json": `{{{`,
		"b.json": `[
			{"ogrn":"3","inn":"33","kpp":"333","name":"Gamma","full_name":"Gamma LLC",
			 "data":{"СвОКВЭД":{"СвОКВЭДОсн":{"КодОКВЭД":"61.90","НаимОКВЭД":"Связь прочая"}}}}
		]`,
	})

	db, err := store.Open(cfg.DB.Path)
	require.NoError(t, err)
	require.NoError(t, store.ExecScript(db.Pool, createCompanies))
	require.NoError(t, db.Close())

	require.NoError(t, Archive(context.Background(), cfg))

	db, err = store.Open(cfg.DB.Path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.Pool.QueryRow(`SELECT COUNT(*) FROM companies;`).Scan(&n))
	assert.Equal(t, 2, n)

	var codes []string
	rows, err := db.Pool.Query(`SELECT code_okved FROM companies ORDER BY ogrn;`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var c string
		require.NoError(t, rows.Scan(&c))
		codes = append(codes, c)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"61.10", "61.90"}, codes)
}

func TestArchivePipelineMissingFile(t *testing.T) {
	var cfg config.Config
	cfg.ApplyDefaults()
	cfg.Classify.Prefix = "61"
	cfg.DB.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Archive.Path = filepath.Join(t.TempDir(), "missing.zip")

	assert.Error(t, Archive(context.Background(), cfg))
}
