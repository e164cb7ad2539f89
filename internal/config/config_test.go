package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
classify:
  prefix: "61"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vacsift.db", cfg.DB.Path)
	assert.Equal(t, "sql", cfg.SQLDir)
	assert.Equal(t, "СвОКВЭД", cfg.Classify.Section)
	assert.Equal(t, 4, cfg.Archive.Workers)
	assert.Equal(t, 10, cfg.Archive.BatchSize)
	assert.Equal(t, 100, cfg.Crawl.MaxVacancies)
	assert.Equal(t, 3, cfg.Crawl.Attempts)
	assert.Equal(t, 5, cfg.Writer.Attempts)
	assert.Equal(t, 500, cfg.Writer.RetryDelayMS)
	assert.Equal(t, 5000, cfg.Writer.BusyTimeoutMS)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
db:
  path: other.db
classify:
  prefix: "62"
crawl:
  vacancies_url: https://api.example.com/vacancies
  max_vacancies: 250
  params:
    text: golang
writer:
  attempts: 2
  busy_timeout_ms: 250
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "other.db", cfg.DB.Path)
	assert.Equal(t, "62", cfg.Classify.Prefix)
	assert.Equal(t, 250, cfg.Crawl.MaxVacancies)
	assert.Equal(t, "golang", cfg.Crawl.Params["text"])
	assert.Equal(t, 2, cfg.Writer.Attempts)
	assert.Equal(t, 250, cfg.Writer.BusyTimeoutMS)
}

func TestLoadRejectsMissingPrefix(t *testing.T) {
	path := writeConfig(t, `
db:
  path: x.db
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
