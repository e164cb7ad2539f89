package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArchive(t *testing.T, entries map[string]string) *zip.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return zr
}

func TestParseSkipsMalformedEntry(t *testing.T) {
	zr := buildArchive(t, map[string]string{
		"a.json":   `[{"ogrn":"1","name":"Alpha"},{"ogrn":"2","name":"Beta"}]`,
		"bad.json": `{{{not json`,
		"b.json":   `[{"ogrn":"3","name":"Gamma"}]`,
	})

	ex := Extractor{Workers: 2}
	byEntry := map[string]int{}
	for res := range ex.Parse(context.Background(), zr, []string{"a.json", "bad.json", "b.json"}) {
		byEntry[res.Entry] = len(res.Records)
	}

	// the malformed entry is skipped, siblings still arrive
	assert.Equal(t, map[string]int{"a.json": 2, "b.json": 1}, byEntry)
}

func TestParseMissingEntry(t *testing.T) {
	zr := buildArchive(t, map[string]string{
		"a.json": `[{"ogrn":"1"}]`,
	})

	ex := Extractor{Workers: 1}
	var got []Result
	for res := range ex.Parse(context.Background(), zr, []string{"a.json", "nope.json"}) {
		got = append(got, res)
	}

	require.Len(t, got, 1)
	assert.Equal(t, "a.json", got[0].Entry)
}

func TestParseBatches(t *testing.T) {
	zr := buildArchive(t, map[string]string{
		"a.json": `[{"ogrn":"1"},{"ogrn":"2"}]`,
		"b.json": `[{"ogrn":"3"}]`,
		"c.json": `[{"ogrn":"4"}]`,
	})

	ex := Extractor{Workers: 2}
	var batches [][]Result
	for batch := range ex.ParseBatches(context.Background(), zr, []string{"a.json", "b.json", "c.json"}, 2) {
		batches = append(batches, batch)
	}

	// one full batch, then the remainder
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)

	total := 0
	for _, batch := range batches {
		for _, res := range batch {
			total += len(res.Records)
		}
	}
	assert.Equal(t, 4, total)
}
