package fs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/munifin"
	"github.com/fwojciec/munifin/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEncodeRecordsCSV(t *testing.T) {
	t.Parallel()

	t.Run("writes header and rows", func(t *testing.T) {
		t.Parallel()

		records := munifin.AssembleRecords([]string{"Jahr", "Steuereinnahmen"}, munifin.RawTable{
			{"2022", "1.234.567,89"},
			{"2023", "1.300.000,00"},
		})
		var buf bytes.Buffer

		require.NoError(t, fs.EncodeRecordsCSV(&buf, records))

		assert.Equal(t, "Jahr,Steuereinnahmen\n2022,\"1.234.567,89\"\n2023,\"1.300.000,00\"\n", buf.String())
	})

	t.Run("fills missing columns with empty cells", func(t *testing.T) {
		t.Parallel()

		records := []munifin.Record{
			{Labels: []string{"Jahr", "Einwohner"}, Values: []string{"2023", "13.500"}},
			{Labels: []string{"Jahr", "Gewerbesteuer"}, Values: []string{"2023", "4.567.890"}},
		}
		var buf bytes.Buffer

		require.NoError(t, fs.EncodeRecordsCSV(&buf, records))

		assert.Equal(t, "Jahr,Einwohner,Gewerbesteuer\n2023,13.500,\n2023,,4.567.890\n", buf.String())
	})
}

func TestWriteRecordsCSV(t *testing.T) {
	t.Parallel()

	t.Run("replaces an existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "records.csv")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		records := munifin.AssembleRecords([]string{"Jahr"}, munifin.RawTable{{"2024"}})
		require.NoError(t, fs.WriteRecordsCSV(path, records))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Jahr\n2024\n", string(got))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary file should be gone")
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a", "b", "records.csv")

		require.NoError(t, fs.WriteRecordsCSV(path, nil))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "\n", string(got))
	})
}

func TestWriteCatalogYAML(t *testing.T) {
	t.Parallel()

	summaries := []*munifin.DocumentSummary{
		{Fingerprint: "a", Title: "Haushaltsplan 2025", Reference: "DS 89/2024", Date: "2024-11-05"},
		{Fingerprint: "b", Title: "Jahresabschluss 2024", Reference: "DS 26/2025", Date: "2025-02-10"},
		{Fingerprint: "c", Title: "Nachtragshaushalt", Reference: "DS 36/2023", Date: "2024-03-01"},
	}
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	catalog := munifin.NewCatalog("https://example.org/mcp", at, summaries, munifin.YearKey)
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	require.NoError(t, fs.WriteCatalogYAML(path, catalog))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "source: https://example.org/mcp\n"))

	var got munifin.Catalog
	require.NoError(t, yaml.Unmarshal(b, &got))
	require.Len(t, got.Groups, 2)
	assert.Equal(t, "2024", got.Groups[0].Key)
	assert.Equal(t, []string{"DS 89/2024", "DS 36/2023"}, got.Groups[0].Documents)
	assert.Equal(t, "DS 26/2025", got.Documents[1].Reference)
	assert.True(t, at.Equal(got.FetchedAt))
}
