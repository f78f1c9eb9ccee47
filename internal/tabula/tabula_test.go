package tabula

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Project-Sylos/Tabula/internal/config"
	"github.com/Project-Sylos/Tabula/internal/generator"
	"github.com/Project-Sylos/Tabula/internal/tabula/models"
	"github.com/Project-Sylos/Tabula/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, withCatalog bool) *types.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	cfg.Generator.MaxRows = 50_000
	if withCatalog {
		cfg.Catalog.DBPath = filepath.Join(t.TempDir(), "catalog.db")
	}
	return &cfg
}

func newTestTabula(t *testing.T, withCatalog bool) *Tabula {
	t.Helper()
	tb, err := NewWithConfig(testConfig(t, withCatalog))
	require.NoError(t, err)
	t.Cleanup(func() { tb.Close() })
	return tb
}

// TestNewWithConfig tests construction and the output directory
func TestNewWithConfig(t *testing.T) {
	cfg := testConfig(t, false)
	tb, err := NewWithConfig(cfg)
	require.NoError(t, err)
	defer tb.Close()

	info, err := os.Stat(cfg.Output.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.False(t, tb.CatalogEnabled())

	bad := config.DefaultConfig()
	bad.Generator.MinRows = 0
	_, err = NewWithConfig(&bad)
	assert.Error(t, err)
}

// TestNewTabulaFromFile tests loading through a config file
func TestNewTabulaFromFile(t *testing.T) {
	cfg := testConfig(t, true)
	path := filepath.Join(t.TempDir(), "tabula.yaml")
	require.NoError(t, config.SaveToFile(cfg, path))

	tb, err := NewTabula(path)
	require.NoError(t, err)
	defer tb.Close()
	assert.True(t, tb.CatalogEnabled())

	_, err = NewTabula(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

// TestCheckRows tests the floor and cap applied by the invocation layer
func TestCheckRows(t *testing.T) {
	tb := newTestTabula(t, false)

	tests := []struct {
		rows     int64
		expected error
	}{
		{rows: -5, expected: generator.ErrInvalidRowCount},
		{rows: 0, expected: generator.ErrInvalidRowCount},
		{rows: 999, expected: ErrBelowMinimum},
		{rows: 1000},
		{rows: 50_000},
		{rows: 50_001, expected: ErrAboveMaximum},
	}

	for _, tt := range tests {
		err := tb.CheckRows(tt.rows)
		if tt.expected == nil {
			assert.NoError(t, err, "rows=%d", tt.rows)
		} else {
			assert.ErrorIs(t, err, tt.expected, "rows=%d", tt.rows)
		}
	}
}

// TestGenerateRejectsBeforeWriting tests that rejected requests leave no files
func TestGenerateRejectsBeforeWriting(t *testing.T) {
	tb := newTestTabula(t, false)

	for _, rows := range []int64{-1, 0, 500} {
		_, err := tb.Generate(&models.GenerateRequest{Rows: rows})
		assert.Error(t, err)
	}
	_, err := tb.Generate(&models.GenerateRequest{Rows: 1000, Name: "../escape.csv"})
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = tb.Generate(nil)
	assert.Error(t, err)

	entries, err := os.ReadDir(tb.GetConfig().Output.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestGenerateWithoutCatalog tests the CLI configuration
func TestGenerateWithoutCatalog(t *testing.T) {
	tb := newTestTabula(t, false)

	ds, err := tb.Generate(&models.GenerateRequest{Rows: 1000})
	require.NoError(t, err)
	assert.Equal(t, "sample_1k.csv", ds.Name)
	assert.Equal(t, filepath.Join(tb.GetConfig().Output.Dir, "sample_1k.csv"), ds.Path)
	assert.NotEmpty(t, ds.ID)
	assert.FileExists(t, ds.Path)

	_, err = tb.ListDatasets()
	assert.ErrorIs(t, err, ErrCatalogDisabled)
	_, err = tb.CountDatasets()
	assert.ErrorIs(t, err, ErrCatalogDisabled)
	_, err = tb.Verify(&models.DatasetRequest{ID: ds.ID})
	assert.ErrorIs(t, err, ErrCatalogDisabled)
}

// TestDatasetLifecycle tests generate, list, verify and delete with the catalog
func TestDatasetLifecycle(t *testing.T) {
	tb := newTestTabula(t, true)

	ds, err := tb.Generate(&models.GenerateRequest{Rows: 2000, Name: "custom.csv", Seed: 77})
	require.NoError(t, err)
	assert.Equal(t, int64(77), ds.Seed)

	got, err := tb.GetDataset(&models.DatasetRequest{ID: ds.ID})
	require.NoError(t, err)
	assert.Equal(t, ds.Checksum, got.Checksum)

	list, err := tb.ListDatasets()
	require.NoError(t, err)
	require.Len(t, list, 1)
	count, err := tb.CountDatasets()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	result, err := tb.Verify(&models.DatasetRequest{ID: ds.ID})
	require.NoError(t, err)
	assert.True(t, result.Valid, "problems: %v", result.Problems)
	assert.True(t, result.ChecksumMatch)
	assert.Equal(t, int64(2000), result.Stats.Rows)

	// Tampering with the file is detected
	f, err := os.OpenFile(ds.Path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("2001,John Smith,IT,50000,30,2016-01-01,4.0,Miami,john.smith1@company.com,true,Display Ads,1000,10.50,0.10,0.50\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	result, err = tb.Verify(&models.DatasetRequest{ID: ds.ID})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.False(t, result.ChecksumMatch)
	assert.NotEmpty(t, result.Problems)

	require.NoError(t, tb.DeleteDataset(&models.DatasetRequest{ID: ds.ID}))
	assert.NoFileExists(t, ds.Path)
	_, err = tb.GetDataset(&models.DatasetRequest{ID: ds.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestGenerateRemovesFileWhenCatalogFails tests that an uncatalogued file is not left behind
func TestGenerateRemovesFileWhenCatalogFails(t *testing.T) {
	tb := newTestTabula(t, true)
	require.NoError(t, tb.db.Close())

	_, err := tb.Generate(&models.GenerateRequest{Rows: 1000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record dataset")

	entries, err := os.ReadDir(tb.GetConfig().Output.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestConcurrentGenerateSameName tests that generation is serialized
func TestConcurrentGenerateSameName(t *testing.T) {
	tb := newTestTabula(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			_, err := tb.Generate(&models.GenerateRequest{Rows: 5000, Seed: seed})
			assert.NoError(t, err)
		}(int64(i + 1))
	}
	wg.Wait()

	list, err := tb.ListDatasets()
	require.NoError(t, err)
	require.Len(t, list, 1, "same path replaces the earlier entry")

	result, err := tb.Verify(&models.DatasetRequest{ID: list[0].ID})
	require.NoError(t, err)
	assert.True(t, result.Valid, "problems: %v", result.Problems)
}

// TestSchema tests the schema description
func TestSchema(t *testing.T) {
	tb := newTestTabula(t, false)
	assert.Len(t, tb.Schema(), types.FieldCount)
}
