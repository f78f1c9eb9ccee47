package sdk

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a JSON config using temp paths and returns its location
func writeConfig(t *testing.T, withCatalog bool) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := ""
	if withCatalog {
		dbPath = filepath.Join(dir, "tabula.db")
	}

	path := filepath.Join(dir, "config.json")
	content := `{
		"generator": {
			"min_rows": 1000,
			"max_rows": 20000,
			"progress_interval": 500,
			"bytes_per_row_estimate": 200,
			"mega_threshold": 1000000
		},
		"output": {"dir": "` + strings.ReplaceAll(filepath.Join(dir, "data"), "\\", "/") + `"},
		"catalog": {"db_path": "` + strings.ReplaceAll(dbPath, "\\", "/") + `"},
		"api": {"host": "localhost", "port": 8087}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestNew tests the New function with various configurations
func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		setup       func() string
		expectError bool
		catalog     bool
	}{
		{
			name:    "config with catalog",
			setup:   func() string { return writeConfig(t, true) },
			catalog: true,
		},
		{
			name:  "config without catalog",
			setup: func() string { return writeConfig(t, false) },
		},
		{
			name:        "nonexistent config",
			setup:       func() string { return filepath.Join(t.TempDir(), "nonexistent.json") },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, err := New(tt.setup())
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				if tb != nil {
					t.Errorf("Expected nil Tabula but got %v", tb)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			defer tb.Close()

			if tb.CatalogEnabled() != tt.catalog {
				t.Errorf("Expected CatalogEnabled %v, got %v", tt.catalog, tb.CatalogEnabled())
			}
			if tb.GetConfig().Generator.ProgressInterval != 500 {
				t.Errorf("Expected ProgressInterval 500, got %d", tb.GetConfig().Generator.ProgressInterval)
			}
		})
	}
}

// TestTabulaMethods exercises the SDK surface end to end
func TestTabulaMethods(t *testing.T) {
	tb, err := New(writeConfig(t, true))
	if err != nil {
		t.Fatalf("Failed to create Tabula: %v", err)
	}
	defer tb.Close()

	if name := tb.FileName(1_500_000); name != "mega_sample_1500k.csv" {
		t.Errorf("Expected mega_sample_1500k.csv, got %s", name)
	}
	if !tb.IsMega(MegaRows) || tb.IsMega(PerformanceRows) {
		t.Errorf("IsMega threshold mismatch")
	}
	if len(tb.Schema()) != FieldCount {
		t.Errorf("Expected %d schema fields, got %d", FieldCount, len(tb.Schema()))
	}

	ds, err := tb.Generate(&GenerateRequest{Rows: 3000})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if ds.Name != "sample_3k.csv" {
		t.Errorf("Expected sample_3k.csv, got %s", ds.Name)
	}

	result, err := tb.Verify(&DatasetRequest{ID: ds.ID})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !result.Valid {
		t.Errorf("Expected valid dataset, problems: %v", result.Problems)
	}

	datasets, err := tb.ListDatasets()
	if err != nil {
		t.Fatalf("ListDatasets failed: %v", err)
	}
	if len(datasets) != 1 {
		t.Errorf("Expected 1 dataset, got %d", len(datasets))
	}
	if count, err := tb.CountDatasets(); err != nil || count != 1 {
		t.Errorf("Expected CountDatasets 1, got %d (err %v)", count, err)
	}

	if err := tb.DeleteDataset(&DatasetRequest{ID: ds.ID}); err != nil {
		t.Fatalf("DeleteDataset failed: %v", err)
	}
	if _, err := tb.GetDataset(&DatasetRequest{ID: ds.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

// TestTabulaErrorHandling tests the re-exported sentinel errors
func TestTabulaErrorHandling(t *testing.T) {
	tb, err := NewWithConfig(&Config{})
	if err == nil {
		tb.Close()
		t.Errorf("Expected error for zero config")
	}

	tb, err = New(writeConfig(t, false))
	if err != nil {
		t.Fatalf("Failed to create Tabula: %v", err)
	}
	defer tb.Close()

	tests := []struct {
		name     string
		req      *GenerateRequest
		expected error
	}{
		{"zero rows", &GenerateRequest{Rows: 0}, ErrInvalidRowCount},
		{"below minimum", &GenerateRequest{Rows: 10}, ErrBelowMinimum},
		{"above maximum", &GenerateRequest{Rows: 20_001}, ErrAboveMaximum},
		{"path in name", &GenerateRequest{Rows: 1000, Name: "a/b.csv"}, ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tb.Generate(tt.req); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}

	if _, err := tb.ListDatasets(); !errors.Is(err, ErrCatalogDisabled) {
		t.Errorf("Expected ErrCatalogDisabled, got %v", err)
	}
}
