package sdk

import (
	"fmt"

	"github.com/Project-Sylos/Tabula/internal/generator"
	"github.com/Project-Sylos/Tabula/internal/tabula"
	"github.com/Project-Sylos/Tabula/internal/tabula/models"
	"github.com/Project-Sylos/Tabula/internal/types"
)

// Tabula is the public SDK interface for the synthetic CSV generator
// This wraps the internal implementation to provide a clean public API
type Tabula struct {
	impl *tabula.Tabula
}

// New creates a new Tabula instance using the specified config file
func New(configPath string) (*Tabula, error) {
	impl, err := tabula.NewTabula(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Tabula: %w", err)
	}

	return &Tabula{
		impl: impl,
	}, nil
}

// NewWithConfig creates a new Tabula instance from an in-memory configuration
func NewWithConfig(cfg *Config) (*Tabula, error) {
	impl, err := tabula.NewWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Tabula: %w", err)
	}

	return &Tabula{
		impl: impl,
	}, nil
}

// NewWithDefaults creates a new Tabula instance using configs/default.json
func NewWithDefaults() (*Tabula, error) {
	return New("configs/default.json")
}

// Generate writes one dataset file and records it in the catalog when enabled
func (s *Tabula) Generate(req *GenerateRequest) (*Dataset, error) {
	return s.impl.Generate(req)
}

// CheckRows validates a row count against the recommended floor and the configured cap
func (s *Tabula) CheckRows(rows int64) error {
	return s.impl.CheckRows(rows)
}

// IsMega reports whether a row count uses the mega naming convention
func (s *Tabula) IsMega(rows int64) bool {
	return s.impl.IsMega(rows)
}

// FileName returns the conventional output name for a row count
func (s *Tabula) FileName(rows int64) string {
	return s.impl.FileName(rows)
}

// GetDataset retrieves a dataset by ID
func (s *Tabula) GetDataset(req *DatasetRequest) (*Dataset, error) {
	return s.impl.GetDataset(req)
}

// ListDatasets returns all datasets in the catalog, newest first
func (s *Tabula) ListDatasets() ([]*Dataset, error) {
	return s.impl.ListDatasets()
}

// CountDatasets returns the number of datasets in the catalog
func (s *Tabula) CountDatasets() (int, error) {
	return s.impl.CountDatasets()
}

// DeleteDataset removes a dataset file and its catalog entry
func (s *Tabula) DeleteDataset(req *DatasetRequest) error {
	return s.impl.DeleteDataset(req)
}

// Verify re-reads a dataset through DuckDB and compares it with the catalog
func (s *Tabula) Verify(req *DatasetRequest) (*Verification, error) {
	return s.impl.Verify(req)
}

// Schema describes the generated columns
func (s *Tabula) Schema() []FieldInfo {
	return s.impl.Schema()
}

// GetConfig returns the current configuration
func (s *Tabula) GetConfig() *Config {
	return s.impl.GetConfig()
}

// CatalogEnabled reports whether datasets are being recorded
func (s *Tabula) CatalogEnabled() bool {
	return s.impl.CatalogEnabled()
}

// Close closes the catalog connection.
// Always call this method during shutdown so DuckDB flushes its WAL.
func (s *Tabula) Close() error {
	return s.impl.Close()
}

// Re-export types for convenience
type (
	Config       = types.Config
	Dataset      = types.Dataset
	Verification = types.Verification
	FileStats    = types.FileStats
	FieldInfo    = types.FieldInfo
	APIResponse  = types.APIResponse

	Reporter        = generator.Reporter
	ConsoleReporter = generator.ConsoleReporter
	BarReporter     = generator.BarReporter
	LogReporter     = generator.LogReporter
)

// Re-export request models
type (
	GenerateRequest = models.GenerateRequest
	DatasetRequest  = models.DatasetRequest
)

// Re-export errors
var (
	ErrInvalidRowCount = generator.ErrInvalidRowCount
	ErrBelowMinimum    = tabula.ErrBelowMinimum
	ErrAboveMaximum    = tabula.ErrAboveMaximum
	ErrInvalidName     = tabula.ErrInvalidName
	ErrCatalogDisabled = tabula.ErrCatalogDisabled
	ErrNotFound        = tabula.ErrNotFound
)

// Re-export constants
const (
	FieldCount      = types.FieldCount
	QuickRows       = types.QuickRows
	PerformanceRows = types.PerformanceRows
	MegaRows        = types.MegaRows
)
