package tabula

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Project-Sylos/Tabula/internal/config"
	"github.com/Project-Sylos/Tabula/internal/db"
	"github.com/Project-Sylos/Tabula/internal/generator"
	"github.com/Project-Sylos/Tabula/internal/tabula/models"
	"github.com/Project-Sylos/Tabula/internal/types"
	"github.com/Project-Sylos/Tabula/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

var (
	// ErrBelowMinimum is returned when the row count is under the recommended floor
	ErrBelowMinimum = errors.New("row count below recommended minimum")
	// ErrAboveMaximum is returned when the row count exceeds the configured cap
	ErrAboveMaximum = errors.New("row count above configured maximum")
	// ErrInvalidName is returned for dataset names that are not bare file names
	ErrInvalidName = errors.New("invalid dataset name")
	// ErrCatalogDisabled is returned by catalog operations when no catalog is configured
	ErrCatalogDisabled = errors.New("dataset catalog is disabled")
	// ErrNotFound is returned when a dataset ID is unknown
	ErrNotFound = db.ErrNotFound
)

// Tabula ties the generator, output directory and dataset catalog together
type Tabula struct {
	cfg *types.Config
	db  *db.DB // nil when the catalog is disabled

	// Generation is single-writer; concurrent requests queue here
	genMu sync.Mutex
}

// NewTabula creates a new Tabula instance from a config file
func NewTabula(configPath string) (*Tabula, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a new Tabula instance from an in-memory config
func NewWithConfig(cfg *types.Config) (*Tabula, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	t := &Tabula{cfg: cfg}
	if cfg.Catalog.DBPath != "" {
		database, err := db.New(cfg.Catalog.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		t.db = database
	}

	return t, nil
}

// CheckRows applies the recommended floor and the configured cap to a row count
func (t *Tabula) CheckRows(rows int64) error {
	gen := t.cfg.Generator
	if rows <= 0 {
		return fmt.Errorf("%w: got %d", generator.ErrInvalidRowCount, rows)
	}
	if rows < gen.MinRows {
		return fmt.Errorf("%w: minimum %s rows recommended, got %d", ErrBelowMinimum, humanize.Comma(gen.MinRows), rows)
	}
	if gen.MaxRows > 0 && rows > gen.MaxRows {
		return fmt.Errorf("%w: maximum is %s rows, got %s", ErrAboveMaximum, humanize.Comma(gen.MaxRows), humanize.Comma(rows))
	}
	return nil
}

// IsMega reports whether a row count uses the mega naming convention
func (t *Tabula) IsMega(rows int64) bool {
	return generator.IsMega(rows, t.cfg.Generator.MegaThreshold)
}

// FileName returns the conventional output name for a row count
func (t *Tabula) FileName(rows int64) string {
	return generator.FileName(rows, t.cfg.Generator.MegaThreshold)
}

func (t *Tabula) outputPath(name string) (string, error) {
	path, ok := utils.JoinOutputPath(t.cfg.Output.Dir, name)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a bare file name", ErrInvalidName, name)
	}
	return path, nil
}

// Generate writes one dataset to the output directory and records it in the catalog
func (t *Tabula) Generate(req *models.GenerateRequest) (*types.Dataset, error) {
	if req == nil {
		return nil, fmt.Errorf("generate request cannot be nil")
	}
	if err := t.CheckRows(req.Rows); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = t.FileName(req.Rows)
	}
	path, err := t.outputPath(name)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = t.cfg.Generator.Seed
	}

	t.genMu.Lock()
	defer t.genMu.Unlock()

	summary, err := generator.GenerateFile(path, req.Rows, generator.Options{
		Seed:                seed,
		ProgressInterval:    t.cfg.Generator.ProgressInterval,
		BytesPerRowEstimate: t.cfg.Generator.BytesPerRowEstimate,
		Reporter:            req.Reporter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", name, err)
	}

	dataset := &types.Dataset{
		ID:             uuid.New().String(),
		Name:           name,
		Path:           summary.Path,
		Rows:           summary.Rows,
		Columns:        summary.Columns,
		Bytes:          summary.Bytes,
		EstimatedBytes: summary.EstimatedBytes,
		Checksum:       summary.Checksum,
		Seed:           summary.Seed,
		CreatedAt:      time.Now().UTC(),
		DurationMS:     summary.Duration.Milliseconds(),
	}

	if t.db != nil {
		if err := t.db.InsertDataset(dataset); err != nil {
			// An uncatalogued file would be invisible to list, verify and delete
			if rmErr := generator.RemovePartial(path); rmErr != nil {
				return nil, fmt.Errorf("failed to record dataset: %w (cleanup of %s also failed: %v)", err, path, rmErr)
			}
			return nil, fmt.Errorf("failed to record dataset: %w", err)
		}
	}

	return dataset, nil
}

func (t *Tabula) catalog() (*db.DB, error) {
	if t.db == nil {
		return nil, ErrCatalogDisabled
	}
	return t.db, nil
}

// GetDataset retrieves a dataset by ID
func (t *Tabula) GetDataset(req *models.DatasetRequest) (*types.Dataset, error) {
	catalog, err := t.catalog()
	if err != nil {
		return nil, err
	}
	return catalog.GetDataset(req.ID)
}

// ListDatasets returns every dataset in the catalog
func (t *Tabula) ListDatasets() ([]*types.Dataset, error) {
	catalog, err := t.catalog()
	if err != nil {
		return nil, err
	}
	return catalog.ListDatasets()
}

// CountDatasets returns the number of catalogued datasets
func (t *Tabula) CountDatasets() (int, error) {
	catalog, err := t.catalog()
	if err != nil {
		return 0, err
	}
	return catalog.CountDatasets()
}

// DeleteDataset removes the dataset file and its catalog entry
func (t *Tabula) DeleteDataset(req *models.DatasetRequest) error {
	catalog, err := t.catalog()
	if err != nil {
		return err
	}

	dataset, err := catalog.GetDataset(req.ID)
	if err != nil {
		return err
	}

	t.genMu.Lock()
	defer t.genMu.Unlock()

	if err := os.Remove(dataset.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", dataset.Path, err)
	}
	return catalog.DeleteDataset(req.ID)
}

// Verify re-reads a dataset file and compares it with its catalog entry
func (t *Tabula) Verify(req *models.DatasetRequest) (*types.Verification, error) {
	catalog, err := t.catalog()
	if err != nil {
		return nil, err
	}

	dataset, err := catalog.GetDataset(req.ID)
	if err != nil {
		return nil, err
	}

	t.genMu.Lock()
	defer t.genMu.Unlock()

	stats, err := catalog.VerifyFile(dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to verify %s: %w", dataset.Name, err)
	}
	checksum, err := generator.ChecksumFile(dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to verify %s: %w", dataset.Name, err)
	}

	result := &types.Verification{
		DatasetID:     dataset.ID,
		Stats:         *stats,
		Checksum:      checksum,
		ChecksumMatch: checksum == dataset.Checksum,
	}

	if stats.Rows != dataset.Rows {
		result.Problems = append(result.Problems, fmt.Sprintf("expected %d rows, found %d", dataset.Rows, stats.Rows))
	}
	if stats.Columns != types.FieldCount {
		result.Problems = append(result.Problems, fmt.Sprintf("expected %d columns, found %d", types.FieldCount, stats.Columns))
	}
	if stats.MinID != 1 || stats.MaxID != dataset.Rows || stats.DistinctIDs != dataset.Rows {
		result.Problems = append(result.Problems, fmt.Sprintf("IDs are not contiguous 1..%d (min %d, max %d, distinct %d)", dataset.Rows, stats.MinID, stats.MaxID, stats.DistinctIDs))
	}
	if !result.ChecksumMatch {
		result.Problems = append(result.Problems, "checksum does not match catalog")
	}
	result.Valid = len(result.Problems) == 0

	return result, nil
}

// Schema describes the generated columns
func (t *Tabula) Schema() []types.FieldInfo {
	return generator.DefaultSchema().Info()
}

// GetConfig returns the current configuration
func (t *Tabula) GetConfig() *types.Config {
	return t.cfg
}

// CatalogEnabled reports whether datasets are being recorded
func (t *Tabula) CatalogEnabled() bool {
	return t.db != nil
}

// Close closes the catalog connection
func (t *Tabula) Close() error {
	if t.db == nil {
		return nil
	}
	return t.db.Close()
}
