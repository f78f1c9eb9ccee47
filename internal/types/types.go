package types

import (
	"time"
)

// Config represents the complete configuration for Tabula
type Config struct {
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	API       APIConfig       `json:"api" yaml:"api"`
}

// GeneratorConfig represents the row generation settings
type GeneratorConfig struct {
	MinRows             int64 `json:"min_rows" yaml:"min_rows"`
	MaxRows             int64 `json:"max_rows" yaml:"max_rows"` // 0 means no upper bound
	ProgressInterval    int64 `json:"progress_interval" yaml:"progress_interval"`
	BytesPerRowEstimate int64 `json:"bytes_per_row_estimate" yaml:"bytes_per_row_estimate"`
	MegaThreshold       int64 `json:"mega_threshold" yaml:"mega_threshold"`
	Seed                int64 `json:"seed" yaml:"seed"` // 0 picks a time-based seed per run
}

// OutputConfig represents where generated files are written
type OutputConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// CatalogConfig represents the DuckDB dataset catalog configuration
// An empty DBPath disables the catalog
type CatalogConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// APIConfig represents the HTTP API configuration
type APIConfig struct {
	Host           string   `json:"host" yaml:"host"`
	Port           int      `json:"port" yaml:"port"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// Dataset represents one generated CSV file recorded in the catalog
type Dataset struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Path           string    `json:"path" db:"path"`
	Rows           int64     `json:"rows" db:"rows"`
	Columns        int       `json:"columns" db:"columns"`
	Bytes          int64     `json:"bytes" db:"bytes"`                     // Actual size on disk
	EstimatedBytes int64     `json:"estimated_bytes" db:"estimated_bytes"` // rows * bytes_per_row_estimate
	Checksum       string    `json:"checksum" db:"checksum"`               // Hex SHA-256 of the file contents
	Seed           int64     `json:"seed" db:"seed"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	DurationMS     int64     `json:"duration_ms" db:"duration_ms"`
}

// FileStats represents what DuckDB reads back out of a generated CSV
type FileStats struct {
	Rows        int64 `json:"rows"`
	Columns     int   `json:"columns"`
	MinID       int64 `json:"min_id"`
	MaxID       int64 `json:"max_id"`
	DistinctIDs int64 `json:"distinct_ids"`
}

// Verification represents the result of checking a dataset file against its catalog entry
type Verification struct {
	DatasetID     string    `json:"dataset_id"`
	Stats         FileStats `json:"stats"`
	Checksum      string    `json:"checksum"`
	ChecksumMatch bool      `json:"checksum_match"`
	Valid         bool      `json:"valid"`
	Problems      []string  `json:"problems,omitempty"`
}

// FieldInfo describes one column of the record schema
type FieldInfo struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
}

// APIResponse represents a generic API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// FieldCount is the number of columns in every generated record
const FieldCount = 15

// Default dataset sizes produced when the CLI runs without arguments
const (
	QuickRows       = 10_000
	PerformanceRows = 100_000
	MegaRows        = 1_000_000
)
