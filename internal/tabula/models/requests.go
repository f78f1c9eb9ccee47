package models

import "github.com/Project-Sylos/Tabula/internal/generator"

// GenerateRequest represents the request to generate one dataset
//
// Rows is required. Name defaults to the conventional file name for Rows
// (sample_<k>k.csv or mega_sample_<k>k.csv) and must be a bare file name.
// Seed of 0 falls back to the configured seed, and then to a time-based one.
type GenerateRequest struct {
	Rows int64  `json:"rows"`
	Name string `json:"name,omitempty"`
	Seed int64  `json:"seed,omitempty"`

	// Reporter receives progress notifications; nil discards them
	Reporter generator.Reporter `json:"-"`
}

// DatasetRequest identifies a dataset in the catalog
type DatasetRequest struct {
	ID string `json:"id"`
}
