package models

// GenerateDatasetRequest represents the request body for creating a dataset
type GenerateDatasetRequest struct {
	Rows int64  `json:"rows"`
	Name string `json:"name,omitempty"`
	Seed int64  `json:"seed,omitempty"`
}
