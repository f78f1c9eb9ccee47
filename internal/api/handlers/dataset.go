package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/Project-Sylos/Tabula/internal/api/models"
	"github.com/Project-Sylos/Tabula/internal/types"
	"github.com/Project-Sylos/Tabula/sdk"
	"github.com/go-chi/chi/v5"
)

// DatasetHandler handles dataset endpoints
type DatasetHandler struct {
	BaseHandler
	tb     *sdk.Tabula
	logger *log.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(tb *sdk.Tabula) *DatasetHandler {
	return &DatasetHandler{
		tb:     tb,
		logger: log.Default(),
	}
}

// datasetID extracts the {id} URL parameter, writing a 400 when it is missing
func (h *DatasetHandler) datasetID(w http.ResponseWriter, req *http.Request) (string, bool) {
	id := chi.URLParam(req, "id")
	if id == "" {
		h.sendError(w, http.StatusBadRequest, "dataset id is required")
		return "", false
	}
	return id, true
}

// CreateDataset handles the create dataset endpoint
func (h *DatasetHandler) CreateDataset(w http.ResponseWriter, req *http.Request) {
	var request models.GenerateDatasetRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dataset, err := h.tb.Generate(&sdk.GenerateRequest{
		Rows:     request.Rows,
		Name:     request.Name,
		Seed:     request.Seed,
		Reporter: &sdk.LogReporter{Logger: h.logger},
	})
	if err != nil {
		h.sendError(w, statusFor(err), fmt.Sprintf("Failed to generate dataset: %v", err))
		return
	}

	h.sendJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "Dataset generated successfully",
		Data:    dataset,
	})
}

// ListDatasets handles the list datasets endpoint
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, req *http.Request) {
	datasets, err := h.tb.ListDatasets()
	if err != nil {
		h.sendError(w, statusFor(err), fmt.Sprintf("Failed to list datasets: %v", err))
		return
	}

	h.sendSuccess(w, "Datasets retrieved successfully", datasets)
}

// GetDataset handles the get dataset endpoint
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, req *http.Request) {
	id, ok := h.datasetID(w, req)
	if !ok {
		return
	}

	dataset, err := h.tb.GetDataset(&sdk.DatasetRequest{ID: id})
	if err != nil {
		h.sendError(w, statusFor(err), fmt.Sprintf("Failed to get dataset: %v", err))
		return
	}

	h.sendSuccess(w, "Dataset retrieved successfully", dataset)
}

// DeleteDataset handles the delete dataset endpoint
func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, req *http.Request) {
	id, ok := h.datasetID(w, req)
	if !ok {
		return
	}

	if err := h.tb.DeleteDataset(&sdk.DatasetRequest{ID: id}); err != nil {
		h.sendError(w, statusFor(err), fmt.Sprintf("Failed to delete dataset: %v", err))
		return
	}

	h.sendSuccess(w, "Dataset deleted successfully", nil)
}

// VerifyDataset handles the verify dataset endpoint
func (h *DatasetHandler) VerifyDataset(w http.ResponseWriter, req *http.Request) {
	id, ok := h.datasetID(w, req)
	if !ok {
		return
	}

	result, err := h.tb.Verify(&sdk.DatasetRequest{ID: id})
	if err != nil {
		h.sendError(w, statusFor(err), fmt.Sprintf("Failed to verify dataset: %v", err))
		return
	}

	h.sendSuccess(w, "Dataset verified", result)
}

// DownloadDataset streams the dataset file as CSV
func (h *DatasetHandler) DownloadDataset(w http.ResponseWriter, req *http.Request) {
	id, ok := h.datasetID(w, req)
	if !ok {
		return
	}

	dataset, err := h.tb.GetDataset(&sdk.DatasetRequest{ID: id})
	if err != nil {
		h.sendError(w, statusFor(err), fmt.Sprintf("Failed to get dataset: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(dataset.Path)))
	http.ServeFile(w, req, dataset.Path)
}
