package handlers

import (
	"net/http"

	"github.com/Project-Sylos/Tabula/sdk"
)

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	BaseHandler
	tb *sdk.Tabula
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(tb *sdk.Tabula) *SystemHandler {
	return &SystemHandler{
		tb: tb,
	}
}

// GetConfig handles the get config endpoint
func (h *SystemHandler) GetConfig(w http.ResponseWriter, req *http.Request) {
	h.sendSuccess(w, "Config retrieved successfully", h.tb.GetConfig())
}

// GetSchema handles the get schema endpoint
func (h *SystemHandler) GetSchema(w http.ResponseWriter, req *http.Request) {
	h.sendSuccess(w, "Schema retrieved successfully", h.tb.Schema())
}
