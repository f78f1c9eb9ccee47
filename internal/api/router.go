package api

import (
	"time"

	"github.com/Project-Sylos/Tabula/internal/api/handlers"
	"github.com/Project-Sylos/Tabula/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultRequestTimeout bounds every route except dataset generation, verification and download
const DefaultRequestTimeout = 60 * time.Second

// Router represents the HTTP API router
type Router struct {
	tb      *sdk.Tabula
	timeout time.Duration
}

// NewRouter creates a new API router
func NewRouter(tb *sdk.Tabula) *Router {
	return &Router{tb: tb, timeout: DefaultRequestTimeout}
}

// SetupRoutes configures all API routes using modular handlers
func (r *Router) SetupRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Standard middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)

	// An empty origin list allows any origin
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: r.tb.GetConfig().API.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	datasetHandler := handlers.NewDatasetHandler(r.tb)
	systemHandler := handlers.NewSystemHandler(r.tb)

	// Quick routes share the request timeout
	router.Group(func(quick chi.Router) {
		quick.Use(middleware.Timeout(r.timeout))

		quick.Get("/health", healthHandler.HealthCheck)

		quick.Get("/api/v1/datasets", datasetHandler.ListDatasets)
		quick.Get("/api/v1/datasets/{id}", datasetHandler.GetDataset)
		quick.Delete("/api/v1/datasets/{id}", datasetHandler.DeleteDataset)

		// System operations
		quick.Get("/api/v1/schema", systemHandler.GetSchema)
		quick.Get("/api/v1/config", systemHandler.GetConfig)
	})

	// Generation, verification and download run as long as the dataset needs;
	// none of them observe the request context
	router.Post("/api/v1/datasets", datasetHandler.CreateDataset)
	router.Get("/api/v1/datasets/{id}/verify", datasetHandler.VerifyDataset)
	router.Get("/api/v1/datasets/{id}/download", datasetHandler.DownloadDataset)

	return router
}
