package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/megasena-sim/internal/api/handlers"
	"github.com/stitts-dev/megasena-sim/internal/api/middleware"
	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/jobs"
	"github.com/stitts-dev/megasena-sim/internal/sampler"
	"github.com/stitts-dev/megasena-sim/internal/services"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/internal/web"
	"github.com/stitts-dev/megasena-sim/pkg/config"
	"github.com/stitts-dev/megasena-sim/pkg/database"
)

// rateLimitIdle is how long an idle client's bucket is kept.
const rateLimitIdle = 10 * time.Minute

// Dependencies are the long-lived services the HTTP layer works with.
// DB, Repo, Cache, Source and Scheduler are optional.
type Dependencies struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Store     *draws.Store
	Source    draws.Source
	Repo      *draws.Repository
	Sessions  *session.Manager
	Sampler   *sampler.Sampler
	DB        *database.DB
	Cache     *services.CacheService
	Scheduler *jobs.Scheduler
}

// NewRouter builds the engine with middleware, the dashboard page and the
// versioned API.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".png", ".pdf", ".xlsx"}),
		gzip.WithExcludedPaths([]string{"/api/v1/export/pdf", "/api/v1/export/xlsx"}),
	))
	router.Use(session.Sessions(cfg.SessionSecret, cfg.SessionTTL))
	router.Use(session.Middleware())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.DB, deps.Cache, deps.Scheduler)
	dashboardHandler := web.NewDashboardHandler(deps.Store, cfg.MaxTickets)

	router.GET("/", dashboardHandler.Index)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	SetupRoutes(router.Group("/api/v1"), deps)
	return router, nil
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	cfg := deps.Config

	parseOpts := draws.ParseOptions{Sheet: cfg.DrawSheet, HeaderRows: cfg.DrawHeaderRows}
	exportService := services.NewExportService()
	limiter := middleware.RateLimit(services.NewClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitIdle))

	datasetHandler := handlers.NewDatasetHandler(deps.Store, deps.Source, deps.Repo, parseOpts, cfg.MaxUploadMB, deps.Logger)
	sessionHandler := handlers.NewSessionHandler(deps.Store, deps.Sessions)
	drawsHandler := handlers.NewDrawsHandler(deps.Store, deps.Sessions)
	frequencyHandler := handlers.NewFrequencyHandler(deps.Store, deps.Sessions)
	ticketsHandler := handlers.NewTicketsHandler(deps.Store, deps.Sessions, deps.Sampler, cfg.TicketSize, cfg.MaxTickets)
	exportHandler := handlers.NewExportHandler(deps.Sessions, exportService)

	// Dataset endpoints
	group.GET("/dataset", datasetHandler.GetDataset)
	group.POST("/dataset/upload", limiter, datasetHandler.UploadDataset)
	group.POST("/dataset/reload", limiter, datasetHandler.ReloadDataset)

	// Session endpoints
	group.GET("/session", sessionHandler.GetSession)
	group.PUT("/session/filter", sessionHandler.UpdateFilter)
	group.DELETE("/session", sessionHandler.ResetSession)

	// Draw history and frequency
	group.GET("/draws", drawsHandler.ListDraws)
	group.GET("/frequency", frequencyHandler.GetFrequency)
	group.GET("/frequency/chart.png", frequencyHandler.GetFrequencyChart)
	group.POST("/frequency/lookup", frequencyHandler.LookupNumbers)
	group.GET("/frequency/lookup/chart.png", frequencyHandler.GetLookupChart)

	// Ticket simulation
	group.POST("/tickets/generate", limiter, ticketsHandler.GenerateTickets)
	group.GET("/tickets", ticketsHandler.ListTickets)
	group.DELETE("/tickets", ticketsHandler.ClearTickets)

	// Export endpoints
	group.GET("/export/formats", exportHandler.GetExportFormats)
	group.GET("/export/:format", limiter, exportHandler.ExportTickets)

	group.GET("/glossary", handlers.GetGlossaryTerms)
}
