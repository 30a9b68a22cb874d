package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/megasena-sim/internal/api"
	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/jobs"
	"github.com/stitts-dev/megasena-sim/internal/sampler"
	"github.com/stitts-dev/megasena-sim/internal/services"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/pkg/config"
	"github.com/stitts-dev/megasena-sim/pkg/database"
	"github.com/stitts-dev/megasena-sim/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Optional draw archive
	var (
		db   *database.DB
		repo *draws.Repository
	)
	if cfg.DatabaseURL != "" {
		db, err = database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		repo = draws.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			log.Fatalf("Failed to migrate draw archive: %v", err)
		}
	}

	scheduler := jobs.NewScheduler(log)

	// Sessions live in Redis when configured, in memory otherwise
	var (
		cacheService *services.CacheService
		sessionStore session.Store
	)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		cacheService = services.NewCacheService(redisClient)
		sessionStore = session.NewRedisStore(cacheService, cfg.SessionTTL)
	} else {
		memStore := session.NewMemoryStore(cfg.SessionTTL)
		if err := scheduler.Add(jobs.SweepJobID, "Expire idle sessions", jobs.SweepSchedule, jobs.SweepSessions(memStore, log)); err != nil {
			log.Fatalf("Failed to schedule session sweep: %v", err)
		}
		sessionStore = memStore
	}

	// Load draws
	parseOpts := draws.ParseOptions{Sheet: cfg.DrawSheet, HeaderRows: cfg.DrawHeaderRows, Logger: log}
	source, err := draws.NewSource(cfg.DrawSource, parseOpts, repo, cfg.ExternalAPITimeout, cfg.CircuitBreakerThreshold, log)
	if err != nil {
		log.WithError(err).Warn("No usable draw source, waiting for an upload")
	}

	store := draws.NewStore(log)
	if source != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := store.Reload(ctx, source); err != nil {
			log.WithError(err).Warn("Initial draw load failed, dashboard starts empty")
		}
		cancel()

		if cfg.ReloadSchedule != "" {
			if err := scheduler.Add(jobs.ReloadJobID, "Reload draw history", cfg.ReloadSchedule, jobs.ReloadDataset(store, source)); err != nil {
				log.Fatalf("Failed to schedule dataset reload: %v", err)
			}
		}
	}

	scheduler.Start()
	defer scheduler.Stop()

	router, err := api.NewRouter(api.Dependencies{
		Config:    cfg,
		Logger:    log,
		Store:     store,
		Source:    source,
		Repo:      repo,
		Sessions:  session.NewManager(sessionStore),
		Sampler:   sampler.NewSeeded(cfg.RandomSeed),
		DB:        db,
		Cache:     cacheService,
		Scheduler: scheduler,
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	// Log all registered routes
	log.Debug("=== REGISTERED ROUTES ===")
	for _, route := range router.Routes() {
		log.Debugf("%s %s", route.Method, route.Path)
	}

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
