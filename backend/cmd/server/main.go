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
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"castgraph/backend/internal/adapter"
	"castgraph/backend/internal/api"
	"castgraph/backend/internal/export"
	"castgraph/backend/internal/roster"
	"castgraph/backend/pkg/config"
	"castgraph/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting castgraph server...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	exporter, closeExporter := newExporter(cfg, log)
	defer closeExporter()

	// Initialize dependencies
	store := roster.NewStore()
	llmAdapter := adapter.NewLLMAdapter(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, adapter.Options{
		Model:       cfg.ModelID,
		MaxTokens:   cfg.NameMaxTokens,
		MaxAttempts: cfg.NameMaxAttempts,
	})

	server := api.NewServer(store, llmAdapter, exporter)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Router(cfg.StaticFileDirectory),
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("addr", cfg.ListenAddr),
		zap.String("static_dir", cfg.StaticFileDirectory),
		zap.String("model", cfg.ModelID),
		zap.Bool("export_enabled", exporter != nil),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newExporter connects to Neo4j when it is configured. Export stays disabled
// (nil exporter) when it isn't, or when the database can't be reached.
func newExporter(cfg *config.Config, log *zap.Logger) (api.Exporter, func()) {
	noop := func() {}
	if !cfg.ExportEnabled() {
		return nil, noop
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Error("Failed to create Neo4j driver; export disabled", zap.Error(err))
		return nil, noop
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Error("Failed to verify Neo4j connectivity; export disabled", zap.Error(err))
		driver.Close(context.Background())
		return nil, noop
	}

	repo := export.NewRepository(driver)
	return repo, func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Warn("Failed to close Neo4j driver", zap.Error(err))
		}
	}
}
