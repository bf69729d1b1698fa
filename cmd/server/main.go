package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/cadrisk/internal/logging"
	"github.com/Skufu/cadrisk/internal/model"
	"github.com/Skufu/cadrisk/internal/observability"
	"github.com/Skufu/cadrisk/internal/predict"
)

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// The service cannot answer anything without the model.
	modelPath := resolveModelPath(cfg.ModelPath)
	artifact, err := model.LoadArtifact(modelPath)
	if err != nil {
		logger.Fatal("failed to load model", zap.String("path", modelPath), zap.Error(err))
	}
	summary := artifact.Summary()
	logger.Info("model loaded",
		zap.String("path", modelPath),
		zap.String("classifier", summary.ClassifierKind),
		zap.Int("features", summary.OutputWidth),
	)

	svc, err := predict.NewService(artifact, cfg.CacheSize)
	if err != nil {
		logger.Fatal("prediction service", zap.Error(err))
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics("")
		metrics.ModelLoaded.SetToCurrentTime()
	}

	staticRoot := cfg.StaticRoot
	if staticRoot == "" {
		staticRoot = detectStaticRoot()
	}
	router := setupRouter(&api{
		predictor: svc,
		model:     artifact,
		metrics:   metrics,
		logger:    logger,
	}, staticRoot, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("addr", server.Addr), zap.String("static_root", staticRoot))
	waitForShutdown(server, logger)
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// detectStaticRoot looks for web/index.html next to the executable and then
// upwards from the working directory.
func detectStaticRoot() string {
	candidates := []string{}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "web"))
	}

	startDir, err := os.Getwd()
	if err != nil {
		startDir = "."
	}
	candidates = append(candidates,
		filepath.Join(startDir, "web"),
		filepath.Join(filepath.Dir(startDir), "web"),
		filepath.Join(filepath.Dir(filepath.Dir(startDir)), "web"),
	)

	for _, dir := range candidates {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
	}

	return filepath.Join(startDir, "web")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
