// Package app wires configuration, storage, clients, and services into the
// shared application core used by cmd/divvy-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avaldsgard/divvy/internal/clients/yahoo"
	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/interfaces"
	"github.com/avaldsgard/divvy/internal/services/holdings"
	storage "github.com/avaldsgard/divvy/internal/storage/surrealdb"
)

// App holds all initialized services and clients. It is the shared core
// behind the HTTP server and the scheduler.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        *storage.Manager
	QuoteClient    interfaces.QuoteClient
	HoldingService interfaces.HoldingService
	StartupTime    time.Time

	scheduler *cron.Cron
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, DIVVY_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("DIVVY_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "divvy.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/divvy.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	quoteClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	classifier, err := holdings.NewClassifier(config.Valuation.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("invalid recommendation thresholds: %w", err)
	}

	holdingService := holdings.NewService(
		storageManager.HoldingStore(),
		quoteClient,
		classifier,
		holdings.ServiceConfig{
			DiscountPct:     config.Valuation.DiscountPct,
			RequestInterval: config.Sync.GetRequestInterval(),
		},
		logger,
	)

	a := &App{
		Config:         config,
		Logger:         logger,
		Storage:        storageManager,
		QuoteClient:    quoteClient,
		HoldingService: holdingService,
		StartupTime:    startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, close storage.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
