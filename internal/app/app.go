// Package app wires configuration, clients, cache and services into the
// shared application core used by cmd/vantage-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kestrelworks/vantage/internal/cache"
	"github.com/kestrelworks/vantage/internal/clients/alpha"
	"github.com/kestrelworks/vantage/internal/clients/finq"
	"github.com/kestrelworks/vantage/internal/clients/yahoo"
	"github.com/kestrelworks/vantage/internal/common"
	"github.com/kestrelworks/vantage/internal/interfaces"
	"github.com/kestrelworks/vantage/internal/services/advisor"
	"github.com/kestrelworks/vantage/internal/services/quote"
)

// App holds all initialized services and clients.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Cache          interfaces.SnapshotCache
	Provider       interfaces.MarketDataProvider
	QuoteService   interfaces.QuoteService
	AdvisorService interfaces.AdvisorService
	StartupTime    time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, the response cache, the market
// data clients and the services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration: provided path, VANTAGE_CONFIG, binary dir, then dev fallback
	if configPath == "" {
		configPath = os.Getenv("VANTAGE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "vantage.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/vantage.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative cache path to binary directory
	if config.Cache.Path != "" && !filepath.IsAbs(config.Cache.Path) {
		config.Cache.Path = filepath.Join(binDir, config.Cache.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	app := &App{
		Config:      config,
		Logger:      logger,
		StartupTime: startupStart,
	}

	// Alternate provider responses stay valid longer, so the cache TTL
	// follows the provider choice
	cacheConfig := config.Cache
	if config.Clients.Provider == "alpha" {
		cacheConfig.TTL = cacheConfig.GetAltTTL().String()
	}

	snapshotCache, err := cache.New(logger, &cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	app.Cache = snapshotCache

	app.Provider, err = newProvider(config, logger)
	if err != nil {
		return nil, err
	}

	var fallback interfaces.QuoteProvider
	if config.Clients.Yahoo.QuoteFallback {
		fallback = finq.NewClient(logger)
	}

	app.QuoteService = quote.NewService(app.Provider, fallback, logger)
	app.AdvisorService = advisor.NewService(app.Provider, app.QuoteService, snapshotCache, logger)

	logger.Info().
		Str("provider", app.Provider.Name()).
		Str("cache_backend", config.Cache.Backend).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return app, nil
}

// newProvider builds the configured market data provider.
func newProvider(config *common.Config, logger *common.Logger) (interfaces.MarketDataProvider, error) {
	switch config.Clients.Provider {
	case "", "yahoo":
		return yahoo.NewClient(
			yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
			yahoo.WithLogger(logger),
			yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
			yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		), nil

	case "alpha":
		if config.Clients.Alpha.APIKey == "" {
			return nil, fmt.Errorf("alpha provider requires an API key (ALPHA_VANTAGE_API_KEY)")
		}
		return alpha.NewClient(config.Clients.Alpha.APIKey,
			alpha.WithBaseURL(config.Clients.Alpha.BaseURL),
			alpha.WithNewsAPIKey(config.Clients.Alpha.NewsAPIKey),
			alpha.WithLogger(logger),
			alpha.WithRateLimit(config.Clients.Alpha.RateLimit),
			alpha.WithTimeout(config.Clients.Alpha.GetTimeout()),
		), nil

	default:
		return nil, fmt.Errorf("unknown market data provider: %s (supported: yahoo, alpha)", config.Clients.Provider)
	}
}

// Close releases resources held by the application.
func (a *App) Close() error {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close cache")
			return err
		}
	}
	return nil
}
