package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/marketdesk/internal/clients/marketplace"
	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/interfaces"
	"github.com/bobmcallan/marketdesk/internal/services/admin"
	"github.com/bobmcallan/marketdesk/internal/services/notification"
	"github.com/bobmcallan/marketdesk/internal/services/portfolio"
	"github.com/bobmcallan/marketdesk/internal/services/report"
	"github.com/bobmcallan/marketdesk/internal/services/session"
	"github.com/bobmcallan/marketdesk/internal/services/trading"
	"github.com/bobmcallan/marketdesk/internal/storage/tokenstore"
)

// sessionPurgeInterval is how often expired sessions are swept from the store.
const sessionPurgeInterval = 15 * time.Minute

// App holds all initialized services and clients.
// It is the shared core used by cmd/marketdesk-server.
type App struct {
	Config              *common.Config
	Logger              *common.Logger
	SessionStore        interfaces.SessionStore
	Client              interfaces.MarketplaceClient
	SessionService      *session.Service
	PortfolioService    *portfolio.Service
	TradingService      *trading.Service
	NotificationService *notification.Service
	AdminService        *admin.Service
	ReportService       *report.Service
	StartupTime         time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes storage, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Resolution order: argument, MARKETDESK_CONFIG, binary dir, then ./config
	if configPath == "" {
		configPath = os.Getenv("MARKETDESK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "marketdesk.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/marketdesk.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative paths against the binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := tokenstore.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	return NewAppWithStore(config, logger, store), nil
}

// NewAppWithStore wires services around an already opened session store.
func NewAppWithStore(config *common.Config, logger *common.Logger, store interfaces.SessionStore) *App {
	// The login client carries no token; the shared client resolves the
	// backend token from the session in each request context.
	loginClient := marketplace.NewClient(nil,
		marketplace.WithBaseURL(config.Backend.BaseURL),
		marketplace.WithLogger(logger),
		marketplace.WithRateLimit(config.Backend.RateLimit),
		marketplace.WithTimeout(config.Backend.GetTimeout()),
	)
	sessionService := session.NewService(store, loginClient, config.Auth, logger)
	client := loginClient.WithTokens(sessionService)

	notificationService := notification.NewService(notification.NewHub(logger, config.Server.AllowedOrigins...), logger)
	sessionService.OnSessionEnd(notificationService.ClearSession)
	portfolioService := portfolio.NewService(client, logger)

	a := &App{
		Config:              config,
		Logger:              logger,
		SessionStore:        store,
		Client:              client,
		SessionService:      sessionService,
		PortfolioService:    portfolioService,
		TradingService:      trading.NewService(client, trading.ThresholdsFromConfig(config.Trading), logger),
		NotificationService: notificationService,
		AdminService:        admin.NewService(client, notificationService, logger),
		ReportService:       report.NewService(portfolioService, logger),
		StartupTime:         time.Now(),
	}

	logger.Info().
		Str("backend", config.Backend.BaseURL).
		Str("environment", config.Environment).
		Msg("Application initialized")

	return a
}

// StartScheduler launches background maintenance (session purge).
func (a *App) StartScheduler() {
	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel
	go startSessionPurger(ctx, a.SessionService, a.Logger, sessionPurgeInterval)
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
	}
	if a.SessionStore != nil {
		if err := a.SessionStore.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Session store close failed")
		}
	}
	if err := a.Logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "log close failed: %v\n", err)
	}
}
