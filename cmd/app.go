/*
Package cmd wires configuration, logging, persistence, payment gateways,
services and the HTTP router into a runnable application.

The wallet ledger and the user/store/product directories are boundaries to
services owned by other teams; this process ships in-memory implementations
for local development and tests.
*/
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketbill/api"
	apibill "marketbill/api/bill"
	"marketbill/api/health"
	billapp "marketbill/application/bill"
	"marketbill/config"
	"marketbill/domain/bill"
	"marketbill/domain/payment"
	"marketbill/infrastructure/persistence/mocks"
	"marketbill/infrastructure/persistence/mysql"
	"marketbill/infrastructure/persistence/retry"
	"marketbill/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App Application instance
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
	db     *gorm.DB
}

// NewApp loads configuration, initializes the logger and wires every
// component together.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env))

	var db *gorm.DB
	var billRepo bill.Repository

	if cfg.Database.Type == "mysql" {
		logger.Info("Using MySQL/GORM persistence layer")
		db, err = connectMySQL(cfg)
		if err != nil {
			return nil, err
		}
		billRepo = mysql.NewBillRepositoryWithRetry(db, retryConfig(cfg.Database.Retry))
	} else {
		logger.Info("Using in-memory persistence layer")
		billRepo = mocks.NewMockBillRepository()
	}

	// Collaborator services are external; in-memory stand-ins here.
	wallet := mocks.NewMockWalletLedger()
	users := mocks.NewMockUserDirectory()
	stores := mocks.NewMockStoreDirectory()
	products := mocks.NewMockProductCatalog()

	registry := payment.NewRegistry(cfg.Payment.GatewayTimeout)
	registry.Register(bill.MethodBankTransfer, &payment.BankTransferGateway{BaseURL: cfg.Payment.BankTransferURL})
	registry.Register(bill.MethodMobileWallet, &payment.MobileWalletGateway{})
	registry.Register(bill.MethodGift, &payment.GiftGateway{})
	// Cash settles on delivery, outside this core.
	registry.Register(bill.MethodCash, &payment.GiftGateway{})

	billService := billapp.NewService(billRepo, wallet, users, stores, products, registry, cfg.Pagination)
	statsService := billapp.NewStatisticsService(billRepo)

	healthController := health.NewController(cfg, sqlDB(db))
	billController := apibill.NewController(billService, statsService, stores)

	router := api.NewRouter(cfg, healthController, billController)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		config: cfg,
		router: router,
		server: server,
		db:     db,
	}, nil
}

func retryConfig(cfg config.DBRetryConfig) retry.Config {
	return retry.Config{
		Enabled:            cfg.Enabled,
		MaxAttempts:        cfg.MaxAttempts,
		InitialDelay:       cfg.InitialDelay,
		MaxDelay:           cfg.MaxDelay,
		BackoffFactor:      cfg.BackoffFactor,
		JitterEnabled:      cfg.JitterEnabled,
		RetryOnDeadlock:    cfg.RetryOnDeadlock,
		RetryOnLockTimeout: cfg.RetryOnLockTimeout,
	}
}

func connectMySQL(cfg *config.Config) (*gorm.DB, error) {
	mysqlConfig := &mysql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		LogLevel:        cfg.Database.LogLevel,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := mysqlConfig.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	if cfg.IsDevelopment() {
		if err := mysql.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	return db, nil
}

func sqlDB(db *gorm.DB) *sql.DB {
	if db == nil {
		return nil
	}
	sdb, err := db.DB()
	if err != nil {
		return nil
	}
	return sdb
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully within the configured timeout.
func (a *App) Run() error {
	go func() {
		logger.Info("Server starting", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.db != nil {
		if sdb := sqlDB(a.db); sdb != nil {
			if err := sdb.Close(); err != nil {
				logger.Warn("Failed to close database", zap.Error(err))
			}
		}
	}

	logger.Info("Server stopped")
	_ = logger.Sync()
	return nil
}

// GetEngine exposes the gin engine for tests.
func (a *App) GetEngine() http.Handler {
	return a.router.GetEngine()
}
