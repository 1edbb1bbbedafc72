package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baristabot/internal/access"
	"baristabot/internal/actions"
	"baristabot/internal/config"
	"baristabot/internal/conversation"
	"baristabot/internal/dedup"
	"baristabot/internal/dispatch"
	"baristabot/internal/flows"
	"baristabot/internal/handler"
	"baristabot/internal/menu"
	"baristabot/internal/metrics"
	"baristabot/internal/middleware"
	"baristabot/internal/repository/postgres"
	"baristabot/internal/scheduler"
	"baristabot/internal/service"
	"baristabot/internal/telegram"
	"baristabot/internal/wizard"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Barista Bot",
		zap.String("timezone", cfg.Location.String()),
		zap.Int("bootstrap_admins", len(cfg.AdminIDs)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("user_id", c.Sender().ID))
			}
			logger.Error("Telegram handler error", fields...)
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	history := telegram.NewHistory(telegram.DefaultHistorySize)
	sender := telegram.NewSender(bot, history, logger)

	logger.Info("Telegram bot initialized")

	// Initialize repositories
	repos := postgres.NewRepos(db)
	tx := postgres.NewTxRunner(db)

	// Initialize services
	cron := scheduler.New(cfg.Location, logger)

	roleService := service.NewRoleService(repos.Users, tx, logger)
	catalogService := service.NewCatalogService(repos.Products, logger)
	customerService := service.NewCustomerService(repos.Customers, tx, logger)
	purchaseService := service.NewPurchaseService(repos.Customers, repos.Bonuses, tx, logger)
	bonusService := service.NewBonusService(repos.Bonuses, logger)
	reportService := service.NewReportService(repos.Reports, tx, logger)
	reminderService := service.NewReminderService(repos.Reminders, cron, sender, logger)
	inventoryService := service.NewInventoryService(repos.Inventory, tx, logger)
	statsService := service.NewStatsService(repos.Users, repos.Customers, repos.Reports, repos.Inventory, logger)

	// Routing and menus
	router, err := access.NewRouter(roleService, actions.Routes()...)
	if err != nil {
		logger.Fatal("Failed to build menu router", zap.Error(err))
	}
	menus := menu.NewProvider(router, roleService)

	// Wizards
	lists := conversation.NewMemoryLists()
	states := conversation.NewMemoryStore()
	if err := metrics.RegisterActiveWizards(prometheus.DefaultRegisterer, states.Active); err != nil {
		logger.Fatal("Failed to register wizard gauge", zap.Error(err))
	}
	engine := wizard.NewEngine(states, lists, sender, menus, menu.WizardLabels(), logger)
	if err := engine.Register(flows.Definitions(flows.Deps{
		Roles:     roleService,
		Catalog:   catalogService,
		Customers: customerService,
		Purchases: purchaseService,
		Bonuses:   bonusService,
		Reports:   reportService,
		Reminders: reminderService,
		Inventory: inventoryService,
		Lists:     lists,
	})...); err != nil {
		logger.Fatal("Failed to register wizards", zap.Error(err))
	}

	handlers := actions.New(actions.Options{
		Services: actions.Services{
			Roles:     roleService,
			Catalog:   catalogService,
			Customers: customerService,
			Bonuses:   bonusService,
			Reports:   reportService,
			Reminders: reminderService,
			Inventory: inventoryService,
			Stats:     statsService,
		},
		Wizards:   engine,
		Transport: sender,
		Menus:     menus,
		Lists:     lists,
		Cleaner:   sender,
		Logger:    logger,
	})

	controller := dispatch.NewController(dispatch.Options{
		Wizards:   engine,
		Lists:     lists,
		Router:    router,
		Actions:   handlers.Registry(),
		Finders:   handlers.Finders(),
		Transport: sender,
		Menus:     menus,
		Logger:    logger,
	})

	// Middleware
	checker, err := newDedupChecker(ctx, cfg.RedisAddr, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	bot.Use(
		middleware.Recover(logger),
		middleware.EnsureAccount(roleService, logger),
		middleware.DedupCallbacks(checker, logger),
	)

	// Initialize handler
	h := handler.NewHandler(bot, controller, history, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	if err := roleService.BootstrapAdmins(ctx, cfg.AdminIDs); err != nil {
		logger.Error("Failed to bootstrap admins", zap.Error(err))
	}

	cron.Start()
	if n, err := reminderService.RescheduleAll(ctx); err != nil {
		logger.Error("Failed to restore reminders", zap.Error(err))
	} else {
		logger.Info("Reminders restored", zap.Int("count", n))
	}

	// Start background jobs
	go runCleanupJob(ctx, statsService, logger)

	metricsServer := startMetricsServer(cfg.MetricsAddr, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cron.Stop()
	cancel()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
		shutdownCancel()
	}

	logger.Info("Bot stopped gracefully")
}

// newLogger builds a production logger at level, or a development one for debug
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = atomic
	return zcfg.Build()
}

// newDedupChecker uses redis when addr is set and falls back to process memory
func newDedupChecker(ctx context.Context, addr string, logger *zap.Logger) (dedup.Checker, error) {
	if addr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory callback dedup")
		return dedup.NewMemoryChecker(dedup.DefaultTTL), nil
	}

	client, err := dedup.Connect(ctx, addr)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	logger.Info("Redis callback dedup enabled", zap.String("addr", addr))
	return dedup.NewRedisChecker(client, dedup.DefaultTTL), nil
}

// startMetricsServer exposes /metrics; an empty addr disables it
func startMetricsServer(addr string, logger *zap.Logger) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}
	return nil
}

// runCleanupJob deletes completed inventory lists past retention once a day
func runCleanupJob(ctx context.Context, statsService *service.StatsService, logger *zap.Logger) {
	if err := statsService.CleanupOldData(ctx); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup")
			if err := statsService.CleanupOldData(ctx); err != nil {
				logger.Error("Failed to run scheduled cleanup", zap.Error(err))
			}
		}
	}
}
