package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ColeJam13/InvestED/internal/clients/coinmarketcap"
	"github.com/ColeJam13/InvestED/internal/clients/finnhub"
	"github.com/ColeJam13/InvestED/internal/config"
	"github.com/ColeJam13/InvestED/internal/database"
	"github.com/ColeJam13/InvestED/internal/events"
	"github.com/ColeJam13/InvestED/internal/marketdata"
	"github.com/ColeJam13/InvestED/internal/modules/assets"
	"github.com/ColeJam13/InvestED/internal/modules/portfolio"
	"github.com/ColeJam13/InvestED/internal/modules/snapshots"
	"github.com/ColeJam13/InvestED/internal/modules/trading"
	"github.com/ColeJam13/InvestED/internal/modules/users"
	"github.com/ColeJam13/InvestED/internal/modules/valuation"
	"github.com/ColeJam13/InvestED/internal/scheduler"
	"github.com/ColeJam13/InvestED/internal/server"
	"github.com/ColeJam13/InvestED/pkg/logger"
)

func main() {
	// Load configuration first so the log level is configurable
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting InvestED server")

	// Database
	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath,
		Profile: database.ProfileStandard,
		Name:    "invested",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	conn := db.Conn()
	schemas := []struct {
		name string
		init func() error
	}{
		{"users", func() error { return users.InitSchema(conn) }},
		{"assets", func() error { return assets.InitSchema(conn) }},
		{"portfolio", func() error { return portfolio.InitSchema(conn) }},
		{"trading", func() error { return trading.InitSchema(conn) }},
		{"snapshots", func() error { return snapshots.InitSchema(conn) }},
	}
	for _, s := range schemas {
		if err := s.init(); err != nil {
			log.Fatal().Err(err).Str("module", s.name).Msg("Failed to initialize schema")
		}
	}

	eventManager := events.NewManager(log)

	// Market data
	stockClient := finnhub.NewClient(cfg.FinnhubBaseURL, cfg.FinnhubAPIKey, cfg.QuoteTimeout, log)
	cryptoClient := coinmarketcap.NewClient(cfg.CoinMarketCapBaseURL, cfg.CoinMarketCapAPIKey, cfg.QuoteTimeout, log)
	resolver := marketdata.NewResolver(marketdata.Config{
		Stocks:   stockClient,
		Crypto:   cryptoClient,
		CacheTTL: cfg.PriceCacheTTL,
		Log:      log,
	})

	// Repositories
	userRepo := users.NewRepository(conn, log)
	assetRepo := assets.NewRepository(conn, log)
	portfolioRepo := portfolio.NewPortfolioRepository(conn, log)
	positionRepo := portfolio.NewPositionRepository(conn, log)
	transactionRepo := trading.NewTransactionRepository(conn, log)
	snapshotRepo := snapshots.NewRepository(conn, log)

	// Services
	catalog := assets.NewCatalog(assetRepo, eventManager, log)
	ledger := portfolio.NewLedger(positionRepo, log)
	portfolioService := portfolio.NewService(portfolioRepo, positionRepo, eventManager, cfg.StartingCash, log)
	engine := trading.NewEngine(trading.EngineConfig{
		DB:           conn,
		Prices:       resolver,
		Catalog:      catalog,
		Portfolios:   portfolioRepo,
		Positions:    positionRepo,
		Ledger:       ledger,
		Transactions: transactionRepo,
		Events:       eventManager,
		Log:          log,
	})
	valuationService := valuation.NewService(portfolioService, resolver, log)
	snapshotService := snapshots.NewService(snapshotRepo, valuationService, eventManager, log)

	// Background jobs
	sched := scheduler.New(log)
	captureJob := snapshots.NewCaptureJob(snapshotService, portfolioRepo, 5*time.Minute, log)
	if err := sched.AddJob(cfg.SnapshotSchedule, captureJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule snapshot job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DB:      db,
		DevMode: cfg.DevMode,
		Handlers: server.Handlers{
			Users:      users.NewHandler(userRepo, log),
			Portfolio:  portfolio.NewHandler(portfolioService, log),
			Trading:    trading.NewHandler(engine, log),
			Valuation:  valuation.NewHandler(valuationService, log),
			Snapshots:  snapshots.NewHandler(snapshotService, log),
			MarketData: marketdata.NewHandler(resolver, log),
		},
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}
