package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/depotvente-backend/api/routes"
	"github.com/angelmondragon/depotvente-backend/internal/auth"
	"github.com/angelmondragon/depotvente-backend/internal/buyers"
	"github.com/angelmondragon/depotvente-backend/internal/csvimport"
	"github.com/angelmondragon/depotvente-backend/internal/deposits"
	"github.com/angelmondragon/depotvente-backend/internal/finance"
	"github.com/angelmondragon/depotvente-backend/internal/games"
	"github.com/angelmondragon/depotvente-backend/internal/gestionnaires"
	"github.com/angelmondragon/depotvente-backend/internal/invoices"
	"github.com/angelmondragon/depotvente-backend/internal/ledger"
	"github.com/angelmondragon/depotvente-backend/internal/sales"
	"github.com/angelmondragon/depotvente-backend/internal/sellers"
	"github.com/angelmondragon/depotvente-backend/internal/sessions"
	"github.com/angelmondragon/depotvente-backend/internal/statistics"
	"github.com/angelmondragon/depotvente-backend/internal/stocks"
	"github.com/angelmondragon/depotvente-backend/pkg/auth/session"
	"github.com/angelmondragon/depotvente-backend/pkg/config"
	"github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/env"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
	"github.com/angelmondragon/depotvente-backend/pkg/metrics"
	"github.com/angelmondragon/depotvente-backend/pkg/migrate"
	"github.com/angelmondragon/depotvente-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	services, err := buildServices(cfg, dbClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to create services", err)
		os.Exit(1)
	}

	created, err := services.Gestionnaires.EnsureAdmin(context.Background(), cfg.Bootstrap)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap admin account", err)
		os.Exit(1)
	}
	if created {
		logg.Info(logg.WithField(context.Background(), "email", cfg.Bootstrap.AdminEmail), "bootstrap admin created")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	obs := routes.Observability{
		Gatherer: registry,
		HTTP:     metrics.NewHTTPMetrics(registry),
		Domain:   metrics.NewDomainMetrics(registry),
	}

	addr := ":" + env.First(cfg.App.Port, "PORT")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, obs, *services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client, sessionManager *session.Manager) (*routes.Services, error) {
	conn := dbClient.DB()

	sellerRepo := sellers.NewRepository(conn)
	buyerRepo := buyers.NewRepository(conn)
	gameRepo := games.NewRepository(conn)
	sessionRepo := sessions.NewRepository(conn)
	depositRepo := deposits.NewRepository(conn)
	stockRepo := stocks.NewRepository(conn)
	saleRepo := sales.NewRepository(conn)
	gestionnaireRepo := gestionnaires.NewRepository(conn)

	out := &routes.Services{}
	var err error

	if out.Auth, err = auth.NewService(auth.ServiceParams{
		Accounts:       gestionnaireRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	}); err != nil {
		return nil, err
	}
	if out.Gestionnaires, err = gestionnaires.NewService(gestionnaireRepo, cfg.Password); err != nil {
		return nil, err
	}
	if out.Sellers, err = sellers.NewService(sellerRepo); err != nil {
		return nil, err
	}
	if out.Buyers, err = buyers.NewService(buyerRepo); err != nil {
		return nil, err
	}
	if out.Games, err = games.NewService(gameRepo); err != nil {
		return nil, err
	}
	if out.Sessions, err = sessions.NewService(sessionRepo); err != nil {
		return nil, err
	}
	if out.Deposits, err = deposits.NewService(depositRepo, sessionRepo, sellerRepo, gameRepo); err != nil {
		return nil, err
	}
	if out.Stocks, err = stocks.NewService(stockRepo); err != nil {
		return nil, err
	}
	if out.Sales, err = sales.NewService(sales.ServiceParams{
		Repo:         saleRepo,
		Sessions:     sessionRepo,
		Buyers:       buyerRepo,
		DepositGames: depositRepo,
		Stocks:       stockRepo,
	}); err != nil {
		return nil, err
	}

	books, err := ledger.NewService(ledger.NewRepository(conn))
	if err != nil {
		return nil, err
	}
	if out.Finance, err = finance.NewService(books); err != nil {
		return nil, err
	}
	if out.Statistics, err = statistics.NewService(books); err != nil {
		return nil, err
	}
	if out.CSVImport, err = csvimport.NewService(gameRepo); err != nil {
		return nil, err
	}
	if out.Invoices, err = invoices.NewService(saleRepo, sessionRepo, sellerRepo); err != nil {
		return nil, err
	}
	return out, nil
}
