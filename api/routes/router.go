package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/depotvente-backend/api/controllers"
	"github.com/angelmondragon/depotvente-backend/api/middleware"
	"github.com/angelmondragon/depotvente-backend/internal/auth"
	"github.com/angelmondragon/depotvente-backend/internal/buyers"
	"github.com/angelmondragon/depotvente-backend/internal/csvimport"
	"github.com/angelmondragon/depotvente-backend/internal/deposits"
	"github.com/angelmondragon/depotvente-backend/internal/finance"
	"github.com/angelmondragon/depotvente-backend/internal/games"
	"github.com/angelmondragon/depotvente-backend/internal/gestionnaires"
	"github.com/angelmondragon/depotvente-backend/internal/invoices"
	"github.com/angelmondragon/depotvente-backend/internal/sales"
	"github.com/angelmondragon/depotvente-backend/internal/sellers"
	"github.com/angelmondragon/depotvente-backend/internal/sessions"
	"github.com/angelmondragon/depotvente-backend/internal/statistics"
	"github.com/angelmondragon/depotvente-backend/internal/stocks"
	"github.com/angelmondragon/depotvente-backend/pkg/auth/session"
	"github.com/angelmondragon/depotvente-backend/pkg/config"
	"github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
	"github.com/angelmondragon/depotvente-backend/pkg/metrics"
	"github.com/angelmondragon/depotvente-backend/pkg/redis"
)

// Services groups the domain services mounted by the router. A nil service
// answers INTERNAL_ERROR on its routes.
type Services struct {
	Auth          auth.Service
	Gestionnaires gestionnaires.Service
	Sellers       sellers.Service
	Buyers        buyers.Service
	Games         games.Service
	Sessions      sessions.Service
	Deposits      deposits.Service
	Stocks        stocks.Service
	Sales         sales.Service
	Finance       finance.Service
	Statistics    statistics.Service
	CSVImport     csvimport.Service
	Invoices      invoices.Service
}

// Observability carries the Prometheus wiring. Gatherer backs /metrics.
type Observability struct {
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics
	Domain   *metrics.DomainMetrics
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	obs Observability,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(obs.HTTP),
	)

	loginLimits := middleware.LoginLimits{
		Surface:  "login",
		Window:   cfg.AuthRateLimit.LoginWindow,
		PerIP:    cfg.AuthRateLimit.LoginIPLimit,
		PerEmail: cfg.AuthRateLimit.LoginEmailLimit,
	}
	loginLimit := passthrough
	idempotency := passthrough
	var redisPinger controllers.Pinger
	if redisClient != nil {
		loginLimit = middleware.LoginThrottle(redisClient, loginLimits, logg)
		idempotency = middleware.Idempotency(redisClient, logg)
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	if obs.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(obs.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/admin/login", controllers.AdminLogin(svc.Auth, logg))
		r.With(loginLimit).Post("/gestionnaire/login", controllers.GestionnaireLogin(svc.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Post("/logout", controllers.Logout(svc.Auth, logg))
			r.Get("/me", controllers.Me(logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(idempotency)

		r.Route("/gestionnaires", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Get("/", controllers.GestionnaireList(svc.Gestionnaires, logg))
			r.Post("/", controllers.GestionnaireCreate(svc.Gestionnaires, logg))
			r.Get("/{id}", controllers.GestionnaireGet(svc.Gestionnaires, logg))
			r.Put("/{id}", controllers.GestionnaireUpdate(svc.Gestionnaires, logg))
			r.Delete("/{id}", controllers.GestionnaireDelete(svc.Gestionnaires, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.RoleAdmin, enums.RoleGestionnaire))

			r.Route("/sellers", func(r chi.Router) {
				r.Get("/", controllers.SellerList(svc.Sellers, logg))
				r.Post("/", controllers.SellerCreate(svc.Sellers, logg))
				r.Get("/{id}", controllers.SellerGet(svc.Sellers, logg))
				r.Put("/{id}", controllers.SellerUpdate(svc.Sellers, logg))
				r.Delete("/{id}", controllers.SellerDelete(svc.Sellers, logg))
			})

			r.Route("/buyers", func(r chi.Router) {
				r.Get("/", controllers.BuyerList(svc.Buyers, logg))
				r.Post("/", controllers.BuyerCreate(svc.Buyers, logg))
				r.Get("/{id}", controllers.BuyerGet(svc.Buyers, logg))
				r.Put("/{id}", controllers.BuyerUpdate(svc.Buyers, logg))
				r.Delete("/{id}", controllers.BuyerDelete(svc.Buyers, logg))
			})

			r.Route("/games", func(r chi.Router) {
				r.Get("/", controllers.GameList(svc.Games, logg))
				r.Post("/", controllers.GameCreate(svc.Games, logg))
				r.Get("/{id}", controllers.GameGet(svc.Games, logg))
				r.Put("/{id}", controllers.GameUpdate(svc.Games, logg))
				r.Delete("/{id}", controllers.GameDelete(svc.Games, logg))
				r.Get("/{id}/stocks", controllers.GameStocks(svc.Stocks, logg))
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", controllers.SessionList(svc.Sessions, logg))
				r.Post("/", controllers.SessionCreate(svc.Sessions, logg))
				r.Get("/active", controllers.SessionActive(svc.Sessions, logg))
				r.Get("/{id}", controllers.SessionGet(svc.Sessions, logg))
				r.Put("/{id}", controllers.SessionUpdate(svc.Sessions, logg))
				r.Delete("/{id}", controllers.SessionDelete(svc.Sessions, logg))
			})

			r.Route("/deposits", func(r chi.Router) {
				r.Get("/", controllers.DepositList(svc.Deposits, logg))
				r.Post("/", controllers.DepositCreate(svc.Deposits, obs.Domain, logg))
				r.Get("/games", controllers.DepositGames(svc.Deposits, logg))
				r.Get("/{id}", controllers.DepositGet(svc.Deposits, logg))
				r.Put("/{id}", controllers.DepositUpdate(svc.Deposits, logg))
				r.Delete("/{id}", controllers.DepositDelete(svc.Deposits, logg))
				r.Get("/{id}/labels", controllers.DepositLabels(svc.Deposits, logg))
			})

			r.Route("/stocks", func(r chi.Router) {
				r.Get("/", controllers.StockList(svc.Stocks, logg))
				r.Post("/", controllers.StockUpsert(svc.Stocks, logg))
				r.Get("/{id}", controllers.StockGet(svc.Stocks, logg))
				r.Put("/{id}", controllers.StockUpdate(svc.Stocks, logg))
				r.Delete("/{id}", controllers.StockDelete(svc.Stocks, logg))
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", controllers.SaleList(svc.Sales, logg))
				r.Post("/", controllers.SaleCreate(svc.Sales, obs.Domain, logg))
				r.Get("/{id}", controllers.SaleGet(svc.Sales, logg))
				r.Put("/{id}", controllers.SaleUpdate(svc.Sales, obs.Domain, logg))
				r.Delete("/{id}", controllers.SaleDelete(svc.Sales, logg))
			})

			r.Route("/saleDetails", func(r chi.Router) {
				r.Get("/", controllers.SaleDetailList(svc.Sales, logg))
				r.Post("/", controllers.SaleDetailCreate(svc.Sales, obs.Domain, logg))
				r.Get("/{id}", controllers.SaleDetailGet(svc.Sales, logg))
			})

			r.Route("/saleOperations", func(r chi.Router) {
				r.Get("/", controllers.SaleOperationList(svc.Sales, logg))
				r.Get("/{saleId}", controllers.SaleOperationGet(svc.Sales, logg))
				r.Put("/{saleId}", controllers.SaleOperationUpdate(svc.Sales, obs.Domain, logg))
			})

			r.Route("/finance/sessions/{id}", func(r chi.Router) {
				r.Get("/balance", controllers.FinanceSessionBalance(svc.Finance, logg))
				r.Get("/sellers", controllers.FinanceSellerBalances(svc.Finance, logg))
				r.Get("/sellers/{sellerId}", controllers.FinanceSellerBalance(svc.Finance, logg))
			})

			r.Route("/statistics/session/{id}", func(r chi.Router) {
				r.Get("/vendor-shares", controllers.StatisticsVendorShares(svc.Statistics, logg))
				r.Get("/sales-over-time", controllers.StatisticsSalesOverTime(svc.Statistics, logg))
				r.Get("/stock", controllers.StatisticsStock(svc.Statistics, logg))
				r.Get("/top-games", controllers.StatisticsTopGames(svc.Statistics, logg))
				r.Get("/vendor-stats", controllers.StatisticsVendorStats(svc.Statistics, logg))
				r.Get("/summary", controllers.StatisticsSummary(svc.Statistics, logg))
			})

			r.Post("/csvImport/import", controllers.CSVImportGames(svc.CSVImport, cfg.Upload.MaxCSVBytes(), obs.Domain, logg))
			r.Get("/invoices/{saleId}", controllers.InvoiceDownload(svc.Invoices, logg))
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
