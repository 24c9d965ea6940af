package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/officesnack/snackcycle/api/routes"
	"github.com/officesnack/snackcycle/internal/admin"
	"github.com/officesnack/snackcycle/internal/announcements"
	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/internal/dashboard"
	"github.com/officesnack/snackcycle/internal/orders"
	"github.com/officesnack/snackcycle/internal/snacks"
	"github.com/officesnack/snackcycle/internal/suggestions"
	"github.com/officesnack/snackcycle/internal/trending"
	"github.com/officesnack/snackcycle/internal/votes"
	"github.com/officesnack/snackcycle/pkg/auth/session"
	"github.com/officesnack/snackcycle/pkg/config"
	"github.com/officesnack/snackcycle/pkg/db"
	"github.com/officesnack/snackcycle/pkg/instance"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/metrics"
	"github.com/officesnack/snackcycle/pkg/migrate"
	"github.com/officesnack/snackcycle/pkg/productsearch"
	"github.com/officesnack/snackcycle/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := cfg.App.Location()
	requireResource(logg, "timezone", err)
	calendar := cycle.NewCalendar(loc)

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(logg, "database", err)
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
	requireResource(logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	if !cfg.Admin.Configured() {
		logg.Warn(context.Background(), "no admin password configured, admin login is disabled")
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT.TTL())
	requireResource(logg, "session manager", err)

	conn := dbClient.DB()

	adminSvc, err := admin.NewService(admin.ServiceParams{
		Sessions:  sessionManager,
		AdminCfg:  cfg.Admin,
		JWTConfig: cfg.JWT,
		Logger:    logg,
	})
	requireResource(logg, "admin service", err)

	snackSvc, err := snacks.NewService(snacks.ServiceParams{
		Repo:   snacks.NewRepository(conn),
		Tx:     dbClient,
		Logger: logg,
	})
	requireResource(logg, "snack service", err)

	voteSvc, err := votes.NewService(votes.ServiceParams{
		Repo:     votes.NewRepository(conn),
		Guard:    votes.BallotGuard{},
		Calendar: calendar,
		Logger:   logg,
	})
	requireResource(logg, "vote service", err)

	orderSvc, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(conn),
		Tx:       dbClient,
		Calendar: calendar,
		Logger:   logg,
	})
	requireResource(logg, "order service", err)

	cycleSvc, err := cycle.NewService(cycle.ServiceParams{
		Repo:     cycle.NewRepository(conn),
		Tx:       dbClient,
		Calendar: calendar,
		Logger:   logg,
	})
	requireResource(logg, "cycle service", err)

	dashboardSvc, err := dashboard.NewService(dashboard.ServiceParams{
		Repo:     dashboard.NewRepository(conn),
		Calendar: calendar,
		Logger:   logg,
	})
	requireResource(logg, "dashboard service", err)

	announcementSvc, err := announcements.NewService(announcements.ServiceParams{
		Repo:   announcements.NewRepository(conn),
		Tx:     dbClient,
		Logger: logg,
	})
	requireResource(logg, "announcement service", err)

	suggestionSvc, err := suggestions.NewService(suggestions.ServiceParams{
		Repo:   suggestions.NewRepository(conn),
		Tx:     dbClient,
		Logger: logg,
	})
	requireResource(logg, "suggestion service", err)

	trendingParams := trending.ServiceParams{
		Repo:   trending.NewRepository(conn),
		Tx:     dbClient,
		Logger: logg,
	}
	if search := newProductSearch(cfg.Naver, logg); search != nil {
		trendingParams.Search = search
	}
	trendingSvc, err := trending.NewService(trendingParams)
	requireResource(logg, "trending service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(routes.Params{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		RateLimiter:   redisClient,
		Gatherer:      registry,
		HTTPMetrics:   metrics.NewHTTPMetrics(registry),
		Admin:         adminSvc,
		Snacks:        snackSvc,
		Votes:         voteSvc,
		Orders:        orderSvc,
		Cycle:         cycleSvc,
		Dashboard:     dashboardSvc,
		Announcements: announcementSvc,
		Suggestions:   suggestionSvc,
		Trending:      trendingSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"timezone": loc.String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

// newProductSearch returns nil when no Naver credentials are configured.
func newProductSearch(cfg config.NaverConfig, logg *logger.Logger) *productsearch.Client {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		logg.Warn(context.Background(), "naver credentials missing, product search disabled")
		return nil
	}
	client, err := productsearch.NewClient(cfg.ClientID, cfg.ClientSecret,
		productsearch.WithBaseURL(cfg.BaseURL),
		productsearch.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create product search client", err)
		return nil
	}
	return client
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to bootstrap "+resource, err)
	os.Exit(1)
}
