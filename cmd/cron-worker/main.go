package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/officesnack/snackcycle/internal/cron"
	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/internal/snacks"
	"github.com/officesnack/snackcycle/internal/trending"
	"github.com/officesnack/snackcycle/pkg/config"
	"github.com/officesnack/snackcycle/pkg/db"
	"github.com/officesnack/snackcycle/pkg/instance"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/metrics"
	"github.com/officesnack/snackcycle/pkg/migrate"
	"github.com/officesnack/snackcycle/pkg/productsearch"
	"github.com/officesnack/snackcycle/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := cfg.App.Location()
	requireResource(logg, "timezone", err)

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

	jobs, err := buildJobs(cfg, logg, dbClient, cycle.NewCalendar(loc))
	requireResource(logg, "cron jobs", err)
	if len(jobs) == 0 {
		logg.Warn(context.Background(), "every cron job is disabled, worker will only hold the lock")
	}

	registry, err := cron.NewRegistry(jobs...)
	requireResource(logg, "cron registry", err)

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cron.LockName), 0)
	requireResource(logg, "cron lock", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	requireResource(logg, "cron service", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
		"interval": cfg.Cron.Interval.String(),
		"jobs":     len(jobs),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildJobs(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, calendar cycle.Calendar) ([]cron.Job, error) {
	conn := dbClient.DB()
	var jobs []cron.Job

	if cfg.Cron.PurgeRetired {
		snackSvc, err := snacks.NewService(snacks.ServiceParams{
			Repo:   snacks.NewRepository(conn),
			Tx:     dbClient,
			Logger: logg,
		})
		if err != nil {
			return nil, err
		}
		job, err := cron.NewPurgeJob(cron.PurgeJobParams{
			Logger:   logg,
			Snacks:   snackSvc,
			Calendar: calendar,
		})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if cfg.Cron.RefreshTrending {
		if cfg.Naver.ClientID == "" || cfg.Naver.ClientSecret == "" {
			logg.Warn(context.Background(), "naver credentials missing, trending refresh disabled")
			return jobs, nil
		}
		search, err := productsearch.NewClient(cfg.Naver.ClientID, cfg.Naver.ClientSecret,
			productsearch.WithBaseURL(cfg.Naver.BaseURL),
			productsearch.WithTimeout(cfg.Naver.Timeout),
		)
		if err != nil {
			return nil, err
		}
		trendingSvc, err := trending.NewService(trending.ServiceParams{
			Repo:   trending.NewRepository(conn),
			Tx:     dbClient,
			Search: search,
			Logger: logg,
		})
		if err != nil {
			return nil, err
		}
		job, err := cron.NewTrendingJob(cron.TrendingJobParams{
			Logger:   logg,
			Trending: trendingSvc,
		})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to bootstrap "+resource, err)
	os.Exit(1)
}
