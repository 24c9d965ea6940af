package cron

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/officesnack/snackcycle/internal/trending"
	"github.com/officesnack/snackcycle/pkg/logger"
)

const trendingJobName = "trending-refresh"

type trendingRefresher interface {
	Refresh(ctx context.Context, now time.Time) (*trending.RefreshResult, error)
}

type TrendingJobParams struct {
	Logger   *logger.Logger
	Trending trendingRefresher
	Now      func() time.Time
}

type trendingJob struct {
	logg     *logger.Logger
	trending trendingRefresher
	now      func() time.Time
}

func NewTrendingJob(params TrendingJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Trending == nil {
		return nil, errors.New("trending service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &trendingJob{logg: params.Logger, trending: params.Trending, now: now}, nil
}

func (j *trendingJob) Name() string { return trendingJobName }

func (j *trendingJob) Run(ctx context.Context) error {
	result, err := j.trending.Refresh(ctx, j.now().UTC())
	if err != nil {
		return err
	}
	fields := map[string]any{"count": result.Count}
	if len(result.FailedKeywords) > 0 {
		fields["failed_keywords"] = strings.Join(result.FailedKeywords, ",")
	}
	j.logg.Info(j.logg.WithFields(ctx, fields), "trending snacks refreshed")
	return nil
}
