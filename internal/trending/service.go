package trending

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/pkg/db/models"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/productsearch"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	sourceNaver          = "naver"
	recentWindow         = 24 * time.Hour
	recentLimit          = 10
	perKeywordLimit      = 10
	refreshKeep          = 20
	searchLimit          = 20
	searchSuffix         = " 과자"
	recommendationPicks  = 2
	recommendationsLimit = 20
)

var (
	refreshKeywords        = []string{"인기 과자", "화제 간식", "신제품 스낵"}
	recommendationKeywords = []string{"인기 과자", "추천 간식", "베스트 스낵", "인기 초콜릿", "추천 사탕", "인기 쿠키"}
)

// ProductListing is one external shopping result.
type ProductListing = productsearch.Listing

// ProductSearch queries an external shopping catalogue.
type ProductSearch interface {
	Search(ctx context.Context, query string, limit int) ([]ProductListing, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RefreshResult reports how many trending rows were stored.
type RefreshResult struct {
	Count          int      `json:"count"`
	FailedKeywords []string `json:"failedKeywords,omitempty"`
}

// Recommendation is a product suggested to proposers.
type Recommendation struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	URL      string              `json:"url"`
	ImageURL string              `json:"imageUrl"`
	Price    decimal.NullDecimal `json:"price"`
	MallName string              `json:"mallName"`
}

type Service interface {
	Recent(ctx context.Context, now time.Time) ([]models.TrendingSnack, error)
	Refresh(ctx context.Context, now time.Time) (*RefreshResult, error)
	Search(ctx context.Context, query string) ([]ProductListing, error)
	Recommendations(ctx context.Context) ([]Recommendation, error)
}

type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Search ProductSearch
	Logger *logger.Logger
}

type service struct {
	repo    Repository
	tx      txRunner
	search  ProductSearch
	logg    *logger.Logger
	shuffle func(n int) []int
}

// NewService wires the trending cache. A nil Search means no credentials are configured.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "trending repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		search:  params.Search,
		logg:    params.Logger,
		shuffle: rand.Perm,
	}, nil
}

func (s *service) Recent(ctx context.Context, now time.Time) ([]models.TrendingSnack, error) {
	rows, err := s.repo.FetchedSince(ctx, now.Add(-recentWindow), recentLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trending snacks")
	}
	if rows == nil {
		rows = []models.TrendingSnack{}
	}
	return rows, nil
}

type keywordResult struct {
	listings []ProductListing
	err      error
}

// fanOut runs one search per keyword concurrently and keeps results in keyword order.
func (s *service) fanOut(ctx context.Context, keywords []string, limit int) []keywordResult {
	results := make([]keywordResult, len(keywords))
	var g errgroup.Group
	for i, keyword := range keywords {
		g.Go(func() error {
			listings, err := s.search.Search(ctx, keyword, limit)
			if err != nil {
				err = fmt.Errorf("keyword %q: %w", keyword, err)
			}
			results[i] = keywordResult{listings: listings, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func dedupeByLink(results []keywordResult, keep int) []ProductListing {
	seen := map[string]struct{}{}
	out := make([]ProductListing, 0, keep)
	for _, result := range results {
		for _, listing := range result.listings {
			if _, ok := seen[listing.Link]; ok {
				continue
			}
			seen[listing.Link] = struct{}{}
			out = append(out, listing)
			if len(out) == keep {
				return out
			}
		}
	}
	return out
}

// Refresh replaces the trending table with fresh search results. Failed
// keywords are skipped; when all of them fail the cache is left alone.
func (s *service) Refresh(ctx context.Context, now time.Time) (*RefreshResult, error) {
	if s.search == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product search is not configured")
	}

	results := s.fanOut(ctx, refreshKeywords, perKeywordLimit)
	var errs error
	failed := []string{}
	for i, result := range results {
		if result.err != nil {
			errs = multierr.Append(errs, result.err)
			failed = append(failed, refreshKeywords[i])
		}
	}
	if errs != nil {
		logCtx := s.logg.WithField(ctx, "failed_keywords", failed)
		s.logg.Warn(logCtx, fmt.Sprintf("trending keyword search failed: %v", errs))
	}
	if len(failed) == len(refreshKeywords) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "every trending keyword failed")
	}

	listings := dedupeByLink(results, refreshKeep)
	fetchedAt := now.UTC()
	rows := make([]models.TrendingSnack, 0, len(listings))
	for i, listing := range listings {
		row := models.TrendingSnack{
			ID:        uuid.New(),
			Name:      listing.Title,
			URL:       listing.Link,
			Source:    sourceNaver,
			Rank:      i + 1,
			FetchedAt: fetchedAt,
		}
		if listing.Image != "" {
			image := listing.Image
			row.ImageURL = &image
		}
		rows = append(rows, row)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear trending: %w", err)
		}
		if err := repo.CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("insert trending: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace trending snacks failed")
	}

	s.logg.Info(s.logg.WithField(ctx, "trending_count", len(rows)), "trending snacks refreshed")
	result := &RefreshResult{Count: len(rows)}
	if len(failed) > 0 {
		result.FailedKeywords = failed
	}
	return result, nil
}

// Search proxies a user query. Failures degrade to an empty list.
func (s *service) Search(ctx context.Context, query string) ([]ProductListing, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}
	if s.search == nil {
		s.logg.Warn(ctx, "product search is not configured")
		return []ProductListing{}, nil
	}
	listings, err := s.search.Search(ctx, query+searchSuffix, searchLimit)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "query", query), fmt.Sprintf("product search failed: %v", err))
		return []ProductListing{}, nil
	}
	if listings == nil {
		listings = []ProductListing{}
	}
	return listings, nil
}

func (s *service) Recommendations(ctx context.Context) ([]Recommendation, error) {
	if s.search == nil {
		s.logg.Warn(ctx, "product search is not configured")
		return []Recommendation{}, nil
	}

	order := s.shuffle(len(recommendationKeywords))
	picks := make([]string, 0, recommendationPicks)
	for _, idx := range order[:recommendationPicks] {
		picks = append(picks, recommendationKeywords[idx])
	}

	results := s.fanOut(ctx, picks, perKeywordLimit)
	for _, result := range results {
		if result.err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("recommendation search failed: %v", result.err))
		}
	}

	listings := dedupeByLink(results, recommendationsLimit)
	out := make([]Recommendation, 0, len(listings))
	for _, listing := range listings {
		out = append(out, Recommendation{
			ID:       listing.Link,
			Name:     listing.Title,
			URL:      listing.Link,
			ImageURL: listing.Image,
			Price:    listing.LowPrice,
			MallName: listing.MallName,
		})
	}
	return out, nil
}
