package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/pkg/db/models"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
)

const (
	topSnacksLimit        = 5
	allTimeTopLimit       = 3
	recentLimit           = 5
	trendingLimit         = 10
	activitySnackLimit    = 3
	activityOrderLimit    = 2
	defaultActivityWindow = time.Minute
	noCategory            = "없음"
	unknownProposer       = "누군가"
)

// Service builds read-only dashboard views.
type Service interface {
	Summary(ctx context.Context, now time.Time) *Summary
	RecentActivities(ctx context.Context, since *time.Time) []Activity
}

type ServiceParams struct {
	Repo     Repository
	Calendar cycle.Calendar
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	calendar cycle.Calendar
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dashboard repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: params.Repo, calendar: params.Calendar, logg: params.Logger, now: time.Now}, nil
}

// section runs one dashboard query and logs instead of failing the page.
func (s *service) section(ctx context.Context, name string, fn func() error) {
	if err := fn(); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "section", name), fmt.Sprintf("dashboard section degraded: %v", err))
	}
}

func (s *service) Summary(ctx context.Context, now time.Time) *Summary {
	weekStart := s.calendar.WeekStart(now)
	monthStart := s.calendar.MonthStart(now)
	out := &Summary{
		WeekStart:            weekStart,
		NextOrderDate:        s.calendar.NextWeekStart(now),
		TopCategory:          noCategory,
		WeeklyProposedSnacks: []VotedSnack{},
		TopSnacks:            []VotedSnack{},
		AllTimeTopSnacks:     []OrderedSnack{},
		CategoryData:         []CategoryShare{},
		RecentVotes:          []models.Vote{},
		RecentProposals:      []models.Snack{},
		TrendingSnacks:       []models.TrendingSnack{},
	}

	s.section(ctx, "totals", func() error {
		snacks, err := s.repo.Count(ctx, &models.Snack{})
		if err != nil {
			return err
		}
		votes, err := s.repo.Count(ctx, &models.Vote{})
		if err != nil {
			return err
		}
		orders, err := s.repo.Count(ctx, &models.Order{})
		if err != nil {
			return err
		}
		out.TotalSnacks, out.TotalVotes, out.TotalOrders = snacks, votes, orders
		return nil
	})
	s.section(ctx, "weekly_counts", func() error {
		snacks, err := s.repo.CountSnacksSince(ctx, weekStart)
		if err != nil {
			return err
		}
		votes, err := s.repo.CountVotesSince(ctx, weekStart)
		if err != nil {
			return err
		}
		out.WeeklySnacks, out.WeeklyVotes = snacks, votes
		return nil
	})
	s.section(ctx, "weekly_proposals", func() error {
		rows, err := s.repo.ProposalsSince(ctx, weekStart, 0)
		if err != nil {
			return err
		}
		if rows != nil {
			out.WeeklyProposedSnacks = rows
		}
		out.WeeklyProposedSnacksCount = len(rows)
		return nil
	})
	s.section(ctx, "top_snacks", func() error {
		rows, err := s.repo.TopActiveByVotesSince(ctx, weekStart, topSnacksLimit)
		if err == nil && rows != nil {
			out.TopSnacks = rows
		}
		return err
	})
	s.section(ctx, "all_time_top", func() error {
		rows, err := s.repo.TopByOrderItems(ctx, allTimeTopLimit)
		if err == nil && rows != nil {
			out.AllTimeTopSnacks = rows
		}
		return err
	})
	s.section(ctx, "categories", func() error {
		counts, err := s.repo.ActiveCategoryCounts(ctx)
		if err != nil {
			return err
		}
		out.CategoryData = categoryShares(counts)
		if len(out.CategoryData) > 0 {
			out.TopCategory = out.CategoryData[0].Name
		}
		return nil
	})
	s.section(ctx, "recent_votes", func() error {
		rows, err := s.repo.RecentVotes(ctx, recentLimit)
		if err == nil && rows != nil {
			out.RecentVotes = rows
		}
		return err
	})
	s.section(ctx, "recent_proposals", func() error {
		rows, err := s.repo.RecentProposals(ctx, recentLimit)
		if err == nil && rows != nil {
			out.RecentProposals = rows
		}
		return err
	})
	s.section(ctx, "monthly_mvp", func() error {
		mvp, err := s.repo.MostVotedSince(ctx, monthStart)
		out.MonthlyMVP = mvp
		return err
	})
	s.section(ctx, "trending", func() error {
		rows, err := s.repo.Trending(ctx, trendingLimit)
		if err == nil && rows != nil {
			out.TrendingSnacks = rows
		}
		return err
	})
	return out
}

// categoryShares turns per-category counts into rounded percentages of the categorized total.
func categoryShares(counts []CategoryCount) []CategoryShare {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	out := make([]CategoryShare, 0, len(counts))
	if total == 0 {
		return out
	}
	for _, c := range counts {
		out = append(out, CategoryShare{
			Name:       c.Name,
			Count:      c.Count,
			Percentage: int(math.Round(100 * float64(c.Count) / float64(total))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// RecentActivities merges the newest proposals and orders since the given time.
// It never fails; errors yield an empty feed.
func (s *service) RecentActivities(ctx context.Context, since *time.Time) []Activity {
	from := s.now().Add(-defaultActivityWindow)
	if since != nil {
		from = *since
	}

	snacks, err := s.repo.ProposalsSince(ctx, from, activitySnackLimit)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("recent proposals unavailable: %v", err))
		return []Activity{}
	}
	orders, err := s.repo.OrdersSince(ctx, from, activityOrderLimit)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("recent orders unavailable: %v", err))
		return []Activity{}
	}

	out := make([]Activity, 0, len(snacks)+len(orders))
	for _, snack := range snacks {
		proposer := unknownProposer
		if snack.ProposedBy != nil && *snack.ProposedBy != "" {
			proposer = *snack.ProposedBy
		}
		out = append(out, Activity{
			ID:        "snack-" + snack.ID.String(),
			Type:      ActivitySnackProposal,
			Message:   fmt.Sprintf("%s님이 \"%s\" 간식을 조르고 있어요!", proposer, snack.Name),
			Emoji:     "🍪",
			Timestamp: snack.CreatedAt,
		})
	}
	for _, order := range orders {
		out = append(out, Activity{
			ID:        "order-" + order.ID.String(),
			Type:      ActivityOrderCreated,
			Message:   fmt.Sprintf("새로운 주문이 생성되었어요! %d개 간식 도착 예정 🎉", len(order.Items)),
			Emoji:     "📦",
			Timestamp: order.OrderDate,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}
