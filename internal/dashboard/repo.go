package dashboard

import (
	"context"
	"time"

	"github.com/officesnack/snackcycle/internal/repo"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/officesnack/snackcycle/pkg/enums"
	"gorm.io/gorm"
)

// Repository answers the read-only dashboard queries.
type Repository interface {
	Count(ctx context.Context, model any) (int64, error)
	CountSnacksSince(ctx context.Context, since time.Time) (int64, error)
	CountVotesSince(ctx context.Context, since time.Time) (int64, error)
	ProposalsSince(ctx context.Context, since time.Time, limit int) ([]VotedSnack, error)
	TopActiveByVotesSince(ctx context.Context, since time.Time, limit int) ([]VotedSnack, error)
	TopByOrderItems(ctx context.Context, limit int) ([]OrderedSnack, error)
	ActiveCategoryCounts(ctx context.Context) ([]CategoryCount, error)
	RecentVotes(ctx context.Context, limit int) ([]models.Vote, error)
	RecentProposals(ctx context.Context, limit int) ([]models.Snack, error)
	MostVotedSince(ctx context.Context, since time.Time) (*VotedSnack, error)
	Trending(ctx context.Context, limit int) ([]models.TrendingSnack, error)
	OrdersSince(ctx context.Context, since time.Time, limit int) ([]models.Order, error)
}

type repositoryImpl struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) Count(ctx context.Context, model any) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(model).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountSnacksSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Snack{}).Where("created_at >= ?", since.UTC()).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountVotesSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Vote{}).Where("created_at >= ?", since.UTC()).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) ProposalsSince(ctx context.Context, since time.Time, limit int) ([]VotedSnack, error) {
	query := r.DB(ctx).
		Model(&models.Snack{}).
		Select("snacks.*, COUNT(votes.id) AS vote_count").
		Joins("LEFT JOIN votes ON votes.snack_id = snacks.id").
		Where("snacks.created_at >= ?", since.UTC()).
		Group("snacks.id").
		Order("snacks.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []VotedSnack
	err := query.Scan(&rows).Error
	return rows, err
}

// TopActiveByVotesSince counts only votes cast since the window start.
func (r *repositoryImpl) TopActiveByVotesSince(ctx context.Context, since time.Time, limit int) ([]VotedSnack, error) {
	var rows []VotedSnack
	err := r.DB(ctx).
		Model(&models.Snack{}).
		Select("snacks.*, COUNT(votes.id) AS vote_count").
		Joins("LEFT JOIN votes ON votes.snack_id = snacks.id AND votes.created_at >= ?", since.UTC()).
		Where("snacks.lifecycle = ?", enums.SnackLifecycleActive).
		Group("snacks.id").
		Order("vote_count DESC").
		Order("snacks.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopByOrderItems ranks every snack, retired or not, by how often it was ordered.
func (r *repositoryImpl) TopByOrderItems(ctx context.Context, limit int) ([]OrderedSnack, error) {
	var rows []OrderedSnack
	err := r.DB(ctx).
		Model(&models.Snack{}).
		Select("snacks.*, COUNT(order_items.id) AS order_count").
		Joins("JOIN order_items ON order_items.snack_id = snacks.id").
		Group("snacks.id").
		Order("order_count DESC").
		Order("snacks.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repositoryImpl) ActiveCategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.DB(ctx).
		Model(&models.Snack{}).
		Select("category AS name, COUNT(*) AS snack_count").
		Where("lifecycle = ? AND category IS NOT NULL AND category <> ''", enums.SnackLifecycleActive).
		Group("category").
		Order("snack_count DESC").
		Order("name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repositoryImpl) RecentVotes(ctx context.Context, limit int) ([]models.Vote, error) {
	var rows []models.Vote
	err := r.DB(ctx).Preload("Snack").Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) RecentProposals(ctx context.Context, limit int) ([]models.Snack, error) {
	var rows []models.Snack
	err := r.DB(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// MostVotedSince returns nil when no votes were cast in the window. Ties go to the lowest id.
func (r *repositoryImpl) MostVotedSince(ctx context.Context, since time.Time) (*VotedSnack, error) {
	var rows []VotedSnack
	err := r.DB(ctx).
		Model(&models.Snack{}).
		Select("snacks.*, COUNT(votes.id) AS vote_count").
		Joins("JOIN votes ON votes.snack_id = snacks.id").
		Where("votes.created_at >= ?", since.UTC()).
		Group("snacks.id").
		Order("vote_count DESC").
		Order("snacks.id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *repositoryImpl) Trending(ctx context.Context, limit int) ([]models.TrendingSnack, error) {
	var rows []models.TrendingSnack
	err := r.DB(ctx).Order("trending_snacks.rank ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) OrdersSince(ctx context.Context, since time.Time, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.DB(ctx).
		Preload("Items").
		Where("order_date >= ?", since.UTC()).
		Order("order_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
