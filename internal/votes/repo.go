package votes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/internal/repo"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists ballots and answers vote aggregate queries.
type Repository interface {
	FindSnack(ctx context.Context, id uuid.UUID) (*models.Snack, error)
	Create(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, id uuid.UUID) error
	LatestForSnack(ctx context.Context, snackID uuid.UUID, voterName *string) (*models.Vote, error)
	Count(ctx context.Context, snackID *uuid.UUID) (int64, error)
	CountAnonymous(ctx context.Context) (int64, error)
	CountSnacks(ctx context.Context) (int64, error)
	TallyBySnack(ctx context.Context, limit int) ([]SnackTally, error)
	TallyAllSnacks(ctx context.Context) ([]SnackTally, error)
	Recent(ctx context.Context, limit int) ([]models.Vote, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	List(ctx context.Context, filter AdminLogFilter) ([]models.Vote, error)
	ListAllWithSnack(ctx context.Context) ([]models.Vote, error)
}

type repositoryImpl struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) FindSnack(ctx context.Context, id uuid.UUID) (*models.Snack, error) {
	var snack models.Snack
	if err := r.DB(ctx).First(&snack, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &snack, nil
}

func (r *repositoryImpl) Create(ctx context.Context, vote *models.Vote) error {
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	return r.DB(ctx).Create(vote).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Vote{}, "id = ?", id).Error
}

func (r *repositoryImpl) LatestForSnack(ctx context.Context, snackID uuid.UUID, voterName *string) (*models.Vote, error) {
	query := r.DB(ctx).Where("snack_id = ?", snackID)
	if voterName != nil {
		query = query.Where("voter_name = ?", *voterName)
	}
	var vote models.Vote
	if err := query.Order("created_at DESC").First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *repositoryImpl) Count(ctx context.Context, snackID *uuid.UUID) (int64, error) {
	query := r.DB(ctx).Model(&models.Vote{})
	if snackID != nil {
		query = query.Where("snack_id = ?", *snackID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountAnonymous(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Vote{}).Where("voter_name IS NULL").Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountSnacks(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Snack{}).Count(&count).Error
	return count, err
}

const tallyColumns = "snacks.id, snacks.name, snacks.image_url, snacks.url, snacks.category, snacks.proposed_by, snacks.created_at, COUNT(votes.id) AS vote_count"

// TallyBySnack counts votes per voted snack, most voted first.
func (r *repositoryImpl) TallyBySnack(ctx context.Context, limit int) ([]SnackTally, error) {
	query := r.DB(ctx).
		Table("votes").
		Select(tallyColumns).
		Joins("JOIN snacks ON snacks.id = votes.snack_id").
		Group("snacks.id").
		Order("vote_count DESC").
		Order("snacks.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []SnackTally
	err := query.Scan(&rows).Error
	return rows, err
}

// TallyAllSnacks includes snacks with zero votes, newest first.
func (r *repositoryImpl) TallyAllSnacks(ctx context.Context) ([]SnackTally, error) {
	var rows []SnackTally
	err := r.DB(ctx).
		Table("snacks").
		Select(tallyColumns).
		Joins("LEFT JOIN votes ON votes.snack_id = snacks.id").
		Group("snacks.id").
		Order("snacks.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repositoryImpl) Recent(ctx context.Context, limit int) ([]models.Vote, error) {
	var rows []models.Vote
	err := r.DB(ctx).
		Preload("Snack").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var rows []models.Vote
	err := r.DB(ctx).
		Select("created_at").
		Where("created_at >= ?", since.UTC()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.CreatedAt)
	}
	return out, nil
}

func (r *repositoryImpl) List(ctx context.Context, filter AdminLogFilter) ([]models.Vote, error) {
	column := "created_at"
	if filter.SortBy == sortByVoterName {
		column = "voter_name"
	}
	query := r.DB(ctx).Preload("Snack")
	if filter.SnackID != nil {
		query = query.Where("snack_id = ?", *filter.SnackID)
	}
	var rows []models.Vote
	err := query.
		Order(fmt.Sprintf("%s %s", column, filter.SortOrder)).
		Limit(filter.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) ListAllWithSnack(ctx context.Context) ([]models.Vote, error) {
	var rows []models.Vote
	err := r.DB(ctx).Preload("Snack").Order("created_at DESC").Find(&rows).Error
	return rows, err
}
