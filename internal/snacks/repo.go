package snacks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/internal/repo"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/officesnack/snackcycle/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for snack proposals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, snack *models.Snack) error
	Find(ctx context.Context, id uuid.UUID) (*models.Snack, error)
	ListActiveWithVotes(ctx context.Context) ([]SnackWithVotes, error)
	ListByProposerWithVotes(ctx context.Context, proposer string) ([]SnackWithVotes, error)
	Retire(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
	PurgeableIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	DeleteVotesForSnacks(ctx context.Context, ids []uuid.UUID) (int64, error)
	DeleteSnacks(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository returns a snacks repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	return &repositoryImpl{Base: r.Bind(tx)}
}

func (r *repositoryImpl) Create(ctx context.Context, snack *models.Snack) error {
	if snack.ID == uuid.Nil {
		snack.ID = uuid.New()
	}
	return r.DB(ctx).Create(snack).Error
}

func (r *repositoryImpl) Find(ctx context.Context, id uuid.UUID) (*models.Snack, error) {
	var snack models.Snack
	if err := r.DB(ctx).First(&snack, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &snack, nil
}

func (r *repositoryImpl) withVotes(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Model(&models.Snack{}).
		Select("snacks.*, COUNT(votes.id) AS vote_count").
		Joins("LEFT JOIN votes ON votes.snack_id = snacks.id").
		Group("snacks.id").
		Order("snacks.created_at DESC")
}

func (r *repositoryImpl) ListActiveWithVotes(ctx context.Context) ([]SnackWithVotes, error) {
	var rows []SnackWithVotes
	err := r.withVotes(ctx).
		Where("snacks.lifecycle = ?", enums.SnackLifecycleActive).
		Scan(&rows).Error
	return rows, err
}

func (r *repositoryImpl) ListByProposerWithVotes(ctx context.Context, proposer string) ([]SnackWithVotes, error) {
	var rows []SnackWithVotes
	err := r.withVotes(ctx).
		Where("snacks.proposed_by = ?", proposer).
		Scan(&rows).Error
	return rows, err
}

// Retire only touches active rows so an earlier retirement timestamp is kept.
func (r *repositoryImpl) Retire(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Snack{}).
		Where("id = ? AND lifecycle = ?", id, enums.SnackLifecycleActive).
		UpdateColumns(models.RetireColumns(now))
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) PurgeableIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).
		Model(&models.Snack{}).
		Where("lifecycle = ? AND deleted_at < ?", enums.SnackLifecycleRetired, cutoff.UTC()).
		Where("NOT EXISTS (SELECT 1 FROM order_items WHERE order_items.snack_id = snacks.id)").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repositoryImpl) DeleteVotesForSnacks(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.DB(ctx).Where("snack_id IN ?", ids).Delete(&models.Vote{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) DeleteSnacks(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.DB(ctx).Where("id IN ?", ids).Delete(&models.Snack{})
	return result.RowsAffected, result.Error
}
