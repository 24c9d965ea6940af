package suggestions

import (
	"context"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/internal/repo"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"gorm.io/gorm"
)

// Summary is a suggestion row with its comment count.
type Summary struct {
	models.Suggestion
	CommentCount int64 `json:"commentCount"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]Summary, error)
	Create(ctx context.Context, suggestion *models.Suggestion) error
	FindWithThread(ctx context.Context, id uuid.UUID) (*models.Suggestion, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteSuggestion(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteCommentsForSuggestion(ctx context.Context, id uuid.UUID) error
	FindComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	ChildCommentIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error)
	DeleteComments(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	return &repositoryImpl{Base: r.Bind(tx)}
}

func (r *repositoryImpl) List(ctx context.Context) ([]Summary, error) {
	var rows []Summary
	err := r.DB(ctx).
		Model(&models.Suggestion{}).
		Select("suggestions.*, COUNT(comments.id) AS comment_count").
		Joins("LEFT JOIN comments ON comments.suggestion_id = suggestions.id").
		Group("suggestions.id").
		Order("suggestions.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repositoryImpl) Create(ctx context.Context, suggestion *models.Suggestion) error {
	return r.DB(ctx).Create(suggestion).Error
}

// FindWithThread loads top-level comments newest first and two levels of replies oldest first.
func (r *repositoryImpl) FindWithThread(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	err := r.DB(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("parent_comment_id IS NULL").Order("created_at DESC")
		}).
		Preload("Comments.Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Replies.Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&suggestion, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (r *repositoryImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Suggestion{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) DeleteSuggestion(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.DB(ctx).Delete(&models.Suggestion{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) DeleteCommentsForSuggestion(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Comment{}, "suggestion_id = ?", id).Error
}

func (r *repositoryImpl) FindComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.DB(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repositoryImpl) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.DB(ctx).Omit("Replies").Create(comment).Error
}

func (r *repositoryImpl) ChildCommentIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.DB(ctx).Model(&models.Comment{}).Where("parent_comment_id IN ?", parentIDs).Pluck("id", &ids).Error
	return ids, err
}

func (r *repositoryImpl) DeleteComments(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.DB(ctx).Where("id IN ?", ids).Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}
