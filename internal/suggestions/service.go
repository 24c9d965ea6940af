package suggestions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/db/models"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type CreateInput struct {
	Title      string
	Content    string
	AuthorName string
}

type CommentInput struct {
	Content         string
	AuthorName      string
	ParentCommentID *uuid.UUID
}

// Service runs the suggestion board.
type Service interface {
	List(ctx context.Context) ([]Summary, error)
	Create(ctx context.Context, input CreateInput) (*models.Suggestion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddComment(ctx context.Context, suggestionID uuid.UUID, input CommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, admin *auth.AdminCapability, id uuid.UUID) error
}

type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Logger *logger.Logger
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "suggestion repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: params.Repo, tx: params.Tx, logg: params.Logger, now: time.Now}, nil
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suggestions")
	}
	if rows == nil {
		rows = []Summary{}
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Suggestion, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	author := strings.TrimSpace(input.AuthorName)
	if title == "" || content == "" || author == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title, content and authorName are required")
	}

	now := s.now().UTC()
	suggestion := &models.Suggestion{
		ID:         uuid.New(),
		Title:      title,
		Content:    content,
		AuthorName: author,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, suggestion); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create suggestion")
	}
	return suggestion, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	suggestion, err := s.repo.FindWithThread(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "suggestion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load suggestion")
	}
	if suggestion.Comments == nil {
		suggestion.Comments = []models.Comment{}
	}
	return suggestion, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteCommentsForSuggestion(ctx, id); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		n, err := repo.DeleteSuggestion(ctx, id)
		if err != nil {
			return fmt.Errorf("delete suggestion: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete suggestion failed")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "suggestion not found")
	}
	return nil
}

func (s *service) AddComment(ctx context.Context, suggestionID uuid.UUID, input CommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(input.Content)
	author := strings.TrimSpace(input.AuthorName)
	if content == "" || author == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content and authorName are required")
	}

	exists, err := s.repo.Exists(ctx, suggestionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load suggestion")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "suggestion not found")
	}

	if input.ParentCommentID != nil {
		parent, err := s.repo.FindComment(ctx, *input.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent comment not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent comment")
		}
		if parent.SuggestionID != suggestionID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent comment belongs to another suggestion")
		}
	}

	comment := &models.Comment{
		ID:              uuid.New(),
		SuggestionID:    suggestionID,
		ParentCommentID: input.ParentCommentID,
		Content:         content,
		AuthorName:      author,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}
	return comment, nil
}

// DeleteComment removes the comment and every reply beneath it.
func (s *service) DeleteComment(ctx context.Context, admin *auth.AdminCapability, id uuid.UUID) error {
	if err := auth.RequireAdmin(admin); err != nil {
		return err
	}
	if _, err := s.repo.FindComment(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		doomed := []uuid.UUID{id}
		frontier := []uuid.UUID{id}
		for len(frontier) > 0 {
			children, err := repo.ChildCommentIDs(ctx, frontier)
			if err != nil {
				return fmt.Errorf("collect replies: %w", err)
			}
			doomed = append(doomed, children...)
			frontier = children
		}
		if _, err := repo.DeleteComments(ctx, doomed); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete comment failed")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"comment_id": id.String(), "admin_session": admin.SessionID()})
	s.logg.Info(logCtx, "comment deleted")
	return nil
}
