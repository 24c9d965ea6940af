package suggestions

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/db"
	"github.com/officesnack/snackcycle/pkg/db/models"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type clock struct{ now time.Time }

func (c *clock) tick() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func setup(t *testing.T) (*gorm.DB, *service) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		Tx:     db.Wrap(conn),
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	c := &clock{now: time.Date(2026, 3, 4, 1, 0, 0, 0, time.UTC)}
	impl := svc.(*service)
	impl.now = c.tick
	return conn, impl
}

func TestCreateRequiresAllFields(t *testing.T) {
	_, svc := setup(t)

	_, err := svc.Create(context.Background(), CreateInput{Title: "간식 추천", Content: " ", AuthorName: "지수"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	created, err := svc.Create(context.Background(), CreateInput{Title: "간식 추천", Content: "젤리 더 주세요", AuthorName: "지수"})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestListCountsComments(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Title: "a", Content: "a", AuthorName: "a"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{Title: "b", Content: "b", AuthorName: "b"})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := svc.AddComment(ctx, first.ID, CommentInput{Content: "좋아요", AuthorName: "민수"})
		require.NoError(t, err)
	}

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Zero(t, rows[0].CommentCount)
	assert.Equal(t, int64(2), rows[1].CommentCount)
}

func TestGetOrdersThread(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	suggestion, err := svc.Create(ctx, CreateInput{Title: "t", Content: "c", AuthorName: "a"})
	require.NoError(t, err)
	top1, err := svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "first", AuthorName: "a"})
	require.NoError(t, err)
	top2, err := svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "second", AuthorName: "b"})
	require.NoError(t, err)
	replyLate, err := svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "r1", AuthorName: "c", ParentCommentID: &top1.ID})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "r2", AuthorName: "d", ParentCommentID: &top1.ID})
	require.NoError(t, err)
	nested, err := svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "rr", AuthorName: "e", ParentCommentID: &replyLate.ID})
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, suggestion.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Comments, 2)
	assert.Equal(t, top2.ID, loaded.Comments[0].ID, "top-level comments newest first")
	replies := loaded.Comments[1].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, replyLate.ID, replies[0].ID, "replies oldest first")
	require.Len(t, replies[0].Replies, 1)
	assert.Equal(t, nested.ID, replies[0].Replies[0].ID)

	_, err = svc.Get(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAddCommentChecksParent(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()
	one, err := svc.Create(ctx, CreateInput{Title: "1", Content: "1", AuthorName: "1"})
	require.NoError(t, err)
	two, err := svc.Create(ctx, CreateInput{Title: "2", Content: "2", AuthorName: "2"})
	require.NoError(t, err)
	foreign, err := svc.AddComment(ctx, two.ID, CommentInput{Content: "x", AuthorName: "x"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, one.ID, CommentInput{Content: "y", AuthorName: "y", ParentCommentID: &foreign.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	missing := uuid.New()
	_, err = svc.AddComment(ctx, one.ID, CommentInput{Content: "y", AuthorName: "y", ParentCommentID: &missing})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.AddComment(ctx, uuid.New(), CommentInput{Content: "y", AuthorName: "y"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.AddComment(ctx, one.ID, CommentInput{Content: "", AuthorName: "y"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	conn, svc := setup(t)
	ctx := context.Background()
	suggestion, err := svc.Create(ctx, CreateInput{Title: "t", Content: "c", AuthorName: "a"})
	require.NoError(t, err)
	top, err := svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "top", AuthorName: "a"})
	require.NoError(t, err)
	reply, err := svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "reply", AuthorName: "b", ParentCommentID: &top.ID})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "deep", AuthorName: "c", ParentCommentID: &reply.ID})
	require.NoError(t, err)
	keep, err := svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "keep", AuthorName: "d"})
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, nil, top.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	admin := auth.GrantAdmin("session", time.Now())
	require.NoError(t, svc.DeleteComment(ctx, admin, top.ID))

	var remaining []uuid.UUID
	require.NoError(t, conn.Model(&models.Comment{}).Pluck("id", &remaining).Error)
	assert.Equal(t, []uuid.UUID{keep.ID}, remaining)

	assert.True(t, pkgerrors.IsCode(svc.DeleteComment(ctx, admin, top.ID), pkgerrors.CodeNotFound))
}

func TestDeleteSuggestion(t *testing.T) {
	conn, svc := setup(t)
	ctx := context.Background()
	suggestion, err := svc.Create(ctx, CreateInput{Title: "t", Content: "c", AuthorName: "a"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, suggestion.ID, CommentInput{Content: "c", AuthorName: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, suggestion.ID))

	var count int64
	require.NoError(t, conn.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, suggestion.ID), pkgerrors.CodeNotFound))
}
