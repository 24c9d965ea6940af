package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/internal/admin"
	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/internal/dashboard"
	"github.com/officesnack/snackcycle/internal/orders"
	"github.com/officesnack/snackcycle/internal/snacks"
	"github.com/officesnack/snackcycle/internal/suggestions"
	"github.com/officesnack/snackcycle/internal/trending"
	"github.com/officesnack/snackcycle/internal/votes"
	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newRequest(method, target, body string, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func asAdmin(req *http.Request) *http.Request {
	return req.WithContext(auth.WithAdmin(req.Context(), auth.GrantAdmin("sess", time.Now())))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type stubSnackService struct {
	propose        func(ctx context.Context, input snacks.ProposeInput) (*models.Snack, error)
	listActive     func(ctx context.Context) ([]snacks.SnackWithVotes, error)
	listByProposer func(ctx context.Context, proposer string) ([]snacks.SnackWithVotes, error)
	retire         func(ctx context.Context, admin *auth.AdminCapability, id uuid.UUID) error
}

func (s *stubSnackService) Propose(ctx context.Context, input snacks.ProposeInput) (*models.Snack, error) {
	return s.propose(ctx, input)
}

func (s *stubSnackService) ListActive(ctx context.Context) ([]snacks.SnackWithVotes, error) {
	return s.listActive(ctx)
}

func (s *stubSnackService) ListByProposer(ctx context.Context, proposer string) ([]snacks.SnackWithVotes, error) {
	return s.listByProposer(ctx, proposer)
}

func (s *stubSnackService) Retire(ctx context.Context, admin *auth.AdminCapability, id uuid.UUID) error {
	if s.retire != nil {
		return s.retire(ctx, admin, id)
	}
	return auth.RequireAdmin(admin)
}

func (s *stubSnackService) PurgeRetiredBefore(context.Context, time.Time) (*snacks.PurgeResult, error) {
	panic("not implemented")
}

type stubVoteService struct {
	vote     func(ctx context.Context, voter votes.Voter, snackID uuid.UUID, voterName *string) (*votes.VoteResult, error)
	unvote   func(ctx context.Context, voter votes.Voter, snackID uuid.UUID, voterName *string) (*votes.VoteResult, error)
	stats    func(ctx context.Context) (*votes.Stats, error)
	adminLog func(ctx context.Context, admin *auth.AdminCapability, filter votes.AdminLogFilter) (*votes.AdminLog, error)
	activity func(ctx context.Context) (*votes.UserActivity, error)
}

func (s *stubVoteService) Vote(ctx context.Context, voter votes.Voter, snackID uuid.UUID, voterName *string) (*votes.VoteResult, error) {
	return s.vote(ctx, voter, snackID, voterName)
}

func (s *stubVoteService) Unvote(ctx context.Context, voter votes.Voter, snackID uuid.UUID, voterName *string) (*votes.VoteResult, error) {
	return s.unvote(ctx, voter, snackID, voterName)
}

func (s *stubVoteService) Stats(ctx context.Context) (*votes.Stats, error) { return s.stats(ctx) }

func (s *stubVoteService) AdminLog(ctx context.Context, admin *auth.AdminCapability, filter votes.AdminLogFilter) (*votes.AdminLog, error) {
	return s.adminLog(ctx, admin, filter)
}

func (s *stubVoteService) UserActivity(ctx context.Context) (*votes.UserActivity, error) {
	return s.activity(ctx)
}

type stubOrderService struct {
	create      func(ctx context.Context, input orders.CreateInput) (*models.Order, error)
	list        func(ctx context.Context) ([]models.Order, error)
	get         func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	weeklyTotal func(ctx context.Context, now time.Time) (*orders.WeeklyTotal, error)
}

func (s *stubOrderService) Create(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
	return s.create(ctx, input)
}

func (s *stubOrderService) List(ctx context.Context) ([]models.Order, error) { return s.list(ctx) }

func (s *stubOrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.get(ctx, id)
}

func (s *stubOrderService) WeeklyTotal(ctx context.Context, now time.Time) (*orders.WeeklyTotal, error) {
	return s.weeklyTotal(ctx, now)
}

type stubCycleService struct {
	reset func(ctx context.Context, admin *auth.AdminCapability) (*cycle.ResetResult, error)
}

func (s *stubCycleService) WeeklyReset(ctx context.Context, admin *auth.AdminCapability) (*cycle.ResetResult, error) {
	return s.reset(ctx, admin)
}

type stubDashboardService struct {
	summary func(ctx context.Context, now time.Time) *dashboard.Summary
	recent  func(ctx context.Context, since *time.Time) []dashboard.Activity
}

func (s *stubDashboardService) Summary(ctx context.Context, now time.Time) *dashboard.Summary {
	return s.summary(ctx, now)
}

func (s *stubDashboardService) RecentActivities(ctx context.Context, since *time.Time) []dashboard.Activity {
	return s.recent(ctx, since)
}

type stubAnnouncementService struct {
	publish   func(ctx context.Context, admin *auth.AdminCapability, message string) (*models.Announcement, error)
	clear     func(ctx context.Context, admin *auth.AdminCapability) (int64, error)
	getActive func(ctx context.Context) (*models.Announcement, error)
}

func (s *stubAnnouncementService) Publish(ctx context.Context, admin *auth.AdminCapability, message string) (*models.Announcement, error) {
	return s.publish(ctx, admin, message)
}

func (s *stubAnnouncementService) Clear(ctx context.Context, admin *auth.AdminCapability) (int64, error) {
	return s.clear(ctx, admin)
}

func (s *stubAnnouncementService) GetActive(ctx context.Context) (*models.Announcement, error) {
	return s.getActive(ctx)
}

type stubSuggestionService struct {
	list          func(ctx context.Context) ([]suggestions.Summary, error)
	create        func(ctx context.Context, input suggestions.CreateInput) (*models.Suggestion, error)
	get           func(ctx context.Context, id uuid.UUID) (*models.Suggestion, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
	addComment    func(ctx context.Context, suggestionID uuid.UUID, input suggestions.CommentInput) (*models.Comment, error)
	deleteComment func(ctx context.Context, admin *auth.AdminCapability, id uuid.UUID) error
}

func (s *stubSuggestionService) List(ctx context.Context) ([]suggestions.Summary, error) {
	return s.list(ctx)
}

func (s *stubSuggestionService) Create(ctx context.Context, input suggestions.CreateInput) (*models.Suggestion, error) {
	return s.create(ctx, input)
}

func (s *stubSuggestionService) Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	return s.get(ctx, id)
}

func (s *stubSuggestionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func (s *stubSuggestionService) AddComment(ctx context.Context, suggestionID uuid.UUID, input suggestions.CommentInput) (*models.Comment, error) {
	return s.addComment(ctx, suggestionID, input)
}

func (s *stubSuggestionService) DeleteComment(ctx context.Context, admin *auth.AdminCapability, id uuid.UUID) error {
	return s.deleteComment(ctx, admin, id)
}

type stubTrendingService struct {
	recent          func(ctx context.Context, now time.Time) ([]models.TrendingSnack, error)
	refresh         func(ctx context.Context, now time.Time) (*trending.RefreshResult, error)
	search          func(ctx context.Context, query string) ([]trending.ProductListing, error)
	recommendations func(ctx context.Context) ([]trending.Recommendation, error)
}

func (s *stubTrendingService) Recent(ctx context.Context, now time.Time) ([]models.TrendingSnack, error) {
	return s.recent(ctx, now)
}

func (s *stubTrendingService) Refresh(ctx context.Context, now time.Time) (*trending.RefreshResult, error) {
	return s.refresh(ctx, now)
}

func (s *stubTrendingService) Search(ctx context.Context, query string) ([]trending.ProductListing, error) {
	return s.search(ctx, query)
}

func (s *stubTrendingService) Recommendations(ctx context.Context) ([]trending.Recommendation, error) {
	return s.recommendations(ctx)
}

type stubAdminService struct {
	login   func(ctx context.Context, password string) (*admin.LoginResult, error)
	logout  func(ctx context.Context, token string) error
	resolve func(ctx context.Context, token string) (*auth.AdminCapability, error)
	check   func(ctx context.Context, token string) bool
}

func (s *stubAdminService) Login(ctx context.Context, password string) (*admin.LoginResult, error) {
	return s.login(ctx, password)
}

func (s *stubAdminService) Logout(ctx context.Context, token string) error {
	return s.logout(ctx, token)
}

func (s *stubAdminService) Resolve(ctx context.Context, token string) (*auth.AdminCapability, error) {
	return s.resolve(ctx, token)
}

func (s *stubAdminService) Check(ctx context.Context, token string) bool {
	return s.check(ctx, token)
}
