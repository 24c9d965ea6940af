package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/officesnack/snackcycle/internal/admin"
	"github.com/officesnack/snackcycle/internal/announcements"
	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/internal/dashboard"
	"github.com/officesnack/snackcycle/internal/orders"
	"github.com/officesnack/snackcycle/internal/snacks"
	"github.com/officesnack/snackcycle/internal/suggestions"
	"github.com/officesnack/snackcycle/internal/trending"
	"github.com/officesnack/snackcycle/internal/votes"
	"github.com/officesnack/snackcycle/pkg/config"
	"github.com/officesnack/snackcycle/pkg/db"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/metrics"
)

type memorySessions struct {
	live map[string]bool
	next int
}

func (m *memorySessions) Create(context.Context) (string, error) {
	m.next++
	id := "session-" + strconv.Itoa(m.next)
	m.live[id] = true
	return id, nil
}

func (m *memorySessions) Revoke(_ context.Context, id string) error {
	delete(m.live, id)
	return nil
}

func (m *memorySessions) HasSession(_ context.Context, id string) (bool, error) {
	return m.live[id], nil
}

func (m *memorySessions) TTL() time.Duration { return time.Hour }

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(models.All()...))

	client := db.Wrap(conn)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	calendar := cycle.NewCalendar(time.UTC)
	cfg := &config.Config{
		App:   config.AppConfig{Env: "test"},
		JWT:   config.JWTConfig{Secret: "router-secret", Issuer: "snackcycle", ExpirationMinutes: 60},
		Admin: config.AdminConfig{Password: "letmein"},
	}

	adminSvc, err := admin.NewService(admin.ServiceParams{
		Sessions: &memorySessions{live: map[string]bool{}}, AdminCfg: cfg.Admin, JWTConfig: cfg.JWT, Logger: logg,
	})
	require.NoError(t, err)
	snackSvc, err := snacks.NewService(snacks.ServiceParams{Repo: snacks.NewRepository(conn), Tx: client, Logger: logg})
	require.NoError(t, err)
	voteSvc, err := votes.NewService(votes.ServiceParams{Repo: votes.NewRepository(conn), Guard: votes.BallotGuard{}, Calendar: calendar, Logger: logg})
	require.NoError(t, err)
	orderSvc, err := orders.NewService(orders.ServiceParams{Repo: orders.NewRepository(conn), Tx: client, Calendar: calendar, Logger: logg})
	require.NoError(t, err)
	cycleSvc, err := cycle.NewService(cycle.ServiceParams{Repo: cycle.NewRepository(conn), Tx: client, Calendar: calendar, Logger: logg})
	require.NoError(t, err)
	dashboardSvc, err := dashboard.NewService(dashboard.ServiceParams{Repo: dashboard.NewRepository(conn), Calendar: calendar, Logger: logg})
	require.NoError(t, err)
	announcementSvc, err := announcements.NewService(announcements.ServiceParams{Repo: announcements.NewRepository(conn), Tx: client, Logger: logg})
	require.NoError(t, err)
	suggestionSvc, err := suggestions.NewService(suggestions.ServiceParams{Repo: suggestions.NewRepository(conn), Tx: client, Logger: logg})
	require.NoError(t, err)
	trendingSvc, err := trending.NewService(trending.ServiceParams{Repo: trending.NewRepository(conn), Tx: client, Logger: logg})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return NewRouter(Params{
		Config:        cfg,
		Logger:        logg,
		DB:            client,
		Redis:         stubPinger{},
		Gatherer:      reg,
		HTTPMetrics:   metrics.NewHTTPMetrics(reg),
		Admin:         adminSvc,
		Snacks:        snackSvc,
		Votes:         voteSvc,
		Orders:        orderSvc,
		Cycle:         cycleSvc,
		Dashboard:     dashboardSvc,
		Announcements: announcementSvc,
		Suggestions:   suggestionSvc,
		Trending:      trendingSvc,
	})
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return rec
}

func data(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func TestHealthAndMetrics(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t), cookies: map[string]*http.Cookie{}}

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/ready", "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/nope", "").Code)

	rec := c.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `snackcycle_http_requests_total{method="GET",route="/health/live",status="200"} 1`)
}

func TestWeeklyCycleEndToEnd(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t), cookies: map[string]*http.Cookie{}}

	rec := c.do(http.MethodPost, "/snacks", `{"name":"새우깡","url":"https://shop.example/1","category":"과자","proposedBy":"kim"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var proposed struct {
		ID string `json:"id"`
	}
	data(t, rec, &proposed)

	rec = c.do(http.MethodPost, "/snacks/"+proposed.ID+"/vote", `{"voterName":"lee"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"voteCount":1}}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/snacks/"+proposed.ID+"/vote", `{}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_VOTE")

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/reset-weekly", "").Code)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, "/snacks/"+proposed.ID, "").Code)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login", `{"password":"wrong"}`).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login", `{"password":"letmein"}`).Code)
	assert.JSONEq(t, `{"data":{"isAdmin":true}}`, c.do(http.MethodGet, "/auth/check", "").Body.String())

	rec = c.do(http.MethodPost, "/announcements", `{"message":"금요일 마감"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = c.do(http.MethodPost, "/orders", `{"items":[{"snackId":"`+proposed.ID+`","quantity":3}],"totalCost":"4500"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var active []map[string]any
	data(t, c.do(http.MethodGet, "/snacks", ""), &active)
	assert.Empty(t, active, "ordered snacks leave the active list")

	var total struct {
		TotalQuantity int `json:"totalQuantity"`
	}
	data(t, c.do(http.MethodGet, "/weekly-total", ""), &total)
	assert.Equal(t, 3, total.TotalQuantity)

	rec = c.do(http.MethodPost, "/reset-weekly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var reset cycle.ResetResult
	data(t, rec, &reset)
	assert.Equal(t, int64(1), reset.CompletedOrdersCount)
	assert.Equal(t, int64(1), reset.DeletedVotesCount)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/logout", "").Code)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, "/announcements", "").Code)
}
