package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/officesnack/snackcycle/api/controllers"
	"github.com/officesnack/snackcycle/api/middleware"
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
	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/metrics"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Params collects everything the router wires into handlers.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       db.Pinger
	RateLimiter rateLimiter
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Admin         admin.Service
	Snacks        snacks.Service
	Votes         votes.Service
	Orders        orders.Service
	Cycle         cycle.Service
	Dashboard     dashboard.Service
	Announcements announcements.Service
	Suggestions   suggestions.Service
	Trending      trending.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger
	cookies := controllers.CookieOptions{Secure: cfg.Admin.CookieSecure}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("login", cfg.RateLimit.LoginWindow, cfg.RateLimit.LoginIPLimit), p.RateLimiter, logg)
	voteLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("vote", cfg.RateLimit.VoteWindow, cfg.RateLimit.VoteIPLimit), p.RateLimiter, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg,
			controllers.Dependency{Name: "database", Pinger: p.DB},
			controllers.Dependency{Name: "redis", Pinger: p.Redis},
		))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.AuthLogin(p.Admin, cookies, logg))
		r.Post("/logout", controllers.AuthLogout(p.Admin, cookies, logg))
		r.Get("/check", controllers.AuthCheck(p.Admin, logg))
	})

	r.Group(func(r chi.Router) {
		if p.Admin != nil {
			r.Use(middleware.AdminSession(p.Admin, logg))
		}

		r.Route("/snacks", func(r chi.Router) {
			r.Get("/", controllers.SnackList(p.Snacks, logg))
			r.Post("/", controllers.SnackPropose(p.Snacks, logg))
			r.Delete("/{id}", controllers.SnackRetire(p.Snacks, logg))
			r.With(voteLimit).Post("/{id}/vote", controllers.SnackVote(p.Votes, cookies, logg))
			r.With(voteLimit).Delete("/{id}/vote", controllers.SnackUnvote(p.Votes, cookies, logg))
		})
		r.Get("/my-snacks", controllers.MySnacks(p.Snacks, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(p.Orders, logg))
			r.Post("/", controllers.OrderCreate(p.Orders, logg))
			r.Get("/{id}", controllers.OrderDetail(p.Orders, logg))
		})
		r.Get("/weekly-total", controllers.WeeklyTotal(p.Orders, logg))
		r.Post("/reset-weekly", controllers.WeeklyReset(p.Cycle, logg))

		r.Get("/dashboard", controllers.Dashboard(p.Dashboard, logg))
		r.Get("/recent-activities", controllers.RecentActivities(p.Dashboard, logg))

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", controllers.AnnouncementGet(p.Announcements, logg))
			r.Post("/", controllers.AnnouncementPublish(p.Announcements, logg))
			r.Delete("/", controllers.AnnouncementClear(p.Announcements, logg))
		})

		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/", controllers.SuggestionList(p.Suggestions, logg))
			r.Post("/", controllers.SuggestionCreate(p.Suggestions, logg))
			r.Get("/{id}", controllers.SuggestionDetail(p.Suggestions, logg))
			r.Delete("/{id}", controllers.SuggestionDelete(p.Suggestions, logg))
			r.Post("/{id}/comments", controllers.CommentCreate(p.Suggestions, logg))
		})
		r.Delete("/comments/{id}", controllers.CommentDelete(p.Suggestions, logg))

		r.Get("/trending", controllers.TrendingList(p.Trending, logg))
		r.Post("/trending", controllers.TrendingRefresh(p.Trending, logg))
		r.Get("/search-snacks", controllers.SearchSnacks(p.Trending, logg))
		r.Get("/recommendations", controllers.Recommendations(p.Trending, logg))

		r.Get("/votes/stats", controllers.VoteStats(p.Votes, logg))
		r.Get("/admin/votes", controllers.AdminVotes(p.Votes, logg))
		r.Get("/users/activity", controllers.UserActivity(p.Votes, logg))
	})

	return r
}
