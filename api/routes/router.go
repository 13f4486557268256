package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storerate/storerate-backend/api/controllers"
	"github.com/storerate/storerate-backend/api/middleware"
	"github.com/storerate/storerate-backend/internal/auth"
	"github.com/storerate/storerate-backend/internal/ratings"
	"github.com/storerate/storerate-backend/internal/stores"
	"github.com/storerate/storerate-backend/internal/users"
	"github.com/storerate/storerate-backend/pkg/authz"
	"github.com/storerate/storerate-backend/pkg/config"
	"github.com/storerate/storerate-backend/pkg/logger"
	"github.com/storerate/storerate-backend/pkg/metrics"
	"github.com/storerate/storerate-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database controllers.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	usersService users.Service,
	storesService stores.Service,
	ratingsService ratings.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	var limiterStore middleware.RateLimiterStore
	var cache controllers.Pinger
	if redisClient != nil {
		limiterStore = redisClient
		cache = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, cache, logg))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, limiterStore, logg)).Post("/signup", controllers.AuthSignup(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).Post("/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.With(middleware.RequireOperation(authz.OpAuthChangePassword, logg)).Post("/change-password", controllers.AuthChangePassword(authService, logg))
			r.With(middleware.RequireOperation(authz.OpAuthProfile, logg)).Get("/profile", controllers.AuthProfile(authService, logg))
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.With(middleware.RequireOperation(authz.OpDashboardStats, logg)).Get("/dashboard-stats", controllers.UsersDashboardStats(usersService, logg))
		r.With(middleware.RequireOperation(authz.OpUsersList, logg)).Get("/", controllers.UsersList(usersService, logg))
		r.With(middleware.RequireOperation(authz.OpUsersCreate, logg)).Post("/", controllers.UsersCreate(usersService, logg))
		r.With(middleware.RequireOperation(authz.OpUsersGet, logg)).Get("/{id}", controllers.UsersGet(usersService, logg))
		r.With(middleware.RequireOperation(authz.OpUsersUpdate, logg)).Patch("/{id}", controllers.UsersUpdate(usersService, logg))
		r.With(middleware.RequireOperation(authz.OpUsersDelete, logg)).Delete("/{id}", controllers.UsersDelete(usersService, logg))
	})

	r.Route("/stores", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.With(middleware.RequireOperation(authz.OpStoresMine, logg)).Get("/my-stores", controllers.StoresMine(storesService, logg))
		r.With(middleware.RequireOperation(authz.OpStoresList, logg)).Get("/", controllers.StoresList(storesService, logg))
		r.With(middleware.RequireOperation(authz.OpStoresCreate, logg)).Post("/", controllers.StoresCreate(storesService, logg))
		r.With(middleware.RequireOperation(authz.OpStoresGet, logg)).Get("/{id}", controllers.StoresGet(storesService, logg))
		r.With(middleware.RequireOperation(authz.OpStoresUpdate, logg)).Patch("/{id}", controllers.StoresUpdate(storesService, logg))
		r.With(middleware.RequireOperation(authz.OpStoresDelete, logg)).Delete("/{id}", controllers.StoresDelete(storesService, logg))
	})

	r.Route("/ratings", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.With(middleware.RequireOperation(authz.OpRatingsMine, logg)).Get("/my-ratings", controllers.RatingsMine(ratingsService, logg))
		r.With(middleware.RequireOperation(authz.OpRatingsByStore, logg)).Get("/store/{storeId}", controllers.RatingsByStore(ratingsService, logg))
		r.With(middleware.RequireOperation(authz.OpRatingsForStore, logg)).Get("/user-rating/{storeId}", controllers.RatingsForStore(ratingsService, logg))
		r.With(middleware.RequireOperation(authz.OpRatingsCreate, logg)).Post("/", controllers.RatingsCreate(ratingsService, logg))
		r.With(middleware.RequireOperation(authz.OpRatingsList, logg)).Get("/", controllers.RatingsList(ratingsService, logg))
		r.With(middleware.RequireOperation(authz.OpRatingsGet, logg)).Get("/{id}", controllers.RatingsGet(ratingsService, logg))
		r.With(middleware.RequireOperation(authz.OpRatingsUpdate, logg)).Patch("/{id}", controllers.RatingsUpdate(ratingsService, logg))
		r.With(middleware.RequireOperation(authz.OpRatingsDelete, logg)).Delete("/{id}", controllers.RatingsDelete(ratingsService, logg))
	})

	return r
}
