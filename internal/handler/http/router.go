package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/EcommerceGo/wishlist/internal/auth"
	"github.com/utafrali/EcommerceGo/wishlist/internal/service"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/health"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/middleware"
)

// RouterConfig holds the HTTP surface settings of the wishlist service.
type RouterConfig struct {
	ServiceName string
	CORS        middleware.CORSConfig
	// SharedCacheMaxAge is the private Cache-Control max-age, in seconds, of
	// shared wishlist reads. Zero disables caching.
	SharedCacheMaxAge int
	PprofCIDRs        []string
}

// NewTokenValidator adapts a JWTManager to the auth middleware.
func NewTokenValidator(jwt *auth.JWTManager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: claims.UserID}, nil
	}
}

// NewRouter creates a chi router with all wishlist service routes registered.
func NewRouter(
	wishlistService *service.WishlistService,
	validate middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	h := NewWishlistHandler(wishlistService, logger)

	r.Route("/store", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(middleware.CacheControl(cfg.SharedCacheMaxAge)).Get("/wishlists", h.GetShared)

		r.Route("/customers/me/wishlists", func(r chi.Router) {
			r.Use(middleware.Auth(validate))

			r.Get("/", h.GetMine)
			r.Delete("/", h.DeleteMine)

			r.Post("/items", h.AddItem)
			r.Delete("/items", h.RemoveItem)

			r.Post("/share-token", h.IssueShareToken)
		})
	})

	return r
}
