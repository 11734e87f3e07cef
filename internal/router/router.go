package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AuthHandler mounts the sign-in endpoints behind an optional rate limit.
type AuthHandler interface {
	RegisterRoutes(r *gin.RouterGroup, limit gin.HandlerFunc)
}

// ClinicHandler splits its routes between signed-in users and clinic members.
type ClinicHandler interface {
	RegisterRoutes(authed, tenant *gin.RouterGroup)
}

// PageHandler mounts each page behind the guard it needs.
type PageHandler interface {
	RegisterRoutes(guest, authed, tenant *gin.RouterGroup)
}

type Handlers struct {
	Auth        AuthHandler
	Clinic      ClinicHandler
	Doctor      Handler
	Patient     Handler
	Appointment Handler
	Page        PageHandler
	Health      Handler
}

type RouterConfig struct {
	Mode           string
	CookieName     string
	CookieSecure   bool
	AllowedOrigins []string
	MaxBodyBytes   int64
	RateLimit      config.RateLimitConfig
	Metrics        config.MetricsConfig
}

type Router struct {
	engine    *gin.Engine
	config    RouterConfig
	handlers  Handlers
	sessions  middleware.SessionResolver
	augmenter middleware.SessionAugmenter
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
}

func NewRouter(
	cfg RouterConfig,
	handlers Handlers,
	sessions middleware.SessionResolver,
	augmenter middleware.SessionAugmenter,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := &Router{
		engine:    gin.New(),
		config:    cfg,
		handlers:  handlers,
		sessions:  sessions,
		augmenter: augmenter,
		metrics:   m,
		gatherer:  gatherer,
	}

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if cfg.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = cfg.MaxBodyBytes
	}

	r.engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(cfg.CookieSecure)),
		middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins...)),
		middleware.SizeLimit(sizeLimit),
	)

	return r
}

func (r *Router) Setup() {
	if r.config.Metrics.Enabled && r.gatherer != nil {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}
	r.handlers.Health.RegisterRoutes(&r.engine.RouterGroup)

	withSession := r.engine.Group("", middleware.LoadSession(r.sessions, r.augmenter, r.config.CookieName))

	r.setupAPIRoutes(withSession.Group("/api"))
	r.setupPageRoutes(withSession)
}

func (r *Router) setupAPIRoutes(api *gin.RouterGroup) {
	var limit gin.HandlerFunc
	if r.config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   r.config.RateLimit.RequestsPerSecond,
			Burst: r.config.RateLimit.Burst,
		})
		limit = limiter.RateLimit()
	}
	r.handlers.Auth.RegisterRoutes(api, limit)

	authed := api.Group("", middleware.RequireSession(r.metrics))
	tenant := api.Group("", middleware.RequireClinic(r.metrics))

	r.handlers.Clinic.RegisterRoutes(authed, tenant)
	r.handlers.Doctor.RegisterRoutes(tenant)
	r.handlers.Patient.RegisterRoutes(tenant)
	r.handlers.Appointment.RegisterRoutes(tenant)
}

func (r *Router) setupPageRoutes(rg *gin.RouterGroup) {
	r.handlers.Page.RegisterRoutes(
		rg.Group("", middleware.GuestOnly(r.metrics)),
		rg.Group("", middleware.RequireSession(r.metrics)),
		rg.Group("", middleware.RequireClinic(r.metrics)),
	)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if r.metrics == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
