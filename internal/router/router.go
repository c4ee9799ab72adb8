package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	auditH "github.com/pedready/pedready-api/internal/handler/audit"
	authH "github.com/pedready/pedready-api/internal/handler/auth"
	certH "github.com/pedready/pedready-api/internal/handler/certification"
	courseH "github.com/pedready/pedready-api/internal/handler/course"
	facilityH "github.com/pedready/pedready-api/internal/handler/facility"
	healthH "github.com/pedready/pedready-api/internal/handler/health"
	patientH "github.com/pedready/pedready-api/internal/handler/patient"
	promH "github.com/pedready/pedready-api/internal/handler/prometheus"
	"github.com/pedready/pedready-api/internal/middleware"
	"github.com/pedready/pedready-api/internal/model"
)

type Handlers struct {
	Health        *healthH.Handler
	Prometheus    *promH.Handler
	Auth          *authH.Handler
	Patient       *patientH.Handler
	Course        *courseH.Handler
	Certification *certH.Handler
	Facility      *facilityH.Handler
	Audit         *auditH.Handler
}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
	CacheTTL   time.Duration
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	config   Config
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		config:   config,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		handlers.Prometheus.Middleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: 30 * time.Second}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", r.handlers.Prometheus.Handler())

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)

	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.handlers.Auth.RegisterRoutes(rg)

	// Certificate verification is public and cacheable.
	public := rg.Group("")
	cache := middleware.NewResponseCache(r.config.CacheTTL, 2*r.config.CacheTTL)
	public.Use(cache.Cache())
	r.handlers.Certification.RegisterPublicRoutes(public)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.handlers.Patient.RegisterRoutes(rg)
	r.handlers.Course.RegisterRoutes(rg)
	r.handlers.Certification.RegisterRoutes(rg)

	// Readiness scores change only when a new report lands, so short
	// caching is safe.
	readinessCache := middleware.NewResponseCache(r.config.CacheTTL, 2*r.config.CacheTTL)
	r.handlers.Facility.RegisterRoutes(rg, readinessCache.Cache())

	admin := rg.Group("")
	admin.Use(r.auth.RequireRole(string(model.UserRoleAdmin)))
	r.handlers.Audit.RegisterRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
