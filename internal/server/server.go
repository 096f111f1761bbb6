package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"climatejobs/internal/config"
	"climatejobs/internal/database"
	"climatejobs/internal/domain/application"
	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/dashboard"
	"climatejobs/internal/domain/job"
	"climatejobs/internal/domain/notification"
	"climatejobs/internal/domain/payment"
	"climatejobs/internal/domain/submission"
	"climatejobs/internal/events"
	"climatejobs/internal/logger"
	"climatejobs/internal/middleware"
	"climatejobs/internal/pkg/apperr"
	jwtsvc "climatejobs/internal/pkg/jwt"
	"climatejobs/internal/pkg/response"
	"climatejobs/internal/storage"
)

// Deps are the long-lived collaborators built by main.
type Deps struct {
	Config  *config.Config
	DB      *database.DB
	Blobs   storage.BlobStore
	Events  *events.Dispatcher
	Limiter auth.LoginLimiter
	Log     *zap.Logger
}

// NewRouter wires services and handlers and mounts every route under
// /api/v1.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	log := logger.OrNop(d.Log)
	db := d.DB.Gorm

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	users := auth.NewUserRepository(db)
	urls := storage.NewURLRewriter(cfg.StoragePublicBaseURL, cfg.StorageInternalAliases)

	authHandler := auth.NewHandler(auth.NewService(users, tokens, log,
		auth.WithLoginLimiter(d.Limiter),
		auth.WithTokenTTLSeconds(int64(cfg.JWTTTL.Seconds())),
	))
	jobHandler := job.NewHandler(job.NewService(job.NewRepository(db), users, log,
		job.WithBlobStore(d.Blobs),
		job.WithEvents(d.Events),
		job.WithDefaultRadiusKM(cfg.DiscoveryDefaultRadiusKM),
	))
	applicationHandler := application.NewHandler(application.NewService(db, d.Events, log))
	submissionHandler := submission.NewHandler(submission.NewService(db, d.Blobs, urls, d.Events, log))
	paymentHandler := payment.NewHandler(payment.NewService(db, d.Events, log))
	notificationHandler := notification.NewHandler(notification.NewService(notification.NewRepository(db), users, log))
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(dashboard.NewRepository(d.DB.SQLX), log))

	var guardOpts []middleware.GuardOption
	if cfg.AuthClaimsFallback {
		log.Warn("unverified claims fallback enabled for authentication")
		guardOpts = append(guardOpts, middleware.WithClaimsFallback(users))
	}
	guard := middleware.NewGuard(tokens, log, guardOpts...)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.Metrics(),
	)
	r.NoRoute(func(c *gin.Context) {
		response.Abort(c, apperr.NotFound, "Endpoint not found")
	})

	r.GET("/health", healthHandler(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if local, ok := d.Blobs.(*storage.LocalStore); ok {
		r.Static("/uploads", local.Dir())
	}

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(guard.Authenticate())
		{
			authHandler.RegisterProtectedRoutes(protected)
			jobHandler.RegisterRoutes(protected)
			applicationHandler.RegisterRoutes(protected)
			submissionHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)
		}
	}
	return r
}

func healthHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.SQLX.PingContext(ctx); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, string(apperr.Upstream), "Database unavailable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	}
}
