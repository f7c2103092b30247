package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kannammal-agro/pricing-system/internal/api/handler"
	"github.com/kannammal-agro/pricing-system/internal/api/middleware"
	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/service"
	mongodb "github.com/kannammal-agro/pricing-system/internal/infrastructure/db/mongo"
	redisdb "github.com/kannammal-agro/pricing-system/internal/infrastructure/db/redis"
	"github.com/kannammal-agro/pricing-system/internal/infrastructure/queue"
	"github.com/kannammal-agro/pricing-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The dispatcher worker pool is bound to ctx and drains when it is cancelled.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("pricing"))

	// --- Dependencies ---
	submissionRepo := mongodb.NewSubmissionRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	actorRepo := mongodb.NewActorRepository(db)
	locker := redisdb.NewSubmissionLock(rdb, cfg.Approval.LockTTL, cfg.Approval.LockWait)

	approvalService := service.NewApprovalService(submissionRepo, auditRepo, locker, log)
	submissionService := service.NewSubmissionService(submissionRepo, log)
	queryService := service.NewQueryService(submissionRepo, log)
	authService := service.NewAuthService(actorRepo, cfg.JWTSecret, 24*time.Hour)

	dispatcher := queue.NewDispatcher(cfg.Approval.BulkWorkers, approvalService, log)
	dispatcher.Start(ctx)

	authHandler := handler.NewAuthHandler(authService)
	submissionHandler := handler.NewSubmissionHandler(submissionService, queryService)
	approvalHandler := handler.NewApprovalHandler(approvalService, dispatcher)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	authRequired := middleware.Auth(cfg.JWTSecret, actorRepo)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Submissions ---
	v1 := e.Group("/v1", authRequired)

	submissions := v1.Group("/submissions")
	submissions.GET("", submissionHandler.List)
	submissions.GET("/:id", submissionHandler.Get)
	submissions.POST("", submissionHandler.Create,
		middleware.RBAC(domain.RoleBuyer, domain.RoleAdmin))
	submissions.PUT("/:id", submissionHandler.Update,
		middleware.RBAC(domain.RoleBuyer, domain.RoleAdmin))
	submissions.DELETE("/:id", submissionHandler.Delete,
		middleware.RBAC(domain.RoleBuyer, domain.RoleAdmin))

	// --- Approval workflow ---
	approverOnly := middleware.RBAC(domain.RoleBusinessHead, domain.RoleAdmin)
	submissions.POST("/:id/approve", approvalHandler.Approve, approverOnly)
	submissions.POST("/:id/cancel-approval", approvalHandler.CancelApproval, approverOnly)
	submissions.POST("/:id/disapprove", approvalHandler.Disapprove, approverOnly)

	approvals := v1.Group("/approvals", approverOnly)
	approvals.POST("/bulk", approvalHandler.BulkApprove)
	approvals.GET("/pending", approvalHandler.ListPending)

	// --- Reports ---
	v1.GET("/reports/approval-stats", submissionHandler.Stats,
		middleware.RBAC(domain.RoleBusinessHead, domain.RoleAdmin))

	return e
}
