package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/api/handlers"
	"github.com/securecase/securecase/internal/api/middleware"
	"github.com/securecase/securecase/internal/config"
	"github.com/securecase/securecase/internal/services"
	"github.com/securecase/securecase/pkg/metrics"
)

type Router struct {
	engine          *gin.Engine
	logger          *zap.Logger
	metrics         *metrics.MetricsCollector
	authHandler     *handlers.AuthHandler
	userHandler     *handlers.UserHandler
	caseHandler     *handlers.CaseHandler
	documentHandler *handlers.DocumentHandler
	collabHandler   *handlers.CollabHandler
	adminHandler    *handlers.AdminHandler
	authMiddleware  *middleware.AuthMiddleware
	reqMiddleware   *middleware.RequestMiddleware
}

func NewRouter(
	cfg *config.Configuration,
	logger *zap.Logger,
	collector *metrics.MetricsCollector,
	tokens *services.TokenService,
	cases *services.CaseService,
	documents *services.DocumentService,
	collab *services.CollabService,
	admin *services.AdminService,
	audit *services.AuditService,
	database *gorm.DB,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(logger, collector, cfg.Security.MaxFailedAttempts)
	authMiddleware := middleware.NewAuthMiddleware(tokens, database)

	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())
	engine.Use(reqMiddleware.LoginAttemptMiddleware())

	return &Router{
		engine:          engine,
		logger:          logger,
		metrics:         collector,
		authHandler:     handlers.NewAuthHandler(tokens, admin, audit, cfg, database, logger),
		userHandler:     handlers.NewUserHandler(cfg, database, logger),
		caseHandler:     handlers.NewCaseHandler(cases, logger),
		documentHandler: handlers.NewDocumentHandler(documents, cfg, logger),
		collabHandler:   handlers.NewCollabHandler(collab, logger),
		adminHandler:    handlers.NewAdminHandler(admin, audit, logger),
		authMiddleware:  authMiddleware,
		reqMiddleware:   reqMiddleware,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up", "name": "securecase"})
	})

	r.engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"counters":  r.metrics.GetCounters(),
			"latencies": r.metrics.GetLatencies(),
			"sizes":     r.metrics.GetSizes(),
		})
	})

	auth := r.engine.Group("/api/auth")
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
	}

	authorized := r.engine.Group("/api")
	authorized.Use(r.authMiddleware.RequireAuth())
	{
		authorized.GET("/users/profile", r.userHandler.Profile)
		authorized.PUT("/users/change-password", r.userHandler.ChangePassword)

		authorized.GET("/cases", r.caseHandler.List)
		authorized.GET("/cases/my", r.caseHandler.ListMine)
		authorized.POST("/cases", r.caseHandler.Create)
		authorized.GET("/cases/:id", r.caseHandler.Get)
		authorized.PUT("/cases/:id", r.caseHandler.Update)
		authorized.PUT("/cases/:id/status", r.caseHandler.UpdateStatus)
		authorized.PATCH("/cases/:id/sensitivity", r.caseHandler.UpdateSensitivity)

		authorized.GET("/cases/:id/comments", r.collabHandler.ListComments)
		authorized.POST("/cases/:id/comments", r.collabHandler.AddComment)
		authorized.DELETE("/comments/:id", r.collabHandler.DeleteComment)

		authorized.GET("/cases/:id/documents", r.documentHandler.ListGroups)
		authorized.POST("/cases/:id/documents", r.documentHandler.Upload)
		authorized.GET("/cases/:id/documents/:docId/download", r.documentHandler.Download)
		authorized.DELETE("/cases/:id/documents/:docId", r.documentHandler.Delete)
		authorized.PATCH("/cases/:id/documents/:groupId/sensitivity", r.documentHandler.UpdateGroupSensitivity)

		authorized.GET("/cases/:id/events", r.collabHandler.ListEvents)
		authorized.POST("/cases/:id/events", r.collabHandler.AddEvent)
		authorized.DELETE("/cases/:id/events/:eventId", r.collabHandler.DeleteEvent)

		authorized.GET("/cases/:id/parties", r.collabHandler.ListParties)
		authorized.POST("/cases/:id/parties", r.collabHandler.AddParty)
		authorized.PUT("/cases/:id/parties/:partyId", r.collabHandler.UpdateParty)
		authorized.DELETE("/cases/:id/parties/:partyId", r.collabHandler.DeleteParty)

		authorized.GET("/cases/:id/assignments", r.collabHandler.ListAssignments)
		authorized.POST("/cases/:id/assignments", r.collabHandler.AddAssignment)
		authorized.DELETE("/cases/:id/assignments/:assignmentId", r.collabHandler.DeleteAssignment)
	}

	admin := r.engine.Group("/api/admin")
	admin.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireAdmin())
	{
		admin.GET("/users", r.adminHandler.ListUsers)
		admin.PUT("/users/:id/role", r.adminHandler.UpdateRole)
		admin.PUT("/users/:id/clearance", r.adminHandler.UpdateClearance)
		admin.PATCH("/users/:id/ban", r.adminHandler.BanUser)
		admin.PATCH("/users/:id/unban", r.adminHandler.UnbanUser)
		admin.GET("/audit-logs", r.adminHandler.AuditLogs)
	}

	// Redeeming an invite is authorized by the token itself.
	r.engine.POST("/api/invites/accept", r.authHandler.AcceptInvite)

	invites := r.engine.Group("/api/invites")
	invites.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireAdmin())
	{
		invites.POST("", r.adminHandler.CreateInvite)
		invites.GET("", r.adminHandler.ListInvites)
		invites.POST("/:id/approve", r.adminHandler.ApproveInvite)
		invites.POST("/:id/reject", r.adminHandler.RejectInvite)
		invites.POST("/:id/terminate", r.adminHandler.TerminateInvite)
		invites.DELETE("/:id", r.adminHandler.DeleteInvite)
	}
}

// Close stops the router's background goroutines.
func (r *Router) Close() {
	r.reqMiddleware.Close()
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(addr string) error {
	r.logger.Info("Starting HTTP server", zap.String("address", addr))
	return r.engine.Run(addr)
}
