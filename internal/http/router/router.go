package router

import (
	"encoding/json"
	"net/http"

	"github.com/ceh-soft/contract-api/internal/auth"
	"github.com/ceh-soft/contract-api/internal/config"
	"github.com/ceh-soft/contract-api/internal/database"
	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/http/handler"
	"github.com/ceh-soft/contract-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	authHandler       *handler.AuthHandler
	contractHandler   *handler.ContractHandler
	attachmentHandler *handler.AttachmentHandler
	masterDataHandler *handler.MasterDataHandler
	warningHandler    *handler.WarningHandler
	dashboardHandler  *handler.DashboardHandler
	userHandler       *handler.UserHandler
	groupHandler      *handler.GroupHandler
	auditLogHandler   *handler.AuditLogHandler
	configHandler     *handler.SystemConfigHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	contractHandler *handler.ContractHandler,
	attachmentHandler *handler.AttachmentHandler,
	masterDataHandler *handler.MasterDataHandler,
	warningHandler *handler.WarningHandler,
	dashboardHandler *handler.DashboardHandler,
	userHandler *handler.UserHandler,
	groupHandler *handler.GroupHandler,
	auditLogHandler *handler.AuditLogHandler,
	configHandler *handler.SystemConfigHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		authHandler:       authHandler,
		contractHandler:   contractHandler,
		attachmentHandler: attachmentHandler,
		masterDataHandler: masterDataHandler,
		warningHandler:    warningHandler,
		dashboardHandler:  dashboardHandler,
		userHandler:       userHandler,
		groupHandler:      groupHandler,
		auditLogHandler:   auditLogHandler,
		configHandler:     configHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", rt.authHandler.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Get("/auth/me", rt.authHandler.Me)
			r.Put("/auth/profile", rt.authHandler.UpdateProfile)
			r.Post("/auth/logout", rt.authHandler.Logout)

			// Contracts: reads for every role, writes for manager and admin,
			// deletion for admin only
			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", rt.contractHandler.List)
				r.Get("/{id}", rt.contractHandler.GetByID)
				r.Get("/{id}/attachments", rt.attachmentHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleManager, domain.RoleAdmin))
					r.Post("/", rt.contractHandler.Create)
					r.Put("/{id}", rt.contractHandler.Update)
					r.Post("/{id}/attachments", rt.attachmentHandler.Upload)

					r.Post("/{id}/payment-terms", rt.contractHandler.AddPaymentTerm)
					r.Put("/{id}/payment-terms/{termId}", rt.contractHandler.UpdatePaymentTerm)
					r.Post("/{id}/expenses", rt.contractHandler.AddExpense)
					r.Put("/{id}/expenses/{expenseId}", rt.contractHandler.UpdateExpense)
					r.Post("/{id}/members", rt.contractHandler.AddMember)
					r.Delete("/{id}/members/{memberId}", rt.contractHandler.RemoveMember)
				})

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
					r.Delete("/{id}", rt.contractHandler.Delete)
				})
			})

			r.Route("/attachments", func(r chi.Router) {
				r.Get("/{attachmentId}/download", rt.attachmentHandler.Download)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleManager, domain.RoleAdmin))
					r.Delete("/{attachmentId}", rt.attachmentHandler.Delete)
				})
			})

			// Master data
			r.Route("/master-data/{kind}", func(r chi.Router) {
				r.Get("/", rt.masterDataHandler.List)
				r.Get("/{id}", rt.masterDataHandler.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleManager, domain.RoleAdmin))
					r.Post("/", rt.masterDataHandler.Create)
					r.Put("/{id}", rt.masterDataHandler.Update)
				})

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
					r.Delete("/{id}", rt.masterDataHandler.Delete)
				})
			})

			// Warnings
			r.Route("/warnings", func(r chi.Router) {
				r.Get("/", rt.warningHandler.List)
				r.Get("/{id}", rt.warningHandler.GetByID)
				r.Put("/{id}", rt.warningHandler.Update)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleManager, domain.RoleAdmin))
					r.Post("/", rt.warningHandler.Create)
					r.Delete("/{id}", rt.warningHandler.Delete)
				})

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
					r.Post("/generate", rt.warningHandler.Generate)
				})
			})

			// Dashboard
			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/kpis", rt.dashboardHandler.KPIs)
				r.Get("/top-customers", rt.dashboardHandler.TopCustomers)
				r.Get("/warnings", rt.dashboardHandler.Warnings)
			})

			// Administration
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/auth/register", rt.authHandler.Register)

				r.Route("/admin", func(r chi.Router) {
					r.Route("/users", func(r chi.Router) {
						r.Get("/", rt.userHandler.List)
						r.Get("/{id}", rt.userHandler.GetByID)
						r.Put("/{id}", rt.userHandler.Update)
						r.Delete("/{id}", rt.userHandler.Delete)
					})

					r.Route("/groups", func(r chi.Router) {
						r.Get("/", rt.groupHandler.List)
						r.Post("/", rt.groupHandler.Create)
						r.Get("/{id}", rt.groupHandler.GetByID)
						r.Put("/{id}", rt.groupHandler.Update)
						r.Delete("/{id}", rt.groupHandler.Delete)
						r.Get("/{id}/permissions", rt.groupHandler.ListPermissions)
						r.Put("/{id}/permissions", rt.groupHandler.UpdatePermissions)
					})

					r.Put("/permissions/{id}", rt.groupHandler.UpdatePermission)

					r.Get("/logs", rt.auditLogHandler.List)

					r.Route("/configs", func(r chi.Router) {
						r.Get("/", rt.configHandler.List)
						r.Get("/{key}", rt.configHandler.GetByKey)
						r.Put("/{key}", rt.configHandler.Update)
					})
				})
			})
		})
	})

	return r
}
