package routes

import (
	"github.com/gin-gonic/gin"

	"crmhub/internal/authz"
	"crmhub/internal/handlers"
	"crmhub/internal/middleware"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Deals    *handlers.DealHandler
	Leads    *handlers.LeadHandler
	Contacts *handlers.ContactHandler
	Columns  *handlers.ColumnHandler
	Settings *handlers.SettingsHandler
	Reports  *handlers.ReportHandler
	Health   *handlers.HealthHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, auth middleware.Authenticator) *gin.Engine {
	// ---- public
	if h.Health != nil {
		r.GET("/healthz", h.Health.Healthz)
	}
	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// ---- protected
	protected := api.Group("", middleware.AuthMiddleware(auth))
	protected.POST("/auth/logout", h.Auth.Logout)

	// DEALS
	deals := protected.Group("/deals", middleware.ReadOnlyGuard())
	{
		deals.GET("", h.Deals.List)
		deals.POST("", h.Deals.Create)
		deals.GET("/filters", h.Deals.Filters)
		deals.GET("/board", h.Deals.BoardView)
		deals.GET("/export", h.Deals.Export)
		deals.POST("/import", h.Deals.Import)
		deals.POST("/bulk-delete", h.Deals.BulkDelete)
		deals.POST("/bulk-stage", h.Deals.BulkStage)
		deals.GET("/:id", h.Deals.GetByID)
		deals.PATCH("/:id", h.Deals.Update)
		deals.DELETE("/:id", h.Deals.Delete)
		deals.POST("/:id/move", h.Deals.Move)
	}

	// LEADS
	leads := protected.Group("/leads", middleware.ReadOnlyGuard())
	{
		leads.GET("", h.Leads.List)
		leads.POST("", h.Leads.Create)
		leads.GET("/filters", h.Leads.Filters)
		leads.GET("/export", h.Leads.Export)
		leads.POST("/import", h.Leads.Import)
		leads.POST("/bulk-delete", h.Leads.BulkDelete)
		leads.POST("/bulk-assign",
			middleware.RequireRoles(authz.RoleOperations, authz.RoleManagement, authz.RoleAdmin),
			h.Leads.BulkAssign,
		)
		leads.GET("/:id", h.Leads.GetByID)
		leads.PATCH("/:id", h.Leads.Update)
		leads.DELETE("/:id", h.Leads.Delete)
		leads.POST("/:id/status", h.Leads.UpdateStatus)
		leads.POST("/:id/convert", h.Leads.Convert)
	}

	// CONTACTS
	contacts := protected.Group("/contacts", middleware.ReadOnlyGuard())
	{
		contacts.GET("", h.Contacts.List)
		contacts.POST("", h.Contacts.Create)
		contacts.GET("/filters", h.Contacts.Filters)
		contacts.GET("/export", h.Contacts.Export)
		contacts.POST("/import", h.Contacts.Import)
		contacts.POST("/bulk-delete", h.Contacts.BulkDelete)
		contacts.GET("/:id", h.Contacts.GetByID)
		contacts.PATCH("/:id", h.Contacts.Update)
		contacts.DELETE("/:id", h.Contacts.Delete)
	}

	// COLUMNS (личные настройки, доступны и audit)
	columns := protected.Group("/columns")
	{
		columns.GET("/:view", h.Columns.Get)
		columns.PUT("/:view", h.Columns.Save)
		columns.DELETE("/:view", h.Columns.Reset)
	}

	// SETTINGS
	settings := protected.Group("/settings")
	{
		settings.GET("/sessions", h.Settings.ListSessions)
		settings.DELETE("/sessions", h.Settings.TerminateOthers)
		settings.DELETE("/sessions/:id", h.Settings.TerminateSession)
		settings.POST("/password", h.Settings.ChangePassword)
		settings.GET("/audit", h.Settings.AuditLog)
	}

	// REPORTS
	reports := protected.Group("/reports")
	{
		reports.GET("/pipeline", h.Reports.Pipeline)
		reports.GET("/pipeline.pdf", h.Reports.PipelinePDF)
	}

	return r
}
