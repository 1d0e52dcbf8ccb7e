package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "crmhub/docs"
	"crmhub/internal/config"
	"crmhub/internal/handlers"
	"crmhub/internal/logging"
	"crmhub/internal/middleware"
	"crmhub/internal/pdf"
	"crmhub/internal/repositories"
	"crmhub/internal/routes"
	"crmhub/internal/services"
)

// Services is the wired service layer, shared by the HTTP server and the CLI commands.
type Services struct {
	Users    repositories.UserRepository
	Auth     *services.AuthService
	Audit    *services.AuditService
	Deals    *services.DealService
	Leads    *services.LeadService
	Contacts *services.ContactService
	Columns  *services.ColumnService
	Board    *services.BoardService
	Bulk     *services.BulkService
	CSV      *services.CSVService
	Reports  *services.ReportService
}

type App struct {
	Config   *config.Config
	DB       *sql.DB
	Services *Services
}

// New opens the database and wires repositories and services. It does not migrate.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := repositories.Open(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, DB: db, Services: Wire(cfg, db)}, nil
}

// Wire builds the service layer on top of db.
func Wire(cfg *config.Config, db *sql.DB) *Services {
	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	dealRepo := repositories.NewDealRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	columnRepo := repositories.NewColumnRepository(db)

	// === Integrations ===
	var email services.EmailService
	if cfg.Email.Enabled() {
		email = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	var notifier services.DealNotifier
	if cfg.Telegram.Enabled() {
		notifier = services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	// === Services ===
	audit := services.NewAuditService(auditRepo)
	deals := services.NewDealService(dealRepo, notifier)
	leads := services.NewLeadService(leadRepo, dealRepo)
	contacts := services.NewContactService(contactRepo)
	columns := services.NewColumnService(columnRepo)

	return &Services{
		Users:    userRepo,
		Auth:     services.NewAuthService(userRepo, sessionRepo, audit, email, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.SessionTTL),
		Audit:    audit,
		Deals:    deals,
		Leads:    leads,
		Contacts: contacts,
		Columns:  columns,
		Board:    services.NewBoardService(deals),
		Bulk:     services.NewBulkService(deals, leads, contacts, audit, cfg.Bulk.Concurrency),
		CSV:      services.NewCSVService(deals, leads, contacts, columns, audit),
		Reports:  services.NewReportService(deals, pdf.NewDocumentGenerator(cfg.Reports.FontPath)),
	}
}

// Router builds the gin engine with middleware, swagger and API routes.
func (a *App) Router() *gin.Engine {
	if !a.Config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := a.Services

	router := gin.New()
	router.Use(middleware.RequestLogger(logging.Logger))
	router.Use(middleware.Recovery(logging.Logger))
	router.Use(corsMiddleware(a.Config.Server.AllowedOrigins))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, routes.Handlers{
		Auth:     handlers.NewAuthHandler(s.Auth),
		Deals:    handlers.NewDealHandler(s.Deals, s.Board, s.Bulk, s.CSV),
		Leads:    handlers.NewLeadHandler(s.Leads, s.Bulk, s.CSV),
		Contacts: handlers.NewContactHandler(s.Contacts, s.Bulk, s.CSV),
		Columns:  handlers.NewColumnHandler(s.Columns),
		Settings: handlers.NewSettingsHandler(s.Auth, s.Audit),
		Reports:  handlers.NewReportHandler(s.Reports),
		Health:   handlers.NewHealthHandler(a.DB),
	}, s.Auth)
	return router
}

// Serve runs the HTTP server until ctx is cancelled, then drains for ShutdownTimeout.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Info().Str("addr", srv.Addr).Msg("сервер запущен")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	timeout := a.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	logging.Logger.Info().Dur("timeout", timeout).Msg("остановка сервера")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Total-Count"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
