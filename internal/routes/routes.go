package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/config"
	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	"github.com/BruksfildServices01/chamados-pro/internal/handlers"
	"github.com/BruksfildServices01/chamados-pro/internal/infra/cache"
	"github.com/BruksfildServices01/chamados-pro/internal/infra/gcal"
	infraRepo "github.com/BruksfildServices01/chamados-pro/internal/infra/repository"
	"github.com/BruksfildServices01/chamados-pro/internal/infra/storage"
	"github.com/BruksfildServices01/chamados-pro/internal/metrics"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
	ucTicket "github.com/BruksfildServices01/chamados-pro/internal/usecase/ticket"
)

// Infra são as dependências montadas no main. Calendar, CalendarCache e
// Logos podem ser nil quando a integração não está configurada.
type Infra struct {
	Log           zerolog.Logger
	AuditLogger   *audit.Logger
	Audit         *audit.Dispatcher
	Calendar      *gcal.Client
	CalendarCache *cache.CalendarCache
	Logos         *storage.LogoStore
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(infra.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	ticketRepo := infraRepo.NewTicketGormRepository(db)

	// interfaces só recebem valor quando a integração existe
	var (
		events      schedule.EventSource
		writer      ucTicket.CalendarWriter
		connector   handlers.CalendarConnector
		invalidator handlers.CalendarInvalidator
		logos       handlers.LogoUploader
	)
	if infra.Calendar != nil {
		events = infra.Calendar
		writer = infra.Calendar
		connector = infra.Calendar
	}
	if infra.CalendarCache != nil {
		events = infra.CalendarCache
		invalidator = infra.CalendarCache
	}
	if infra.Logos != nil {
		logos = infra.Logos
	}

	// ======================================================
	// 🧠 USE CASES — CHAMADOS
	// ======================================================
	createTicketUC := ucTicket.NewCreateTicket(ticketRepo, infra.Audit, writer, infra.Log)
	cancelTicketUC := ucTicket.NewCancelTicket(ticketRepo, infra.Audit)
	completeTicketUC := ucTicket.NewCompleteTicket(ticketRepo, infra.Audit)
	listTicketsUC := ucTicket.NewListTickets(ticketRepo)
	nextNumberUC := ucTicket.NewGetNextNumber(ticketRepo)
	slotsUC := ucTicket.NewGetAvailableSlots(ticketRepo, events, infra.Log)
	calendarEventsUC := ucTicket.NewListCalendarEvents(ticketRepo, events, infra.Log)
	createPublicUC := ucTicket.NewCreatePublicTicket(ticketRepo, slotsUC, infra.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	companyHandler := handlers.NewCompanyHandler(db, logos, infra.Audit)

	clientHandler := handlers.NewClientHandler(db, infra.Audit)
	serviceHandler := handlers.NewServiceHandler(db, infra.Audit)
	settingsHandler := handlers.NewIntegrationSettingsHandler(db, invalidator, infra.Audit)

	ticketHandler := handlers.NewTicketHandler(
		createTicketUC,
		cancelTicketUC,
		completeTicketUC,
		listTicketsUC,
		nextNumberUC,
		slotsUC,
		invalidator,
	)

	calendarHandler := handlers.NewGoogleCalendarHandler(
		db,
		connector,
		calendarEventsUC,
		invalidator,
		infra.Audit,
		cfg.JWTSecret,
		infra.Log,
	)

	reportHandler := handlers.NewReportHandler(listTicketsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(infra.AuditLogger)
	publicHandler := handlers.NewPublicHandler(db, slotsUC, createPublicUC)

	// ======================================================
	// 📈 MÉTRICAS
	// ======================================================
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(limiter.Middleware())
		{
			publicAPI.GET("/:slug/services", publicHandler.Services)
			publicAPI.GET("/:slug/available-slots", publicHandler.AvailableSlots)
			publicAPI.POST("/:slug/tickets", publicHandler.CreateTicket)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", limiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", limiter.Middleware(), authHandler.Login)

		// retorno do consentimento do Google (sem token; empresa no state)
		api.GET("/google-calendar/callback", calendarHandler.Callback)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg), limiter.Middleware())
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/company", companyHandler.Get)
			secured.GET("/me/audit-logs", auditLogsHandler.List)

			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)
			secured.GET("/clients/search/document", clientHandler.SearchByDocument)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)

			secured.GET("/integration-settings", settingsHandler.Get)

			// ------------------------------
			// CHAMADOS
			// ------------------------------
			secured.POST("/tickets", ticketHandler.Create)
			secured.GET("/tickets", ticketHandler.ListByDate)
			secured.GET("/tickets/month", ticketHandler.ListByMonth)
			secured.GET("/tickets/next-number", ticketHandler.NextNumber)
			secured.GET("/tickets/available-slots", ticketHandler.AvailableSlots)
			secured.PATCH("/tickets/:id/cancel", ticketHandler.Cancel)
			secured.PATCH("/tickets/:id/complete", ticketHandler.Complete)

			secured.GET("/google-calendar/events", calendarHandler.Events)

			secured.GET("/reports/tickets.xlsx", reportHandler.TicketsXLSX)

			// ------------------------------
			// SOMENTE DONO DA EMPRESA
			// ------------------------------
			owner := secured.Group("/")
			owner.Use(middleware.RequireRole(models.RoleOwner))
			{
				owner.PATCH("/me/company", companyHandler.Update)
				owner.POST("/me/company/logo", companyHandler.UploadLogo)

				owner.PATCH("/services/:id", serviceHandler.Update)
				owner.PUT("/integration-settings", settingsHandler.Update)

				owner.GET("/google-calendar/auth", calendarHandler.Auth)
				owner.POST("/google-calendar/disconnect", calendarHandler.Disconnect)
			}
		}
	}
}
