package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	"github.com/vitororigens/glowapp-site-sub000/internal/config"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/handlers"
	infraRepo "github.com/vitororigens/glowapp-site-sub000/internal/infra/repository"
	"github.com/vitororigens/glowapp-site-sub000/internal/logger"
	"github.com/vitororigens/glowapp-site-sub000/internal/middleware"
	ucAppointment "github.com/vitororigens/glowapp-site-sub000/internal/usecase/appointment"
	ucBooking "github.com/vitororigens/glowapp-site-sub000/internal/usecase/booking"
	ucClient "github.com/vitororigens/glowapp-site-sub000/internal/usecase/client"
	ucPayment "github.com/vitororigens/glowapp-site-sub000/internal/usecase/payment"
	ucQuota "github.com/vitororigens/glowapp-site-sub000/internal/usecase/quota"
	ucService "github.com/vitororigens/glowapp-site-sub000/internal/usecase/service"
	ucSubscription "github.com/vitororigens/glowapp-site-sub000/internal/usecase/subscription"
)

// Infra são os serviços externos montados no main.
type Infra struct {
	Logger *zap.Logger
	Plans  quota.PlanProvider
	Blobs  booking.BlobStore
	Audit  *audit.Dispatcher

	// Subscriptions fica nil com billing desligado; PlanCache, sem Redis.
	Subscriptions ucSubscription.Fetcher
	PlanCache     ucSubscription.PlanCache
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(logger.GinMiddleware(infra.Logger))
	r.Use(middleware.CORSMiddleware(cfg.App.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	tenantRepo := infraRepo.NewTenantGormRepository(db)
	clientRepo := infraRepo.NewClientGormRepository(db)
	serviceRepo := infraRepo.NewServiceGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	catalogRepo := infraRepo.NewCatalogGormRepository(db)

	resolver := client.NewResolver(clientRepo, infra.Plans, infra.Logger)

	bookingDeps := booking.Deps{
		Clients:  resolver,
		Catalog:  catalogRepo,
		Images:   serviceRepo,
		Blobs:    infra.Blobs,
		Recorder: infraRepo.NewBookingRecorder(serviceRepo, appointmentRepo),
		Plans:    infra.Plans,
		Logger:   infra.Logger,
	}

	auditDispatcher := infra.Audit

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	services := handlers.ServiceUseCases{
		CreateService:  ucBooking.NewCreateService(bookingDeps, tenantRepo, auditDispatcher),
		CreateQuote:    ucBooking.NewCreateQuote(bookingDeps, tenantRepo, auditDispatcher),
		Get:            ucService.NewGetService(serviceRepo),
		EditImages:     ucService.NewEditServiceImages(serviceRepo, infra.Blobs, infra.Plans, auditDispatcher, infra.Logger),
		AddPayment:     ucPayment.NewAddPayment(serviceRepo, auditDispatcher),
		ReplacePayment: ucPayment.NewReplacePayment(serviceRepo, auditDispatcher),
		RemovePayment:  ucPayment.NewRemovePayment(serviceRepo, auditDispatcher),
		PayInFull:      ucPayment.NewPayInFull(serviceRepo, auditDispatcher),
	}

	appointments := handlers.AppointmentUseCases{
		Create:      ucBooking.NewCreateAppointment(bookingDeps, tenantRepo, auditDispatcher),
		Confirm:     ucAppointment.NewConfirmAppointment(appointmentRepo, auditDispatcher),
		Cancel:      ucAppointment.NewCancelAppointment(appointmentRepo, auditDispatcher),
		Complete:    ucAppointment.NewCompleteAppointment(appointmentRepo, auditDispatcher),
		NoShow:      ucAppointment.NewNoShowAppointment(appointmentRepo, auditDispatcher),
		Convert:     ucAppointment.NewConvertAppointment(appointmentRepo, auditDispatcher),
		ListByDate:  ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		ListByMonth: ucAppointment.NewListAppointmentsByMonth(appointmentRepo),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db, ucQuota.NewGetQuotaSummary(clientRepo, infra.Plans))
	clientHandler := handlers.NewClientHandler(
		ucClient.NewSearchClients(clientRepo),
		ucClient.NewResolveClient(resolver, auditDispatcher),
		ucService.NewListClientServices(serviceRepo),
		tenantRepo,
	)
	serviceHandler := handlers.NewServiceHandler(services, tenantRepo)
	appointmentHandler := handlers.NewAppointmentHandler(appointments, tenantRepo)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(db))
	subscriptionHandler := handlers.NewSubscriptionHandler(ucSubscription.NewLinkSubscription(
		tenantRepo,
		infra.Subscriptions,
		cfg.Billing.PlanTiers,
		infra.PlanCache,
		auditDispatcher,
		infra.Logger,
	))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/tenant", meHandler.GetTenant)
			secured.PATCH("/me/tenant", meHandler.UpdateTenant)
			secured.GET("/me/quota", meHandler.Quota)
			secured.PUT("/me/subscription", subscriptionHandler.Link)

			// ------------------------------
			// CLIENTES
			// ------------------------------
			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients/resolve", clientHandler.Resolve)
			secured.GET("/me/clients/:id/services", clientHandler.Services)

			// ------------------------------
			// CATÁLOGO
			// ------------------------------
			secured.GET("/me/procedures", catalogHandler.ListProcedures)
			secured.POST("/me/procedures", catalogHandler.CreateProcedure)
			secured.PATCH("/me/procedures/:id", catalogHandler.UpdateProcedure)
			secured.GET("/me/professionals", catalogHandler.ListProfessionals)
			secured.POST("/me/professionals", catalogHandler.CreateProfessional)

			// ------------------------------
			// ATENDIMENTOS E ORÇAMENTOS
			// ------------------------------
			secured.POST("/me/services", serviceHandler.Create)
			secured.POST("/me/quotes", serviceHandler.CreateQuote)
			secured.GET("/me/services/:id", serviceHandler.Get)
			secured.POST("/me/services/:id/payments", serviceHandler.AddPayment)
			secured.POST("/me/services/:id/payments/full", serviceHandler.PayInFull)
			secured.PUT("/me/services/:id/payments/:index", serviceHandler.ReplacePayment)
			secured.DELETE("/me/services/:id/payments/:index", serviceHandler.RemovePayment)
			secured.POST("/me/services/:id/images", serviceHandler.EditImages)

			// ------------------------------
			// AGENDAMENTOS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.POST("/me/appointments/:id/convert", appointmentHandler.Convert)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
