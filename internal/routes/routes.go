package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/audit"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/config"
	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/handlers"
	infraRepo "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/infra/repository"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/middleware"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/notify"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/payments"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/undo"
	ucBooking "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	detector := domain.NewDetector(scheduleRepo)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	undoCache := undo.NewCache(rdb)

	deposits, err := payments.NewDepositClient(cfg.MercadoPagoToken)
	if err != nil {
		log.Printf("payments disabled: %v", err)
	}

	notifier := notify.New(
		notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom),
		notify.NewSMSSender(cfg.SMSWebhookURL, cfg.SMSWebhookToken),
	)

	policy := domain.PolicyAdvisory
	if cfg.ReschedulePolicy == "reject" {
		policy = domain.PolicyReject
	}

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		scheduleRepo,
		detector,
		auditDispatcher,
		deposits,
	)

	rescheduleUC := ucBooking.NewReschedule(
		scheduleRepo,
		detector,
		auditDispatcher,
		policy,
	)

	batchStatusUC := ucBooking.NewBatchStatus(
		scheduleRepo,
		auditDispatcher,
	)

	deleteBookingUC := ucBooking.NewDeleteBooking(
		scheduleRepo,
		undoCache,
		auditDispatcher,
	)

	weekViewUC := ucBooking.NewWeekView(scheduleRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	tenantHandler := handlers.NewTenantHandler(db)

	resourceHandler := handlers.NewResourceHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createBookingUC,
		rescheduleUC,
		batchStatusUC,
		deleteBookingUC,
		detector,
		notifier,
	)

	calendarHandler := handlers.NewCalendarHandler(weekViewUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/tenant", tenantHandler.GetMeTenant)
			secured.PATCH("/me/tenant", tenantHandler.UpdateMeTenant)

			secured.GET("/me/customers", customerHandler.List)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/resources", resourceHandler.List)
			secured.POST("/me/resources", resourceHandler.Create)
			secured.PATCH("/me/resources/:id", resourceHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/conflicts", appointmentHandler.CheckConflicts)
			secured.GET("/me/appointments/week", calendarHandler.Week)
			secured.PATCH("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/status", appointmentHandler.BatchStatus)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)
			secured.POST("/me/appointments/restore", appointmentHandler.Restore)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
