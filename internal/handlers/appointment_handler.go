package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/middleware"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/notify"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC     *booking.CreateBooking
	rescheduleUC *booking.Reschedule
	batchUC      *booking.BatchStatus
	deleteUC     *booking.DeleteBooking

	detector *domain.Detector
	notifier *notify.Notifier
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *booking.CreateBooking,
	rescheduleUC *booking.Reschedule,
	batchUC *booking.BatchStatus,
	deleteUC *booking.DeleteBooking,
	detector *domain.Detector,
	notifier *notify.Notifier,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		createUC:     createUC,
		rescheduleUC: rescheduleUC,
		batchUC:      batchUC,
		deleteUC:     deleteUC,
		detector:     detector,
		notifier:     notifier,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`

	ServiceID  uint  `json:"service_id" binding:"required"`
	ResourceID *uint `json:"resource_id"`

	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	Pattern   string `json:"pattern"`
	SpanWeeks int    `json:"span_weeks"`

	Notes          string `json:"notes"`
	CollectDeposit bool   `json:"collect_deposit"`
}

type RescheduleRequest struct {
	Date   string `json:"date" binding:"required"`
	Hour   int    `json:"hour" binding:"min=0,max=23"`
	Minute int    `json:"minute" binding:"min=0,max=59"`
}

type BatchStatusRequest struct {
	AppointmentIDs []uint `json:"appointment_ids" binding:"required,min=1"`
	Status         string `json:"status" binding:"required"`
}

type RestoreRequest struct {
	UndoToken string `json:"undo_token" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), booking.CreateBookingInput{
		TenantID:       tenantID,
		ActorID:        userID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		ServiceID:      req.ServiceID,
		ResourceID:     req.ResourceID,
		Date:           req.Date,
		Time:           req.Time,
		Pattern:        req.Pattern,
		SpanWeeks:      req.SpanWeeks,
		Notes:          req.Notes,
		CollectDeposit: req.CollectDeposit,
	})

	if err != nil {
		switch {
		case httperr.IsBusiness(err, "time_conflict") || httperr.IsExclusionConflict(err):
			httperr.Conflict(c, "time_conflict", "The requested window is already booked.")
		case httperr.IsBusiness(err, "invalid_date_or_time"):
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		case httperr.IsBusiness(err, "too_soon"):
			httperr.BadRequest(c, "too_soon", "The requested time is below the minimum advance.")
		case httperr.IsBusiness(err, "service_not_found"):
			httperr.BadRequest(c, "service_not_found", "Service not found.")
		case httperr.IsBusiness(err, "resource_not_found"):
			httperr.BadRequest(c, "resource_not_found", "Resource not found.")
		case httperr.IsBusiness(err, "invalid_duration"):
			httperr.BadRequest(c, "invalid_duration", "Service has no usable duration.")
		default:
			httperr.Internal(c, "failed_to_create_appointment", "Could not create the appointment.")
		}
		return
	}

	if h.notifier != nil {
		var tenant models.Tenant
		var customer models.Customer
		if h.db.First(&tenant, tenantID).Error == nil &&
			h.db.First(&customer, result.Anchor.CustomerID).Error == nil {
			h.notifier.BookingConfirmed(&tenant, &customer, result.Anchor)
		}
	}

	c.JSON(201, result)
}

// ======================================================
// CONFLICT PREVIEW
// ======================================================

// CheckConflicts backs the booking editor: it is called on every
// debounced edit of the date/time fields and never blocks anything.
func (h *AppointmentHandler) CheckConflicts(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Tenant not found.")
		return
	}

	start, err := parseDateTimeInTenant(&tenant, c.Query("date"), c.Query("time"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	durationMin, err := strconv.Atoi(c.DefaultQuery("duration_min", "60"))
	if err != nil || durationMin <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Invalid duration.")
		return
	}

	query := domain.ConflictQuery{
		TenantID: tenantID,
		Start:    start,
		End:      start.Add(time.Duration(durationMin) * time.Minute),
	}

	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_resource", "Invalid resource id.")
			return
		}
		rid := uint(id)
		query.ResourceID = &rid
	}

	if raw := c.Query("exclude_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_exclude", "Invalid exclude id.")
			return
		}
		eid := uint(id)
		query.ExcludeID = &eid
	}

	c.JSON(200, h.detector.FindConflicts(c.Request.Context(), query))
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "A date is required.")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Tenant not found.")
		return
	}

	date, err := parseDateInTenant(&tenant, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	q := h.db.
		Preload("Customer").
		Preload("Service").
		Preload("Resource").
		Where(
			"tenant_id = ? AND start_time >= ? AND start_time < ?",
			tenantID, start, end,
		)

	if raw := c.Query("resource_id"); raw != "" {
		q = q.Where("resource_id = ?", raw)
	}

	var aps []models.Appointment
	q.Order("start_time ASC").Find(&aps)

	type listedAppointment struct {
		models.Appointment
		SeriesRole domain.SeriesRole `json:"series_role"`
	}

	out := make([]listedAppointment, 0, len(aps))
	for i := range aps {
		out = append(out, listedAppointment{
			Appointment: aps[i],
			SeriesRole:  domain.Classify(&aps[i]).Role(),
		})
	}

	c.JSON(200, out)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	result, err := h.rescheduleUC.Execute(c.Request.Context(), booking.RescheduleInput{
		TenantID:      tenantID,
		ActorID:       userID,
		AppointmentID: uint(id),
		NewDate:       req.Date,
		NewHour:       req.Hour,
		NewMinute:     req.Minute,
	})

	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.BadRequest(c, "invalid_state", "Completed or cancelled appointments cannot move.")
		case httperr.IsBusiness(err, "invalid_date"):
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
		case httperr.IsBusiness(err, "time_conflict"):
			httperr.Conflict(c, "time_conflict", "The target window is already booked.")
		default:
			httperr.Internal(c, "failed_to_reschedule", "Could not reschedule the appointment.")
		}
		return
	}

	c.JSON(200, result)
}

// ======================================================
// BATCH STATUS
// ======================================================

func (h *AppointmentHandler) BatchStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	result, err := h.batchUC.Execute(c.Request.Context(), booking.BatchStatusInput{
		TenantID:       tenantID,
		ActorID:        userID,
		AppointmentIDs: req.AppointmentIDs,
		NewStatus:      req.Status,
	})

	if err != nil {
		if httperr.IsBusiness(err, "invalid_status") {
			httperr.BadRequest(c, "invalid_status", "Unknown status value.")
			return
		}
		httperr.Internal(c, "failed_to_update_status", "Could not apply the status.")
		return
	}

	c.JSON(200, result)
}

// ======================================================
// DELETE / RESTORE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	result, err := h.deleteUC.Execute(c.Request.Context(), tenantID, userID, uint(id))
	if err != nil {
		if httperr.IsBusiness(err, "appointment_not_found") {
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
			return
		}
		httperr.Internal(c, "failed_to_delete", "Could not delete the appointment.")
		return
	}

	c.JSON(200, result)
}

func (h *AppointmentHandler) Restore(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	ap, err := h.deleteUC.Restore(c.Request.Context(), tenantID, userID, req.UndoToken)
	if err != nil {
		if httperr.IsBusiness(err, "undo_expired") || httperr.IsBusiness(err, "undo_unavailable") {
			httperr.BadRequest(c, "undo_expired", "The undo window has passed.")
			return
		}
		httperr.Internal(c, "failed_to_restore", "Could not restore the appointment.")
		return
	}

	c.JSON(201, ap)
}
