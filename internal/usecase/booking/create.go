package booking

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/audit"
	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/payments"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TenantID uint
	ActorID  uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	ServiceID  uint
	ResourceID *uint

	Date string
	Time string

	Pattern   string
	SpanWeeks int

	Notes          string
	CollectDeposit bool
}

type CreateBookingResult struct {
	Anchor    *models.Appointment  `json:"anchor"`
	Instances []models.Appointment `json:"instances"`

	// Warnings holds the advisory conflict report from a tenant-wide
	// check (no resource given). With a resource the check is
	// enforceable and a conflict fails the booking instead.
	Warnings domain.ConflictReport `json:"warnings"`

	PaymentURL string `json:"payment_url,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	detector *domain.Detector
	audit    *audit.Dispatcher
	deposits *payments.DepositClient
}

func NewCreateBooking(
	repo domain.Repository,
	detector *domain.Detector,
	audit *audit.Dispatcher,
	deposits *payments.DepositClient,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		detector: detector,
		audit:    audit,
		deposits: deposits,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingResult, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(tenant.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	minAdvance := tenant.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := timezone.NowIn(tenant.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	service, err := uc.repo.GetService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	if in.ResourceID != nil {
		if _, err := uc.repo.GetResource(ctx, in.TenantID, *in.ResourceID); err != nil {
			return nil, httperr.ErrBusiness("resource_not_found")
		}
	}

	// Only the series anchor is conflict-checked; later instances are
	// created independently.
	pattern := domain.ParsePattern(in.Pattern)
	instances := domain.Expand(start, duration, pattern, in.SpanWeeks)
	anchorWindow := instances[0]

	report := uc.detector.FindConflicts(ctx, domain.ConflictQuery{
		TenantID:   in.TenantID,
		ResourceID: in.ResourceID,
		Start:      anchorWindow.Start,
		End:        anchorWindow.End,
	})

	if report.HasConflicts() && !report.Advisory {
		return nil, httperr.ErrBusiness("time_conflict")
	}

	customer, err := uc.repo.GetOrCreateCustomer(
		ctx,
		in.TenantID,
		in.CustomerName,
		in.CustomerPhone,
		in.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}

	anchor := &models.Appointment{
		PublicRef:         uuid.NewString(),
		TenantID:          in.TenantID,
		CustomerID:        customer.ID,
		ResourceID:        in.ResourceID,
		ServiceID:         &service.ID,
		StartTime:         anchorWindow.Start,
		EndTime:           anchorWindow.End,
		Status:            string(domain.InitialStatus()),
		RecurrencePattern: string(pattern),
		Notes:             in.Notes,
	}

	if err := uc.repo.CreateIfFree(ctx, anchor); err != nil {
		return nil, err
	}

	created := []models.Appointment{*anchor}

	for _, window := range instances[1:] {
		child := models.Appointment{
			PublicRef:          uuid.NewString(),
			TenantID:           in.TenantID,
			CustomerID:         customer.ID,
			ResourceID:         in.ResourceID,
			ServiceID:          &service.ID,
			StartTime:          window.Start,
			EndTime:            window.End,
			Status:             string(domain.StatusScheduled),
			RecurrenceParentID: &anchor.ID,
			RecurrencePattern:  string(pattern),
			Notes:              in.Notes,
		}

		if err := uc.repo.CreateAppointment(ctx, &child); err != nil {
			// Partial series beats no series; the caller sees what
			// actually got booked.
			log.Println("recurring instance not created:", err)
			continue
		}
		created = append(created, child)
	}

	result := &CreateBookingResult{
		Anchor:    anchor,
		Instances: created,
		Warnings:  report,
	}

	if in.CollectDeposit && uc.deposits != nil {
		url, err := uc.deposits.CreateDepositPreference(ctx, anchor, service)
		if err != nil {
			log.Println("deposit preference error:", err)
		} else {
			result.PaymentURL = url
		}
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &anchor.ID,
		Metadata: map[string]any{
			"pattern":   string(pattern),
			"instances": len(created),
		},
	})

	return result, nil
}
