package booking

import (
	"context"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/audit"
	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/timezone"
)

type RescheduleInput struct {
	TenantID      uint
	ActorID       uint
	AppointmentID uint

	NewDate   string
	NewHour   int
	NewMinute int
}

type RescheduleResult struct {
	NewStart time.Time `json:"new_start"`
	NewEnd   time.Time `json:"new_end"`

	// Conflicts found for the new window. Under the advisory policy
	// the move still went through; callers surface the warning.
	Conflicts domain.ConflictReport `json:"conflicts"`
}

type Reschedule struct {
	repo     domain.Repository
	detector *domain.Detector
	audit    *audit.Dispatcher
	policy   domain.ReschedulePolicy
}

// NewReschedule builds the coordinator. Whether conflicts block the
// move is a deployment decision; the default is advisory.
func NewReschedule(
	repo domain.Repository,
	detector *domain.Detector,
	audit *audit.Dispatcher,
	policy domain.ReschedulePolicy,
) *Reschedule {
	return &Reschedule{
		repo:     repo,
		detector: detector,
		audit:    audit,
		policy:   policy,
	}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*RescheduleResult, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	newDay, err := time.ParseInLocation(
		"2006-01-02",
		in.NewDate,
		timezone.Location(tenant.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	move := domain.PlanMove(ap, newDay, in.NewHour, in.NewMinute)

	report := uc.detector.FindConflicts(ctx, domain.ConflictQuery{
		TenantID:   in.TenantID,
		ResourceID: ap.ResourceID,
		Start:      move.NewStart,
		End:        move.NewEnd,
		ExcludeID:  &ap.ID,
	})

	// Tenant-wide reports are advisory and never block, even under the
	// reject policy; only resource-scoped conflicts are enforceable.
	if report.HasConflicts() && !report.Advisory && uc.policy == domain.PolicyReject {
		return nil, httperr.ErrBusiness("time_conflict")
	}

	domain.ApplyMove(ap, move)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.ActorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"new_start": move.NewStart,
			"new_end":   move.NewEnd,
			"conflicts": report.Total,
		},
	})

	return &RescheduleResult{
		NewStart:  move.NewStart,
		NewEnd:    move.NewEnd,
		Conflicts: report,
	}, nil
}
