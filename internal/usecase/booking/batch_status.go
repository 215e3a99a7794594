package booking

import (
	"context"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/audit"
	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
)

type BatchStatusInput struct {
	TenantID       uint
	ActorID        uint
	AppointmentIDs []uint
	NewStatus      string
}

type BatchStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewBatchStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *BatchStatus {
	return &BatchStatus{
		repo:  repo,
		audit: audit,
	}
}

// Execute applies the status per id, scoped to the tenant. There is no
// cross-record rollback: ids that fail land in FailedIDs, everything
// already updated stays updated.
func (uc *BatchStatus) Execute(
	ctx context.Context,
	in BatchStatusInput,
) (*domain.BatchResult, error) {

	status, err := domain.ParseStatus(in.NewStatus)
	if err != nil {
		return nil, err
	}

	result := &domain.BatchResult{}

	for _, id := range in.AppointmentIDs {
		ap, err := uc.repo.GetAppointment(ctx, in.TenantID, id)
		if err != nil {
			result.Fail(id)
			continue
		}

		if err := domain.CanTransition(domain.Status(ap.Status), status); err != nil {
			result.Fail(id)
			continue
		}

		if err := uc.repo.UpdateAppointmentStatus(ctx, in.TenantID, id, status); err != nil {
			result.Fail(id)
			continue
		}

		result.Applied()
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.ActorID,
		Action:   "appointment_batch_status",
		Entity:   "appointment",
		Metadata: map[string]any{
			"status":  string(status),
			"updated": result.UpdatedCount,
			"failed":  len(result.FailedIDs),
		},
	})

	return result, nil
}
