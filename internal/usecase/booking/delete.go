package booking

import (
	"context"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/audit"
	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/undo"
)

// Deletes are hard deletes with an undo window: the removed row is
// cached for the tenant's configured TTL and can be restored once with
// the returned token.

type DeleteBooking struct {
	repo  domain.Repository
	cache *undo.Cache
	audit *audit.Dispatcher
}

func NewDeleteBooking(
	repo domain.Repository,
	cache *undo.Cache,
	audit *audit.Dispatcher,
) *DeleteBooking {
	return &DeleteBooking{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

type DeleteResult struct {
	UndoToken   string `json:"undo_token,omitempty"`
	UndoExpires int    `json:"undo_expires_seconds,omitempty"`
}

func (uc *DeleteBooking) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	appointmentID uint,
) (*DeleteResult, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := uc.repo.DeleteAppointment(ctx, tenantID, appointmentID); err != nil {
		return nil, err
	}

	result := &DeleteResult{}

	ttl := tenant.UndoWindowSeconds
	if ttl <= 0 {
		ttl = 300
	}

	if uc.cache != nil {
		token, err := uc.cache.Stash(ctx, ap, time.Duration(ttl)*time.Second)
		if err == nil {
			result.UndoToken = token
			result.UndoExpires = ttl
		}
		// A cache failure only costs the undo affordance, the delete
		// itself stands.
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &actorID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return result, nil
}

// ======================================================
// RESTORE
// ======================================================

func (uc *DeleteBooking) Restore(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	token string,
) (*models.Appointment, error) {

	if uc.cache == nil {
		return nil, httperr.ErrBusiness("undo_unavailable")
	}

	ap, err := uc.cache.Take(ctx, tenantID, token)
	if err != nil {
		return nil, httperr.ErrBusiness("undo_expired")
	}

	// Re-insert as a fresh row; the old id is gone.
	ap.ID = 0
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &actorID,
		Action:   "appointment_restored",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
