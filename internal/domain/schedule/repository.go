package schedule

import (
	"context"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// Repository is the persistence collaborator. The engine itself never
// writes; booking intake and the calendar composes engine calls with
// these.
type Repository interface {
	CandidateSource

	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		tenantID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Resource --------
	GetResource(
		ctx context.Context,
		tenantID uint,
		resourceID uint,
	) (*models.Resource, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		tenantID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Appointment (create) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CreateIfFree re-checks the resource window under a row lock in
	// the same transaction as the insert, closing the check-then-act
	// gap for integrators that cannot accept double booking.
	CreateIfFree(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (read / mutate) --------
	GetAppointment(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointmentStatus(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
		status Status,
	) error

	DeleteAppointment(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
	) error

	// -------- Calendar read path --------
	ListAppointmentsForRange(
		ctx context.Context,
		tenantID uint,
		resourceID *uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
