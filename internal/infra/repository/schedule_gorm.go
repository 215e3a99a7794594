package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *ScheduleGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	tenantID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Resource
// --------------------------------------------------

func (r *ScheduleGormRepository) GetResource(
	ctx context.Context,
	tenantID uint,
	resourceID uint,
) (*models.Resource, error) {

	var resource models.Resource
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", resourceID, tenantID).
		First(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	tenantID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}

	customer = models.Customer{
		TenantID: tenantID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// --------------------------------------------------
// Appointment (create)
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// CreateIfFree re-runs the overlap check under a row lock inside the
// insert transaction. The half-open predicate mirrors the in-memory
// detector: start_time < end AND end_time > start.
func (r *ScheduleGormRepository) CreateIfFree(
	ctx context.Context,
	ap *models.Appointment,
) error {

	if ap.ResourceID == nil {
		return r.CreateAppointment(ctx, ap)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"tenant_id = ? AND resource_id = ? AND status <> 'cancelled' AND start_time < ? AND end_time > ?",
				ap.TenantID,
				*ap.ResourceID,
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(ap).Error
	})
}

// --------------------------------------------------
// Appointment (read / mutate)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	status domain.Status,
) error {

	updates := map[string]any{"status": string(status)}

	// Terminal states keep their timestamp.
	now := time.Now()
	switch status {
	case domain.StatusCancelled:
		updates["cancelled_at"] = &now
	case domain.StatusCompleted:
		updates["completed_at"] = &now
	}

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		Updates(updates)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleGormRepository) DeleteAppointment(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		Delete(&models.Appointment{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Conflict candidates
// --------------------------------------------------

// ListCandidates pulls every row that could overlap the window,
// including rows with a missing or inverted end so the detector can
// apply its fallback duration in memory.
func (r *ScheduleGormRepository) ListCandidates(
	ctx context.Context,
	tenantID uint,
	resourceID *uint,
	window domain.Interval,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status <> 'cancelled'", tenantID).
		Where("start_time < ?", window.End).
		Where("end_time > ? OR end_time <= start_time", window.Start)

	if resourceID != nil {
		q = q.Where("resource_id = ?", *resourceID)
	}

	var apps []models.Appointment
	if err := q.
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Calendar read path
// --------------------------------------------------

func (r *ScheduleGormRepository) ListAppointmentsForRange(
	ctx context.Context,
	tenantID uint,
	resourceID *uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Resource").
		Where(
			"tenant_id = ? AND start_time >= ? AND start_time < ?",
			tenantID, start, end,
		)

	if resourceID != nil {
		q = q.Where("resource_id = ?", *resourceID)
	}

	var apps []models.Appointment
	if err := q.
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
