package booking

import (
	"context"
	"testing"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/audit"
	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
	"gorm.io/gorm"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

type candidateCall struct {
	resourceID *uint
	window     domain.Interval
}

type fakeRepo struct {
	tenant   models.Tenant
	service  models.Service
	resource models.Resource

	nextID       uint
	appointments map[uint]*models.Appointment

	candidateCalls []candidateCall
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenant: models.Tenant{
			ID:                1,
			Name:              "Shear Genius",
			Slug:              "shear-genius",
			Timezone:          "UTC",
			MinAdvanceMinutes: 30,
			UndoWindowSeconds: 300,
		},
		service: models.Service{
			ID:          2,
			TenantID:    1,
			Name:        "Full groom",
			DurationMin: 60,
			Price:       80,
			Active:      true,
		},
		resource: models.Resource{
			ID:       7,
			TenantID: 1,
			Name:     "Riley",
			Active:   true,
		},
		appointments: map[uint]*models.Appointment{},
	}
}

func (f *fakeRepo) GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error) {
	if id != f.tenant.ID {
		return nil, gorm.ErrRecordNotFound
	}
	t := f.tenant
	return &t, nil
}

func (f *fakeRepo) GetService(ctx context.Context, tenantID, serviceID uint) (*models.Service, error) {
	if tenantID != f.tenant.ID || serviceID != f.service.ID {
		return nil, gorm.ErrRecordNotFound
	}
	s := f.service
	return &s, nil
}

func (f *fakeRepo) GetResource(ctx context.Context, tenantID, resourceID uint) (*models.Resource, error) {
	if tenantID != f.tenant.ID || resourceID != f.resource.ID {
		return nil, gorm.ErrRecordNotFound
	}
	r := f.resource
	return &r, nil
}

func (f *fakeRepo) GetOrCreateCustomer(ctx context.Context, tenantID uint, name, phone, email string) (*models.Customer, error) {
	return &models.Customer{ID: 3, TenantID: tenantID, Name: name, Phone: phone, Email: email}, nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.nextID++
	ap.ID = f.nextID
	stored := *ap
	f.appointments[ap.ID] = &stored
	return nil
}

func (f *fakeRepo) CreateIfFree(ctx context.Context, ap *models.Appointment) error {
	if ap.ResourceID != nil {
		window := domain.Interval{Start: ap.StartTime, End: ap.EndTime}
		for _, other := range f.appointments {
			if other.ResourceID == nil || *other.ResourceID != *ap.ResourceID {
				continue
			}
			if domain.Status(other.Status) == domain.StatusCancelled {
				continue
			}
			occupied, _ := domain.IntervalOf(other)
			if occupied.Overlaps(window) {
				return httperr.ErrBusiness("time_conflict")
			}
		}
	}
	return f.CreateAppointment(ctx, ap)
}

func (f *fakeRepo) GetAppointment(ctx context.Context, tenantID, id uint) (*models.Appointment, error) {
	ap, ok := f.appointments[id]
	if !ok || ap.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ap
	return &cp, nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	if _, ok := f.appointments[ap.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *ap
	f.appointments[ap.ID] = &stored
	return nil
}

func (f *fakeRepo) UpdateAppointmentStatus(ctx context.Context, tenantID, id uint, status domain.Status) error {
	ap, ok := f.appointments[id]
	if !ok || ap.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	ap.Status = string(status)
	now := time.Now()
	switch status {
	case domain.StatusCancelled:
		ap.CancelledAt = &now
	case domain.StatusCompleted:
		ap.CompletedAt = &now
	}
	return nil
}

func (f *fakeRepo) DeleteAppointment(ctx context.Context, tenantID, id uint) error {
	ap, ok := f.appointments[id]
	if !ok || ap.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeRepo) ListCandidates(ctx context.Context, tenantID uint, resourceID *uint, window domain.Interval) ([]models.Appointment, error) {
	f.candidateCalls = append(f.candidateCalls, candidateCall{resourceID: resourceID, window: window})

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.TenantID != tenantID {
			continue
		}
		if resourceID != nil && (ap.ResourceID == nil || *ap.ResourceID != *resourceID) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsForRange(ctx context.Context, tenantID uint, resourceID *uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.TenantID != tenantID {
			continue
		}
		if resourceID != nil && (ap.ResourceID == nil || *ap.ResourceID != *resourceID) {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

func newDispatcher() *audit.Dispatcher {
	// A logger without a store drops entries, see Logger.Log.
	return audit.NewDispatcher(audit.New(nil))
}

func uintPtr(v uint) *uint { return &v }

// ======================================================
// CREATE
// ======================================================

func TestCreateBooking_WeeklySeries(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateBooking(repo, domain.NewDetector(repo), newDispatcher(), nil)

	result, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:      1,
		ActorID:       9,
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		ServiceID:     2,
		ResourceID:    uintPtr(7),
		Date:          "2031-01-06",
		Time:          "09:00",
		Pattern:       "weekly",
		SpanWeeks:     4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Instances) != 4 {
		t.Fatalf("expected 4 instances, got %d", len(result.Instances))
	}

	anchor := result.Anchor
	if anchor.RecurrenceParentID != nil {
		t.Fatalf("the anchor must not point at a parent")
	}

	for _, child := range result.Instances[1:] {
		if child.RecurrenceParentID == nil || *child.RecurrenceParentID != anchor.ID {
			t.Fatalf("child must reference the anchor, got %+v", child.RecurrenceParentID)
		}
		if child.Status != string(domain.StatusScheduled) {
			t.Fatalf("children default to scheduled, got %s", child.Status)
		}
		if child.EndTime.Sub(child.StartTime) != anchor.EndTime.Sub(anchor.StartTime) {
			t.Fatalf("child duration differs from anchor")
		}
	}

	// Only the anchor was conflict-checked.
	if len(repo.candidateCalls) != 1 {
		t.Fatalf("expected exactly one conflict check, got %d", len(repo.candidateCalls))
	}
}

func TestCreateBooking_ResourceConflictRejects(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2031, 1, 6, 9, 0, 0, 0, time.UTC)
	existing := &models.Appointment{
		TenantID:   1,
		ResourceID: uintPtr(7),
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     string(domain.StatusScheduled),
	}
	repo.CreateAppointment(context.Background(), existing)

	uc := NewCreateBooking(repo, domain.NewDetector(repo), newDispatcher(), nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:      1,
		ActorID:       9,
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		ServiceID:     2,
		ResourceID:    uintPtr(7),
		Date:          "2031-01-06",
		Time:          "09:30",
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}
}

func TestCreateBooking_TenantWideConflictIsAdvisory(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2031, 1, 6, 9, 0, 0, 0, time.UTC)
	existing := &models.Appointment{
		TenantID:  1,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    string(domain.StatusScheduled),
	}
	repo.CreateAppointment(context.Background(), existing)

	uc := NewCreateBooking(repo, domain.NewDetector(repo), newDispatcher(), nil)

	result, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:      1,
		ActorID:       9,
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		ServiceID:     2,
		Date:          "2031-01-06",
		Time:          "09:30",
	})
	if err != nil {
		t.Fatalf("tenant-wide conflicts must not block: %v", err)
	}
	if !result.Warnings.HasConflicts() || !result.Warnings.Advisory {
		t.Fatalf("expected an advisory warning, got %+v", result.Warnings)
	}
}

func TestCreateBooking_TooSoon(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateBooking(repo, domain.NewDetector(repo), newDispatcher(), nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:      1,
		ActorID:       9,
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		ServiceID:     2,
		Date:          "2020-01-06",
		Time:          "09:00",
	})
	if !httperr.IsBusiness(err, "too_soon") {
		t.Fatalf("expected too_soon, got %v", err)
	}
}

// ======================================================
// RESCHEDULE
// ======================================================

func TestReschedule_MoveChecksConflictsAndPreservesDuration(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	ap := &models.Appointment{
		TenantID:   1,
		ResourceID: uintPtr(7),
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     string(domain.StatusScheduled),
	}
	repo.CreateAppointment(context.Background(), ap)

	uc := NewReschedule(repo, domain.NewDetector(repo), newDispatcher(), domain.PolicyAdvisory)

	result, err := uc.Execute(context.Background(), RescheduleInput{
		TenantID:      1,
		ActorID:       9,
		AppointmentID: ap.ID,
		NewDate:       "2024-06-03",
		NewHour:       9,
		NewMinute:     30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.NewStart.Equal(time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected 09:30, got %s", result.NewStart)
	}
	if !result.NewEnd.Equal(time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected 10:30, got %s", result.NewEnd)
	}

	// The conflict check ran against the resource for the new window
	// before the write.
	if len(repo.candidateCalls) != 1 {
		t.Fatalf("expected one conflict check, got %d", len(repo.candidateCalls))
	}
	call := repo.candidateCalls[0]
	if call.resourceID == nil || *call.resourceID != 7 {
		t.Fatalf("check must be scoped to the appointment's resource")
	}
	if !call.window.Start.Equal(result.NewStart) || !call.window.End.Equal(result.NewEnd) {
		t.Fatalf("check must cover the new window, got %+v", call.window)
	}

	moved, _ := repo.GetAppointment(context.Background(), 1, ap.ID)
	if !moved.StartTime.Equal(result.NewStart) {
		t.Fatalf("move not persisted")
	}
	if moved.Status != string(domain.StatusScheduled) {
		t.Fatalf("status must stay untouched")
	}
}

func TestReschedule_RejectPolicyBlocksConflicts(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	blockers := &models.Appointment{
		TenantID:   1,
		ResourceID: uintPtr(7),
		StartTime:  start.Add(2 * time.Hour),
		EndTime:    start.Add(3 * time.Hour),
		Status:     string(domain.StatusScheduled),
	}
	repo.CreateAppointment(context.Background(), blockers)

	ap := &models.Appointment{
		TenantID:   1,
		ResourceID: uintPtr(7),
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     string(domain.StatusScheduled),
	}
	repo.CreateAppointment(context.Background(), ap)

	uc := NewReschedule(repo, domain.NewDetector(repo), newDispatcher(), domain.PolicyReject)

	_, err := uc.Execute(context.Background(), RescheduleInput{
		TenantID:      1,
		ActorID:       9,
		AppointmentID: ap.ID,
		NewDate:       "2024-06-03",
		NewHour:       11,
		NewMinute:     30,
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("reject policy must block conflicting moves, got %v", err)
	}

	// The original window still stands.
	unchanged, _ := repo.GetAppointment(context.Background(), 1, ap.ID)
	if !unchanged.StartTime.Equal(start) {
		t.Fatalf("blocked move must not mutate the appointment")
	}
}

func TestReschedule_RejectPolicyIgnoresAdvisoryConflicts(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	other := &models.Appointment{
		TenantID:  1,
		StartTime: start.Add(2 * time.Hour),
		EndTime:   start.Add(3 * time.Hour),
		Status:    string(domain.StatusScheduled),
	}
	repo.CreateAppointment(context.Background(), other)

	ap := &models.Appointment{
		TenantID:  1,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    string(domain.StatusScheduled),
	}
	repo.CreateAppointment(context.Background(), ap)

	uc := NewReschedule(repo, domain.NewDetector(repo), newDispatcher(), domain.PolicyReject)

	// Without a resource the check is tenant-wide and advisory; the
	// overlap must come back as a warning, not a block.
	result, err := uc.Execute(context.Background(), RescheduleInput{
		TenantID:      1,
		ActorID:       9,
		AppointmentID: ap.ID,
		NewDate:       "2024-06-03",
		NewHour:       11,
		NewMinute:     30,
	})
	if err != nil {
		t.Fatalf("advisory conflicts must not block the move: %v", err)
	}
	if !result.Conflicts.HasConflicts() || !result.Conflicts.Advisory {
		t.Fatalf("expected an advisory warning, got %+v", result.Conflicts)
	}

	moved, _ := repo.GetAppointment(context.Background(), 1, ap.ID)
	if !moved.StartTime.Equal(time.Date(2024, 6, 3, 11, 30, 0, 0, time.UTC)) {
		t.Fatalf("move not persisted: %s", moved.StartTime)
	}
}

func TestReschedule_TerminalStatusRejected(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	ap := &models.Appointment{
		TenantID:  1,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    string(domain.StatusCompleted),
	}
	repo.CreateAppointment(context.Background(), ap)

	uc := NewReschedule(repo, domain.NewDetector(repo), newDispatcher(), domain.PolicyAdvisory)

	_, err := uc.Execute(context.Background(), RescheduleInput{
		TenantID:      1,
		ActorID:       9,
		AppointmentID: ap.ID,
		NewDate:       "2024-06-04",
		NewHour:       9,
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("completed appointments must not move, got %v", err)
	}
}

// ======================================================
// BATCH STATUS
// ======================================================

func TestBatchStatus_PartialFailureKeepsApplied(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	ok1 := &models.Appointment{TenantID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: string(domain.StatusScheduled)}
	terminal := &models.Appointment{TenantID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: string(domain.StatusCancelled)}
	ok2 := &models.Appointment{TenantID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: string(domain.StatusPending)}
	repo.CreateAppointment(context.Background(), ok1)
	repo.CreateAppointment(context.Background(), terminal)
	repo.CreateAppointment(context.Background(), ok2)

	uc := NewBatchStatus(repo, newDispatcher())

	result, err := uc.Execute(context.Background(), BatchStatusInput{
		TenantID:       1,
		ActorID:        9,
		AppointmentIDs: []uint{ok1.ID, terminal.ID, ok2.ID, 999},
		NewStatus:      "confirmed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.UpdatedCount != 2 {
		t.Fatalf("expected 2 updates, got %d", result.UpdatedCount)
	}
	if len(result.FailedIDs) != 2 {
		t.Fatalf("expected 2 failures, got %v", result.FailedIDs)
	}

	// No rollback: the applied updates stay.
	got, _ := repo.GetAppointment(context.Background(), 1, ok1.ID)
	if got.Status != string(domain.StatusConfirmed) {
		t.Fatalf("applied update was lost")
	}
	kept, _ := repo.GetAppointment(context.Background(), 1, terminal.ID)
	if kept.Status != string(domain.StatusCancelled) {
		t.Fatalf("terminal record must not change")
	}
}

func TestBatchStatus_TerminalStatusStampsTimestamp(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	done := &models.Appointment{TenantID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: string(domain.StatusScheduled)}
	gone := &models.Appointment{TenantID: 1, StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour), Status: string(domain.StatusScheduled)}
	repo.CreateAppointment(context.Background(), done)
	repo.CreateAppointment(context.Background(), gone)

	uc := NewBatchStatus(repo, newDispatcher())

	if _, err := uc.Execute(context.Background(), BatchStatusInput{
		TenantID:       1,
		ActorID:        9,
		AppointmentIDs: []uint{done.ID},
		NewStatus:      "completed",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.Execute(context.Background(), BatchStatusInput{
		TenantID:       1,
		ActorID:        9,
		AppointmentIDs: []uint{gone.ID},
		NewStatus:      "cancelled",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed, _ := repo.GetAppointment(context.Background(), 1, done.ID)
	if completed.CompletedAt == nil {
		t.Fatalf("completed appointment must carry its completion time")
	}
	if completed.CancelledAt != nil {
		t.Fatalf("completed appointment must not carry a cancellation time")
	}

	cancelled, _ := repo.GetAppointment(context.Background(), 1, gone.ID)
	if cancelled.CancelledAt == nil {
		t.Fatalf("cancelled appointment must carry its cancellation time")
	}
}

func TestBatchStatus_InvalidStatusRejectedUpfront(t *testing.T) {
	repo := newFakeRepo()
	uc := NewBatchStatus(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), BatchStatusInput{
		TenantID:       1,
		ActorID:        9,
		AppointmentIDs: []uint{1},
		NewStatus:      "archived",
	})
	if !httperr.IsBusiness(err, "invalid_status") {
		t.Fatalf("expected invalid_status, got %v", err)
	}
}
