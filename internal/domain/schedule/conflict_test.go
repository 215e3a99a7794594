package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

type fakeSource struct {
	apps []models.Appointment
	err  error
}

func (f *fakeSource) ListCandidates(
	ctx context.Context,
	tenantID uint,
	resourceID *uint,
	window Interval,
) ([]models.Appointment, error) {
	return f.apps, f.err
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 3, hour, minute, 0, 0, time.UTC)
}

func appt(id uint, start, end time.Time) models.Appointment {
	return models.Appointment{
		ID:        id,
		TenantID:  1,
		StartTime: start,
		EndTime:   end,
		Status:    string(StatusScheduled),
	}
}

func uintPtr(v uint) *uint { return &v }

func TestFindConflicts_HalfOpenBoundaries(t *testing.T) {
	src := &fakeSource{apps: []models.Appointment{
		appt(1, at(9, 0), at(10, 0)),
	}}
	d := NewDetector(src)

	// Touching endpoints never conflict.
	report := d.FindConflicts(context.Background(), ConflictQuery{
		TenantID:   1,
		ResourceID: uintPtr(7),
		Start:      at(10, 0),
		End:        at(11, 0),
	})
	if report.HasConflicts() {
		t.Fatalf("[10:00,11:00) must not conflict with [09:00,10:00), got %d", report.Total)
	}

	// One-minute overlap does.
	report = d.FindConflicts(context.Background(), ConflictQuery{
		TenantID:   1,
		ResourceID: uintPtr(7),
		Start:      at(9, 59),
		End:        at(10, 30),
	})
	if report.Total != 1 {
		t.Fatalf("[09:59,10:30) must conflict with [09:00,10:00), got %d", report.Total)
	}
}

func TestFindConflicts_ExcludesGivenID(t *testing.T) {
	src := &fakeSource{apps: []models.Appointment{
		appt(1, at(9, 0), at(10, 0)),
		appt(2, at(9, 30), at(10, 30)),
	}}
	d := NewDetector(src)

	report := d.FindConflicts(context.Background(), ConflictQuery{
		TenantID:  1,
		Start:     at(9, 0),
		End:       at(10, 0),
		ExcludeID: uintPtr(1),
	})

	if report.Total != 1 {
		t.Fatalf("expected 1 conflict after excluding id 1, got %d", report.Total)
	}
	if report.Preview[0].ID == 1 {
		t.Fatalf("excluded appointment leaked into the preview")
	}
}

func TestFindConflicts_SkipsCancelled(t *testing.T) {
	cancelled := appt(1, at(9, 0), at(10, 0))
	cancelled.Status = string(StatusCancelled)

	d := NewDetector(&fakeSource{apps: []models.Appointment{cancelled}})

	report := d.FindConflicts(context.Background(), ConflictQuery{
		TenantID: 1,
		Start:    at(9, 0),
		End:      at(10, 0),
	})
	if report.HasConflicts() {
		t.Fatalf("cancelled appointments must never conflict")
	}
}

func TestFindConflicts_FailsOpenOnLookupError(t *testing.T) {
	d := NewDetector(&fakeSource{err: errors.New("db down")})

	report := d.FindConflicts(context.Background(), ConflictQuery{
		TenantID: 1,
		Start:    at(9, 0),
		End:      at(10, 0),
	})
	if report.HasConflicts() || len(report.Preview) != 0 {
		t.Fatalf("lookup failure must fail open, got %+v", report)
	}
}

func TestFindConflicts_BoundedPreviewFullCount(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < ConflictPreviewSize+3; i++ {
		src.apps = append(src.apps, appt(uint(i+1), at(9, 0), at(10, 0)))
	}
	d := NewDetector(src)

	report := d.FindConflicts(context.Background(), ConflictQuery{
		TenantID: 1,
		Start:    at(9, 30),
		End:      at(10, 30),
	})

	if len(report.Preview) != ConflictPreviewSize {
		t.Fatalf("preview must hold %d entries, got %d", ConflictPreviewSize, len(report.Preview))
	}
	if report.Total != ConflictPreviewSize+3 {
		t.Fatalf("total must count the full candidate set, got %d", report.Total)
	}
}

func TestFindConflicts_MissingEndUsesFallback(t *testing.T) {
	open := appt(1, at(9, 0), time.Time{})

	d := NewDetector(&fakeSource{apps: []models.Appointment{open}})

	// Fallback end is 10:00; [09:30,10:30) overlaps it.
	report := d.FindConflicts(context.Background(), ConflictQuery{
		TenantID: 1,
		Start:    at(9, 30),
		End:      at(10, 30),
	})
	if report.Total != 1 {
		t.Fatalf("expected fallback window to conflict, got %d", report.Total)
	}
	if !report.Approximate {
		t.Fatalf("fallback-derived conflicts must be flagged approximate")
	}

	// [10:00,11:00) touches the fallback end only.
	report = d.FindConflicts(context.Background(), ConflictQuery{
		TenantID: 1,
		Start:    at(10, 0),
		End:      at(11, 0),
	})
	if report.HasConflicts() {
		t.Fatalf("fallback end is half-open too, got %d conflicts", report.Total)
	}
}

func TestFindConflicts_AdvisoryWithoutResource(t *testing.T) {
	d := NewDetector(&fakeSource{})

	report := d.FindConflicts(context.Background(), ConflictQuery{
		TenantID: 1,
		Start:    at(9, 0),
		End:      at(10, 0),
	})
	if !report.Advisory {
		t.Fatalf("tenant-wide checks must be advisory")
	}

	report = d.FindConflicts(context.Background(), ConflictQuery{
		TenantID:   1,
		ResourceID: uintPtr(7),
		Start:      at(9, 0),
		End:        at(10, 0),
	})
	if report.Advisory {
		t.Fatalf("resource-scoped checks are enforceable, not advisory")
	}
}

func TestFindConflicts_DegenerateWindow(t *testing.T) {
	d := NewDetector(&fakeSource{apps: []models.Appointment{
		appt(1, at(9, 0), at(10, 0)),
	}})

	report := d.FindConflicts(context.Background(), ConflictQuery{
		TenantID: 1,
		Start:    at(9, 30),
		End:      at(9, 30),
	})
	if report.HasConflicts() {
		t.Fatalf("an empty window cannot conflict")
	}
}
