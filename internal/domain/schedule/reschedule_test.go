package schedule

import (
	"testing"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

func TestPlanMove_PreservesDuration(t *testing.T) {
	ap := &models.Appointment{
		ID:        1,
		StartTime: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
	}

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	move := PlanMove(ap, day, 9, 30)

	if !move.NewStart.Equal(time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected new start 09:30, got %s", move.NewStart)
	}
	if !move.NewEnd.Equal(time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected new end 10:30, got %s", move.NewEnd)
	}
	if move.NewEnd.Sub(move.NewStart) != ap.EndTime.Sub(ap.StartTime) {
		t.Fatalf("duration not preserved")
	}
}

func TestPlanMove_AcrossDays(t *testing.T) {
	ap := &models.Appointment{
		StartTime: time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC),
	}

	day := time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC)
	move := PlanMove(ap, day, 11, 0)

	if !move.NewStart.Equal(time.Date(2024, 6, 6, 11, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start on the new day, got %s", move.NewStart)
	}
	if move.NewEnd.Sub(move.NewStart) != 90*time.Minute {
		t.Fatalf("expected 90min preserved, got %s", move.NewEnd.Sub(move.NewStart))
	}
}

func TestPlanMove_MissingEndFallback(t *testing.T) {
	ap := &models.Appointment{
		StartTime: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
	}

	day := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	move := PlanMove(ap, day, 10, 0)

	if move.NewEnd.Sub(move.NewStart) != FallbackDuration {
		t.Fatalf("missing end must fall back to %s, got %s",
			FallbackDuration, move.NewEnd.Sub(move.NewStart))
	}
}

func TestApplyMove_TouchesTimesOnly(t *testing.T) {
	ap := &models.Appointment{
		ID:        1,
		StartTime: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		Status:    string(StatusConfirmed),
		Notes:     "bring the good scissors",
	}

	move := PlanMove(ap, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), 9, 30)
	ApplyMove(ap, move)

	if !ap.StartTime.Equal(move.NewStart) || !ap.EndTime.Equal(move.NewEnd) {
		t.Fatalf("times not applied")
	}
	if ap.Status != string(StatusConfirmed) {
		t.Fatalf("status must stay untouched, got %s", ap.Status)
	}
	if ap.Notes != "bring the good scissors" {
		t.Fatalf("notes must stay untouched")
	}
}
