package schedule

import (
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// ReschedulePolicy decides what a conflicting move does. Advisory moves
// proceed and carry a warning; Reject blocks them.
type ReschedulePolicy int

const (
	PolicyAdvisory ReschedulePolicy = iota
	PolicyReject
)

// Move is a planned reschedule. The duration of the original
// appointment is always preserved.
type Move struct {
	NewStart time.Time `json:"new_start"`
	NewEnd   time.Time `json:"new_end"`
}

// PlanMove computes the target window for dropping an appointment onto
// a new day and time. Day carries the calendar date; hour and minute
// the wall-clock position within it.
func PlanMove(ap *models.Appointment, newDay time.Time, newHour, newMinute int) Move {
	duration := ap.EndTime.Sub(ap.StartTime)
	if duration <= 0 {
		duration = FallbackDuration
	}

	start := time.Date(
		newDay.Year(), newDay.Month(), newDay.Day(),
		newHour, newMinute, 0, 0,
		newDay.Location(),
	)

	return Move{NewStart: start, NewEnd: start.Add(duration)}
}

// ApplyMove mutates start and end only; status is untouched.
func ApplyMove(ap *models.Appointment, mv Move) {
	ap.StartTime = mv.NewStart
	ap.EndTime = mv.NewEnd
}
