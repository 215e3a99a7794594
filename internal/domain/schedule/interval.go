package schedule

import (
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// FallbackDuration stands in for appointments persisted without an end
// time. Results derived from it are approximate.
const FallbackDuration = 60 * time.Minute

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// IntervalOf extracts the occupied interval of a stored appointment,
// degrading a missing or inverted end to start + FallbackDuration.
func IntervalOf(ap *models.Appointment) (Interval, bool) {
	if ap.EndTime.After(ap.StartTime) {
		return Interval{Start: ap.StartTime, End: ap.EndTime}, false
	}
	return Interval{Start: ap.StartTime, End: ap.StartTime.Add(FallbackDuration)}, true
}
