package schedule

import "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"

// A Series places an appointment in the flat anchor/child shape of a
// recurring booking. The tagged union keeps the series one level deep
// structurally: a child carries its anchor id and nothing else, an
// anchor carries instances and no parent.

type SeriesRole string

const (
	SeriesStandalone SeriesRole = "standalone"
	SeriesAnchor     SeriesRole = "anchor"
	SeriesChild      SeriesRole = "child"
)

type Series struct {
	role      SeriesRole
	instances []Interval
	anchorID  uint
}

func Standalone() Series {
	return Series{role: SeriesStandalone}
}

// Anchor marks the first instance of a recurring booking, carrying the
// expanded instance windows.
func Anchor(instances []Interval) Series {
	return Series{role: SeriesAnchor, instances: instances}
}

// Child marks a later instance pointing back at the series anchor.
func Child(anchorID uint) Series {
	return Series{role: SeriesChild, anchorID: anchorID}
}

func (s Series) Role() SeriesRole {
	return s.role
}

// Instances returns the expanded windows of an anchor; nil otherwise.
func (s Series) Instances() []Interval {
	if s.role != SeriesAnchor {
		return nil
	}
	return s.instances
}

// AnchorID returns the series anchor of a child instance.
func (s Series) AnchorID() (uint, bool) {
	if s.role != SeriesChild {
		return 0, false
	}
	return s.anchorID, true
}

// Classify derives the series role of a stored appointment.
func Classify(ap *models.Appointment) Series {
	if ap.RecurrenceParentID != nil {
		return Child(*ap.RecurrenceParentID)
	}
	if ParsePattern(ap.RecurrencePattern) != PatternNone {
		return Anchor(nil)
	}
	return Standalone()
}
