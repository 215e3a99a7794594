package schedule

import (
	"encoding/binary"
	"hash/fnv"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// MinExtentMinutes is the visual floor for a calendar block. It only
// affects rendering, never conflict checks.
const MinExtentMinutes = 30

// PaletteSize is the number of resource colors; 0 is the neutral key
// for unassigned appointments, resources hash into 1..PaletteSize.
const (
	PaletteSize     = 8
	NeutralColorKey = 0
)

type GridConfig struct {
	WeekStart time.Time

	// Business hours in whole hours from midnight, e.g. 8 and 18.
	BusinessHourStart int
	BusinessHourEnd   int

	PixelsPerHour int
}

// HeightUnits is the rendered height of one day column.
func (g GridConfig) HeightUnits() float64 {
	return float64(g.BusinessHourEnd-g.BusinessHourStart) * float64(g.PixelsPerHour)
}

func (g GridConfig) unitsPerMinute() float64 {
	return float64(g.PixelsPerHour) / 60
}

// Placement is one appointment's grid coordinates.
type Placement struct {
	AppointmentID uint    `json:"appointment_id"`
	DayIndex      int     `json:"day_index"`
	OffsetUnits   float64 `json:"offset_units"`
	ExtentUnits   float64 `json:"extent_units"`
	ColorKey      int     `json:"color_key"`
}

// LayoutWeek maps a week of appointments onto grid coordinates, one
// placement per appointment. The caller is responsible for filtering
// the input to the displayed week; same-slot stacking is also the
// caller's problem.
func LayoutWeek(appointments []models.Appointment, grid GridConfig) []Placement {
	weekDate := civilDate(grid.WeekStart)

	placements := make([]Placement, 0, len(appointments))
	for i := range appointments {
		ap := &appointments[i]

		start := ap.StartTime.In(grid.WeekStart.Location())
		dayIndex := int(civilDate(start).Sub(weekDate).Hours() / 24)

		offset := float64((start.Hour()-grid.BusinessHourStart)*60+start.Minute()) * grid.unitsPerMinute()

		occupied, _ := IntervalOf(ap)
		minutes := occupied.Duration().Minutes()
		if minutes < MinExtentMinutes {
			minutes = MinExtentMinutes
		}

		placements = append(placements, Placement{
			AppointmentID: ap.ID,
			DayIndex:      dayIndex,
			OffsetUnits:   offset,
			ExtentUnits:   minutes * grid.unitsPerMinute(),
			ColorKey:      ColorKeyFor(ap.ResourceID),
		})
	}

	return placements
}

// ColorKeyFor hashes a resource id into the fixed palette. The key is
// stable for a given resource no matter how the roster is ordered;
// unassigned appointments get the neutral key.
func ColorKeyFor(resourceID *uint) int {
	if resourceID == nil {
		return NeutralColorKey
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(*resourceID))

	h := fnv.New32a()
	h.Write(buf[:])

	return 1 + int(h.Sum32()%PaletteSize)
}

// civilDate pins a wall-clock date to UTC midnight so that date
// differences count calendar days, not elapsed hours. A DST transition
// inside the week must not shift later days' indexes.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
