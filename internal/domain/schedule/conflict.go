package schedule

import (
	"context"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// ConflictPreviewSize bounds how many conflicting appointments a report
// carries. The predicate still runs over the whole candidate set, so
// Total is always exact.
const ConflictPreviewSize = 5

// CandidateSource lists the non-cancelled appointments that could
// possibly overlap a window, scoped to a tenant and optionally to one
// resource.
type CandidateSource interface {
	ListCandidates(
		ctx context.Context,
		tenantID uint,
		resourceID *uint,
		window Interval,
	) ([]models.Appointment, error)
}

type ConflictQuery struct {
	TenantID   uint
	ResourceID *uint
	Start      time.Time
	End        time.Time

	// ExcludeID leaves one appointment out of the check, typically the
	// one being rescheduled.
	ExcludeID *uint
}

type ConflictReport struct {
	// Preview holds at most ConflictPreviewSize conflicting appointments.
	Preview []models.Appointment `json:"preview"`
	Total   int                  `json:"total"`

	// Approximate is set when any counted conflict had no stored end
	// time and the fallback duration was assumed.
	Approximate bool `json:"approximate"`

	// Advisory is set when the check ran tenant-wide without a resource
	// scope; such conflicts warn but never block.
	Advisory bool `json:"advisory"`
}

func (r ConflictReport) HasConflicts() bool {
	return r.Total > 0
}

// Detector is the read-only overlap checker. It is pure over the
// fetched candidate set and safe to call repeatedly and concurrently.
type Detector struct {
	source CandidateSource
}

func NewDetector(source CandidateSource) *Detector {
	return &Detector{source: source}
}

// FindConflicts returns every non-cancelled appointment in scope whose
// half-open interval overlaps [q.Start, q.End). The check is advisory
// without a resource scope. Lookup failures fail open: the report comes
// back empty.
func (d *Detector) FindConflicts(ctx context.Context, q ConflictQuery) ConflictReport {
	report := ConflictReport{Advisory: q.ResourceID == nil}

	if !q.End.After(q.Start) {
		return report
	}

	candidate := Interval{Start: q.Start, End: q.End}

	candidates, err := d.source.ListCandidates(ctx, q.TenantID, q.ResourceID, candidate)
	if err != nil {
		// Advisory check: never surface lookup errors, report nothing.
		return report
	}

	for i := range candidates {
		ap := &candidates[i]

		if Status(ap.Status) == StatusCancelled {
			continue
		}
		if q.ExcludeID != nil && ap.ID == *q.ExcludeID {
			continue
		}

		occupied, approx := IntervalOf(ap)
		if !occupied.Overlaps(candidate) {
			continue
		}

		report.Total++
		if approx {
			report.Approximate = true
		}
		if len(report.Preview) < ConflictPreviewSize {
			report.Preview = append(report.Preview, *ap)
		}
	}

	return report
}
