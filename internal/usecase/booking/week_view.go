package booking

import (
	"context"
	"time"

	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/timezone"
)

type WeekViewInput struct {
	TenantID   uint
	ResourceID *uint

	// WeekStart is the date of day index 0.
	WeekStart string

	BusinessHourStart int
	BusinessHourEnd   int
	PixelsPerHour     int
}

type WeekViewResult struct {
	Appointments []models.Appointment `json:"appointments"`
	Placements   []domain.Placement   `json:"placements"`
	HeightUnits  float64              `json:"height_units"`
}

type WeekView struct {
	repo domain.Repository
}

func NewWeekView(repo domain.Repository) *WeekView {
	return &WeekView{repo: repo}
}

func (uc *WeekView) Execute(
	ctx context.Context,
	in WeekViewInput,
) (*WeekViewResult, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	weekStart, err := time.ParseInLocation(
		"2006-01-02",
		in.WeekStart,
		timezone.Location(tenant.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	apps, err := uc.repo.ListAppointmentsForRange(
		ctx,
		in.TenantID,
		in.ResourceID,
		weekStart,
		weekStart.AddDate(0, 0, 7),
	)
	if err != nil {
		return nil, err
	}

	grid := domain.GridConfig{
		WeekStart:         weekStart,
		BusinessHourStart: in.BusinessHourStart,
		BusinessHourEnd:   in.BusinessHourEnd,
		PixelsPerHour:     in.PixelsPerHour,
	}

	return &WeekViewResult{
		Appointments: apps,
		Placements:   domain.LayoutWeek(apps, grid),
		HeightUnits:  grid.HeightUnits(),
	}, nil
}
