package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/middleware"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/usecase/booking"
)

type CalendarHandler struct {
	weekViewUC *booking.WeekView
}

func NewCalendarHandler(weekViewUC *booking.WeekView) *CalendarHandler {
	return &CalendarHandler{weekViewUC: weekViewUC}
}

// Week returns one week of appointments with their grid placements.
// The grid parameters default to an 8-to-18 business day at 60 pixels
// per hour.
func (h *CalendarHandler) Week(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	weekStart := c.Query("week_start")
	if weekStart == "" {
		httperr.BadRequest(c, "missing_week_start", "A week start date is required.")
		return
	}

	hourStart := intQuery(c, "hour_start", 8)
	hourEnd := intQuery(c, "hour_end", 18)
	pixelsPerHour := intQuery(c, "pixels_per_hour", 60)

	if hourEnd <= hourStart || pixelsPerHour <= 0 {
		httperr.BadRequest(c, "invalid_grid", "Invalid grid parameters.")
		return
	}

	input := booking.WeekViewInput{
		TenantID:          tenantID,
		WeekStart:         weekStart,
		BusinessHourStart: hourStart,
		BusinessHourEnd:   hourEnd,
		PixelsPerHour:     pixelsPerHour,
	}

	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_resource", "Invalid resource id.")
			return
		}
		rid := uint(id)
		input.ResourceID = &rid
	}

	result, err := h.weekViewUC.Execute(c.Request.Context(), input)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_date") {
			httperr.BadRequest(c, "invalid_date", "Invalid week start date.")
			return
		}
		httperr.Internal(c, "failed_to_build_calendar", "Could not build the calendar.")
		return
	}

	c.JSON(200, result)
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
