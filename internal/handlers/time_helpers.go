package handlers

import (
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// Tenant-local wall time: every date and time in a request is read in
// the tenant's configured timezone.

func locationFromTenant(tenant *models.Tenant) *time.Location {
	if tenant != nil && tenant.Timezone != "" {
		if loc, err := time.LoadLocation(tenant.Timezone); err == nil {
			return loc
		}
	}

	return time.UTC
}

func parseDateInTenant(tenant *models.Tenant, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromTenant(tenant),
	)
}

func parseDateTimeInTenant(
	tenant *models.Tenant,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromTenant(tenant),
	)
}
