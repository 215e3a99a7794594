package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/middleware"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/timezone"
)

type TenantHandler struct {
	db *gorm.DB
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

type UpdateTenantConfigRequest struct {
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
	UndoWindowSeconds *int    `json:"undo_window_seconds"`
	Timezone          *string `json:"timezone"`
}

func (h *TenantHandler) GetMeTenant(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "tenant_not_found", "Tenant not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_tenant", "Could not load tenant settings.")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) UpdateMeTenant(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "tenant_not_found", "Tenant not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_tenant", "Could not load tenant settings.")
		return
	}

	var req UpdateTenantConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive minutes.")
			return
		}
		tenant.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if req.UndoWindowSeconds != nil {
		if *req.UndoWindowSeconds < 0 {
			httperr.BadRequest(c, "invalid_undo_window", "Undo window must be zero or positive seconds.")
			return
		}
		tenant.UndoWindowSeconds = *req.UndoWindowSeconds
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		tenant.Timezone = *req.Timezone
	}

	if err := h.db.Save(&tenant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tenant", "Could not save tenant settings.")
		return
	}

	c.JSON(http.StatusOK, tenant)
}
