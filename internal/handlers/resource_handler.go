package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/domain/schedule"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/middleware"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

type ResourceHandler struct {
	db *gorm.DB
}

func NewResourceHandler(db *gorm.DB) *ResourceHandler {
	return &ResourceHandler{db: db}
}

// --------- Requests ---------

type CreateResourceRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type UpdateResourceRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Email  *string `json:"email,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

// List serves the roster. Each entry carries its calendar color key so
// the client never derives colors from roster position.
func (h *ResourceHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var resources []models.Resource
	if err := h.db.
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&resources).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_resources"})
		return
	}

	type rosterEntry struct {
		models.Resource
		ColorKey int `json:"color_key"`
	}

	out := make([]rosterEntry, 0, len(resources))
	for i := range resources {
		out = append(out, rosterEntry{
			Resource: resources[i],
			ColorKey: domain.ColorKeyFor(&resources[i].ID),
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	resource := models.Resource{
		TenantID: tenantID,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Active:   true,
	}

	if err := h.db.Create(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_resource"})
		return
	}

	c.JSON(http.StatusCreated, resource)
}

func (h *ResourceHandler) Update(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id := c.Param("id")

	var resource models.Resource
	if err := h.db.
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&resource).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_resource"})
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		resource.Name = *req.Name
	}
	if req.Phone != nil {
		resource.Phone = *req.Phone
	}
	if req.Email != nil {
		resource.Email = *req.Email
	}
	if req.Active != nil {
		resource.Active = *req.Active
	}

	if err := h.db.Save(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_resource"})
		return
	}

	c.JSON(http.StatusOK, resource)
}
