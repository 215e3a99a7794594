package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httpresp"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/middleware"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// ======================================================
// LIST CUSTOMERS
// ======================================================
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("tenant_id = ?", tenantID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var customers []models.Customer
	if err := q.
		Order("created_at DESC").
		Find(&customers).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed_to_list_customers",
		})
		return
	}

	httpresp.List(c, customers)
}
