package models

import "time"

// Resource is a schedulable technician within a tenant.
type Resource struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `json:"tenant_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Phone  string `gorm:"size:20" json:"phone"`
	Email  string `gorm:"size:100" json:"email"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
