package models

import "time"

type Appointment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PublicRef string `gorm:"size:36;uniqueIndex" json:"public_ref"`

	TenantID uint   `json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	ResourceID *uint     `json:"resource_id"`
	Resource   *Resource `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"resource,omitempty"`

	ServiceID *uint    `json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	// Set only on later instances of a recurring series; always points
	// at the first instance, never at another child.
	RecurrenceParentID *uint  `json:"recurrence_parent_id"`
	RecurrencePattern  string `gorm:"size:20;default:'none'" json:"recurrence_pattern"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
