package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID  uint `gorm:"index;not null" json:"service_id"`
	CustomerID uint `gorm:"index;not null" json:"customer_id"`
	ProviderID uint `gorm:"index;not null" json:"provider_id"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Status    string    `gorm:"size:20;not null;index" json:"status"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
