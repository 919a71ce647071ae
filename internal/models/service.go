package models

import "time"

const (
	ServicePending  = "pending"
	ServiceApproved = "approved"
	ServiceRejected = "rejected"
)

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"index;not null" json:"provider_id"`
	Provider   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string  `gorm:"size:150;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"size:80;index" json:"category"`
	Price       float64 `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Location    string  `gorm:"size:150" json:"location"`
	ImageURL    string  `gorm:"size:500" json:"image_url"`
	Status      string  `gorm:"size:20;not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
