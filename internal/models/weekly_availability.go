package models

import "time"

// WeeklyAvailability é a janela recorrente de um prestador para um dia da semana.
// Dias indisponíveis não são gravados.
type WeeklyAvailability struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"not null;uniqueIndex:idx_schedule_provider_day" json:"provider_id"`

	DayOfWeek   int    `gorm:"not null;uniqueIndex:idx_schedule_provider_day" json:"day_of_week"`
	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`
	IsAvailable bool   `gorm:"not null;default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
}

func (WeeklyAvailability) TableName() string {
	return "provider_schedules"
}
