package dto

import "time"

// ServiceListingDTO é o serviço como aparece na busca pública.
type ServiceListingDTO struct {
	ID          uint      `json:"id"`
	ProviderID  uint      `json:"provider_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	ProviderName  string   `json:"provider_name"`
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

type AdminStatsDTO struct {
	TotalUsers        int64 `json:"total_users"`
	TotalProviders    int64 `json:"total_providers"`
	TotalServices     int64 `json:"total_services"`
	CompletedBookings int64 `json:"completed_bookings"`
}

type CategoryCountDTO struct {
	Category     string `json:"category"`
	BookingCount int64  `json:"booking_count"`
}

type ServiceCountDTO struct {
	ServiceName  string `json:"service_name"`
	BookingCount int64  `json:"booking_count"`
}
