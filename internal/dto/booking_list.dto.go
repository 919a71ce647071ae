package dto

import "time"

type BookingListDTO struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`

	ServiceID    uint    `json:"service_id"`
	ServiceName  string  `json:"service_name"`
	ServicePrice float64 `json:"price"`

	CustomerID   uint   `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	ProviderID   uint   `json:"provider_id"`
	ProviderName string `json:"provider_name"`

	ReviewID      *uint   `json:"review_id"`
	ReviewRating  *int    `json:"rating"`
	ReviewComment *string `json:"comment"`
}
