package booking

import (
	"time"

	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Apply move a reserva para o novo status e carimba o horário correspondente.
func Apply(b *models.Booking, to Status, now time.Time) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	b.Status = string(to)
	b.UpdatedAt = now

	switch to {
	case StatusConfirmed:
		b.ConfirmedAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	}
	return nil
}

// TimestampColumn é a coluna carimbada ao entrar no status.
func TimestampColumn(s Status) string {
	switch s {
	case StatusConfirmed:
		return "confirmed_at"
	case StatusCompleted:
		return "completed_at"
	case StatusCancelled:
		return "cancelled_at"
	}
	return ""
}
