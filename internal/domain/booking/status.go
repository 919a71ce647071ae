package booking

import (
	"strings"

	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
)

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ParseStatus aceita qualquer capitalização ("Pending", "CONFIRMED").
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return s, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

// IsActive indica se a reserva ainda ocupa o horário.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrValidation("invalid_transition")
}

func InitialStatus() Status {
	return StatusPending
}
