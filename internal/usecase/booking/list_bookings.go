package booking

import (
	"context"

	"github.com/BruksfildServices01/service-marketplace/internal/dto"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type ListBookings struct {
	deps Deps
}

func NewListBookings(deps Deps) *ListBookings {
	return &ListBookings{deps: deps}
}

// Execute lista as reservas do ponto de vista do papel do usuário.
func (uc *ListBookings) Execute(
	ctx context.Context,
	userID uint,
	role string,
) ([]dto.BookingListDTO, error) {

	var (
		out []dto.BookingListDTO
		err error
	)

	switch role {
	case models.RoleCustomer:
		out, err = uc.deps.Bookings.ListForCustomer(ctx, userID)
	case models.RoleProvider:
		out, err = uc.deps.Bookings.ListForProvider(ctx, userID)
	default:
		return nil, httperr.ErrForbidden("role_not_allowed")
	}

	if err != nil {
		return nil, httperr.ErrPersistence(err)
	}
	if out == nil {
		out = []dto.BookingListDTO{}
	}
	return out, nil
}
