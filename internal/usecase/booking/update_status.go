package booking

import (
	"context"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/metrics"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type UpdateBookingStatus struct {
	deps Deps
	cfg  Config
}

func NewUpdateBookingStatus(deps Deps, cfg Config) *UpdateBookingStatus {
	return &UpdateBookingStatus{deps: deps, cfg: cfg}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	providerID uint,
	bookingID uint,
	rawStatus string,
) (*models.Booking, error) {

	to, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := uc.deps.Bookings.GetForProvider(ctx, bookingID, providerID)
	if err != nil {
		return nil, httperr.ErrPersistence(err)
	}
	if current == nil {
		return nil, httperr.ErrNotFound("booking_not_found")
	}

	from := domain.Status(current.Status)
	now := uc.cfg.now()

	updated := *current
	if err := domain.Apply(&updated, to, now); err != nil {
		return nil, err
	}

	// update condicionado ao status lido: quem perder a corrida recebe invalid_transition
	n, err := uc.deps.Bookings.UpdateStatus(ctx, bookingID, providerID, from, to, now)
	if err != nil {
		return nil, httperr.ErrPersistence(err)
	}
	if n == 0 {
		return nil, httperr.ErrValidation("invalid_transition")
	}

	uc.deps.Cache.Invalidate(ctx, providerID, uc.cfg.dateKey(updated.StartTime))
	metrics.StatusTransitions.WithLabelValues(string(to)).Inc()

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  &providerID,
		Action:   "booking_" + string(to),
		Entity:   "booking",
		EntityID: &updated.ID,
		Metadata: map[string]string{"from": string(from), "to": string(to)},
	})

	return &updated, nil
}
