package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/timezone"
)

type AvailabilityInput struct {
	ProviderID uint
	Date       time.Time
}

type GetAvailability struct {
	deps Deps
	cfg  Config
}

func NewGetAvailability(deps Deps, cfg Config) *GetAvailability {
	return &GetAvailability{deps: deps, cfg: cfg}
}

// Execute calcula os horários livres sem lock. O resultado é consultivo:
// quem garante a exclusividade é o CreateBooking.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]string, error) {

	if in.ProviderID == 0 || in.Date.IsZero() {
		return nil, httperr.ErrValidation("missing_fields")
	}

	date := in.Date.In(uc.cfg.location())
	key := date.Format(timezone.DateLayout)

	if slots, ok := uc.deps.Cache.Get(ctx, in.ProviderID, key); ok {
		return slots, nil
	}

	entry, err := uc.deps.Schedules.GetDay(ctx, in.ProviderID, int(date.Weekday()))
	if err != nil {
		return nil, httperr.ErrPersistence(err)
	}

	var booked []domain.Interval
	if entry != nil {
		dayStart, dayEnd := timezone.DayBounds(date)
		booked, err = uc.deps.Bookings.FindActiveBookings(ctx, in.ProviderID, dayStart, dayEnd)
		if err != nil {
			return nil, httperr.ErrPersistence(err)
		}
	}

	slots := domain.FormatSlots(domain.GenerateSlots(entry, booked, date, uc.cfg.Duration))

	uc.deps.Cache.Set(ctx, in.ProviderID, key, slots)
	return slots, nil
}
