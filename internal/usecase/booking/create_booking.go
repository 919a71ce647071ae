package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/metrics"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	CustomerID uint
	ServiceID  uint
	ProviderID uint
	Start      time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	deps Deps
	cfg  Config
}

func NewCreateBooking(deps Deps, cfg Config) *CreateBooking {
	return &CreateBooking{deps: deps, cfg: cfg}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1️⃣ Entrada
	// --------------------------------------------------
	if in.CustomerID == 0 || in.ServiceID == 0 || in.ProviderID == 0 || in.Start.IsZero() {
		return nil, httperr.ErrValidation("missing_fields")
	}

	start := in.Start.In(uc.cfg.location())
	if start.Before(uc.cfg.now()) {
		return nil, httperr.ErrValidation("start_in_past")
	}

	if in.CustomerID == in.ProviderID {
		return nil, httperr.ErrValidation("self_booking")
	}

	end := start.Add(uc.cfg.Duration)

	// --------------------------------------------------
	// 2️⃣ Serviço aprovado e do prestador
	// --------------------------------------------------
	svc, err := uc.deps.Services.GetBookableService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrPersistence(err)
	}
	if svc == nil || svc.ProviderID != in.ProviderID {
		return nil, httperr.ErrValidation("service_not_found")
	}

	// --------------------------------------------------
	// 3️⃣ Grade semanal (opcional)
	// --------------------------------------------------
	if uc.cfg.EnforceSchedule {
		ok, err := uc.onSchedule(ctx, in.ProviderID, start)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrValidation("outside_schedule")
		}
	}

	// --------------------------------------------------
	// 4️⃣ Conflito + criação na mesma transação
	// --------------------------------------------------
	b := &models.Booking{
		ServiceID:  in.ServiceID,
		CustomerID: in.CustomerID,
		ProviderID: in.ProviderID,
		StartTime:  start,
		EndTime:    end,
		Status:     string(domain.InitialStatus()),
	}

	err = uc.deps.Bookings.WithinTx(ctx, func(tx domain.Tx) error {
		if err := tx.LockProvider(in.ProviderID); err != nil {
			return err
		}

		conflicts, err := tx.FindActiveOverlapping(in.ProviderID, start, end)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return httperr.ErrConflict("time_conflict")
		}

		return tx.InsertBooking(b)
	})

	if err != nil {
		if httperr.IsBusiness(err, "time_conflict") || httperr.IsExclusionConflict(err) {
			metrics.BookingConflicts.Inc()
			uc.deps.Audit.Dispatch(audit.Event{
				ActorID: &in.CustomerID,
				Action:  "booking_conflict",
				Entity:  "booking",
				Metadata: map[string]any{
					"provider_id": in.ProviderID,
					"start":       start,
					"end":         end,
				},
			})
			return nil, httperr.ErrConflict("time_conflict")
		}

		uc.deps.Log.Error("create booking failed",
			zap.Uint("provider_id", in.ProviderID),
			zap.Time("start", start),
			zap.Error(err),
		)
		return nil, httperr.ErrPersistence(err)
	}

	// --------------------------------------------------
	// 5️⃣ Pós-commit
	// --------------------------------------------------
	uc.deps.Cache.Invalidate(ctx, in.ProviderID, uc.cfg.dateKey(start))
	metrics.BookingsCreated.Inc()

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  &in.CustomerID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

// onSchedule exige que o início seja um dos slots da grade do dia.
func (uc *CreateBooking) onSchedule(
	ctx context.Context,
	providerID uint,
	start time.Time,
) (bool, error) {

	entry, err := uc.deps.Schedules.GetDay(ctx, providerID, int(start.Weekday()))
	if err != nil {
		return false, httperr.ErrPersistence(err)
	}

	for _, slot := range domain.GenerateSlots(entry, nil, start, uc.cfg.Duration) {
		if slot.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}
