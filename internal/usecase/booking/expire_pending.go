package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/metrics"
)

// ExpirePendingBookings cancela reservas que ficaram pendentes por mais de ttl.
// Com ttl <= 0 nada é feito.
type ExpirePendingBookings struct {
	deps Deps
	cfg  Config
	ttl  time.Duration
}

func NewExpirePendingBookings(deps Deps, cfg Config, ttl time.Duration) *ExpirePendingBookings {
	return &ExpirePendingBookings{deps: deps, cfg: cfg, ttl: ttl}
}

func (uc *ExpirePendingBookings) Execute(ctx context.Context) (int, error) {
	if uc.ttl <= 0 {
		return 0, nil
	}

	now := uc.cfg.now()
	expired, err := uc.deps.Bookings.ExpirePending(ctx, now.Add(-uc.ttl), now)
	if err != nil {
		return 0, httperr.ErrPersistence(err)
	}

	for i := range expired {
		b := expired[i]
		uc.deps.Cache.Invalidate(ctx, b.ProviderID, uc.cfg.dateKey(b.StartTime))
		uc.deps.Audit.Dispatch(audit.Event{
			Action:   "booking_expired",
			Entity:   "booking",
			EntityID: &b.ID,
			Metadata: map[string]any{"provider_id": b.ProviderID, "created_at": b.CreatedAt},
		})
	}

	if len(expired) > 0 {
		metrics.PendingExpired.Add(float64(len(expired)))
		uc.deps.Log.Info("expired stale pending bookings", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}
