package schedule

import (
	"context"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
)

type GetSchedule struct {
	store domain.ScheduleStore
}

func NewGetSchedule(store domain.ScheduleStore) *GetSchedule {
	return &GetSchedule{store: store}
}

func (uc *GetSchedule) Execute(ctx context.Context, providerID uint) ([]domain.WeeklyEntry, error) {
	entries, err := uc.store.GetWeeklySchedule(ctx, providerID)
	if err != nil {
		return nil, httperr.ErrPersistence(err)
	}
	if entries == nil {
		entries = []domain.WeeklyEntry{}
	}
	return entries, nil
}

type ReplaceSchedule struct {
	store domain.ScheduleStore
	cache domain.SlotCache
	audit *audit.Dispatcher
}

func NewReplaceSchedule(
	store domain.ScheduleStore,
	cache domain.SlotCache,
	audit *audit.Dispatcher,
) *ReplaceSchedule {
	return &ReplaceSchedule{
		store: store,
		cache: cache,
		audit: audit,
	}
}

// Execute substitui a grade semanal inteira. A validação acontece antes de
// qualquer escrita; a troca em si é atômica no store.
func (uc *ReplaceSchedule) Execute(
	ctx context.Context,
	providerID uint,
	entries []domain.WeeklyEntry,
) ([]domain.WeeklyEntry, error) {

	normalized, err := domain.NormalizeSchedule(entries)
	if err != nil {
		return nil, err
	}

	if err := uc.store.ReplaceWeeklySchedule(ctx, providerID, normalized); err != nil {
		return nil, httperr.ErrPersistence(err)
	}

	uc.cache.InvalidateProvider(ctx, providerID)

	uc.audit.Dispatch(audit.Event{
		ActorID:  &providerID,
		Action:   "schedule_replaced",
		Entity:   "schedule",
		Metadata: map[string]int{"days": len(normalized)},
	})

	return normalized, nil
}
