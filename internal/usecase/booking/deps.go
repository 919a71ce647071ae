package booking

import (
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/timezone"
)

// Deps são os colaboradores compartilhados pelos casos de uso de reserva.
type Deps struct {
	Bookings  domain.BookingStore
	Schedules domain.ScheduleStore
	Services  domain.ServiceCatalog
	Cache     domain.SlotCache
	Audit     *audit.Dispatcher
	Log       *zap.Logger
}

type Config struct {
	Duration        time.Duration
	EnforceSchedule bool
	Location        *time.Location
	Now             func() time.Time
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now().In(c.location())
	}
	return time.Now().In(c.location())
}

func (c Config) dateKey(t time.Time) string {
	return t.In(c.location()).Format(timezone.DateLayout)
}
