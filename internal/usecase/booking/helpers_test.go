package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/infra/cache"
	"github.com/BruksfildServices01/service-marketplace/internal/infra/memstore"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

// 2030-01-07 é segunda-feira.
var (
	testNow = time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	monday  = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
)

func at(hour int) time.Time {
	return monday.Add(time.Duration(hour) * time.Hour)
}

type recordingCache struct {
	cache.Nop
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) Invalidate(_ context.Context, providerID uint, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, date)
}

type fixture struct {
	store    *memstore.Store
	cache    *recordingCache
	deps     Deps
	cfg      Config
	provider models.User
	customer models.User
	service  models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	store.SetClock(func() time.Time { return testNow })

	provider := store.PutUser(models.User{Name: "Ana", Role: models.RoleProvider})
	customer := store.PutUser(models.User{Name: "Bruno", Role: models.RoleCustomer})
	service := store.PutService(models.Service{ProviderID: provider.ID, Name: "Encanador", Price: 120})

	err := store.ReplaceWeeklySchedule(context.Background(), provider.ID, []domain.WeeklyEntry{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	rc := &recordingCache{}
	return &fixture{
		store: store,
		cache: rc,
		deps: Deps{
			Bookings:  store,
			Schedules: store,
			Services:  store,
			Cache:     rc,
			Log:       zap.NewNop(),
		},
		cfg: Config{
			Duration: time.Hour,
			Location: time.UTC,
			Now:      func() time.Time { return testNow },
		},
		provider: provider,
		customer: customer,
		service:  service,
	}
}

func (f *fixture) seed(start time.Time, status domain.Status) models.Booking {
	return f.store.PutBooking(models.Booking{
		ServiceID:  f.service.ID,
		CustomerID: f.customer.ID,
		ProviderID: f.provider.ID,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     string(status),
	})
}

func (f *fixture) input(start time.Time) CreateBookingInput {
	return CreateBookingInput{
		CustomerID: f.customer.ID,
		ServiceID:  f.service.ID,
		ProviderID: f.provider.ID,
		Start:      start,
	}
}
