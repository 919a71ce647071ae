package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b, err := NewCreateBooking(f.deps, f.cfg).Execute(context.Background(), f.input(at(10)))
	require.NoError(t, err)

	assert.NotZero(t, b.ID)
	assert.Equal(t, "pending", b.Status)
	assert.True(t, b.EndTime.Equal(at(11)))

	stored, ok := f.store.Booking(b.ID)
	require.True(t, ok)
	assert.Equal(t, f.customer.ID, stored.CustomerID)
	assert.Equal(t, []string{"2030-01-07"}, f.cache.invalidated)
}

func TestCreateBookingConflicts(t *testing.T) {
	tests := []struct {
		name     string
		existing domain.Status
		start    time.Time
		conflict bool
	}{
		{"pending at same time", domain.StatusPending, at(10), true},
		{"confirmed at same time", domain.StatusConfirmed, at(10), true},
		{"completed at same time", domain.StatusCompleted, at(10), false},
		{"cancelled at same time", domain.StatusCancelled, at(10), false},
		{"pending overlapping off-grid", domain.StatusPending, at(10).Add(30 * time.Minute), true},
		{"pending adjacent", domain.StatusPending, at(11), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(at(10), tt.existing)

			_, err := NewCreateBooking(f.deps, f.cfg).Execute(context.Background(), f.input(tt.start))
			if tt.conflict {
				assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
				assert.True(t, httperr.IsBusiness(err, "time_conflict"))
				assert.Len(t, f.store.Bookings(), 1)
			} else {
				assert.NoError(t, err)
				assert.Len(t, f.store.Bookings(), 2)
			}
		})
	}
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateBooking(f.deps, f.cfg)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.Execute(context.Background(), f.input(at(9)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case httperr.KindOf(err) == httperr.KindConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, f.store.Bookings(), 1)
}

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture, in *CreateBookingInput)
		code   string
	}{
		{"missing service", func(_ *fixture, in *CreateBookingInput) { in.ServiceID = 0 }, "missing_fields"},
		{"missing provider", func(_ *fixture, in *CreateBookingInput) { in.ProviderID = 0 }, "missing_fields"},
		{"zero start", func(_ *fixture, in *CreateBookingInput) { in.Start = time.Time{} }, "missing_fields"},
		{"start in the past", func(_ *fixture, in *CreateBookingInput) { in.Start = testNow.Add(-time.Hour) }, "start_in_past"},
		{"self booking", func(f *fixture, in *CreateBookingInput) { in.CustomerID = f.provider.ID }, "self_booking"},
		{"unknown service", func(_ *fixture, in *CreateBookingInput) { in.ServiceID = 999 }, "service_not_found"},
		{"service of another provider", func(f *fixture, in *CreateBookingInput) {
			other := f.store.PutUser(models.User{Name: "Caio", Role: models.RoleProvider})
			in.ProviderID = other.ID
		}, "service_not_found"},
		{"service not approved", func(f *fixture, in *CreateBookingInput) {
			svc := f.store.PutService(models.Service{ProviderID: f.provider.ID, Name: "Novo", Status: models.ServicePending})
			in.ServiceID = svc.ID
		}, "service_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := f.input(at(10))
			tt.mutate(f, &in)

			_, err := NewCreateBooking(f.deps, f.cfg).Execute(context.Background(), in)
			assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
			assert.Empty(t, f.store.Bookings())
		})
	}
}

func TestCreateBookingEnforceSchedule(t *testing.T) {
	f := newFixture(t)
	f.cfg.EnforceSchedule = true
	uc := NewCreateBooking(f.deps, f.cfg)

	_, err := uc.Execute(context.Background(), f.input(at(14)))
	assert.True(t, httperr.IsBusiness(err, "outside_schedule"))

	_, err = uc.Execute(context.Background(), f.input(at(9).Add(15*time.Minute)))
	assert.True(t, httperr.IsBusiness(err, "outside_schedule"))

	_, err = uc.Execute(context.Background(), f.input(at(11)))
	assert.NoError(t, err)
}

// txStub simula o postgres rejeitando o insert pela exclusion constraint,
// caso em que a leitura com lock não viu a reserva concorrente.
type txStub struct {
	insertErr error
}

func (s txStub) LockProvider(uint) error { return nil }
func (s txStub) FindActiveOverlapping(uint, time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (s txStub) InsertBooking(*models.Booking) error { return s.insertErr }

type stubBookings struct {
	domain.BookingStore
	tx txStub
}

func (s stubBookings) WithinTx(_ context.Context, fn func(domain.Tx) error) error {
	return fn(s.tx)
}

func TestCreateBookingMapsStoreErrors(t *testing.T) {
	f := newFixture(t)

	f.deps.Bookings = stubBookings{tx: txStub{insertErr: &pgconn.PgError{Code: "23P01"}}}
	_, err := NewCreateBooking(f.deps, f.cfg).Execute(context.Background(), f.input(at(10)))
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))

	cause := errors.New("connection reset by peer")
	f.deps.Bookings = stubBookings{tx: txStub{insertErr: cause}}
	_, err = NewCreateBooking(f.deps, f.cfg).Execute(context.Background(), f.input(at(10)))
	assert.Equal(t, httperr.KindPersistence, httperr.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, f.cache.invalidated)
}

func TestCreateBookingConvertsToBusinessLocation(t *testing.T) {
	f := newFixture(t)
	loc := time.FixedZone("BRT", -3*60*60)
	f.cfg.Location = loc

	// 12:00Z == 09:00 BRT de segunda
	b, err := NewCreateBooking(f.deps, f.cfg).Execute(context.Background(), f.input(time.Date(2030, 1, 7, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 9, b.StartTime.Hour())
	assert.Equal(t, []string{"2030-01-07"}, f.cache.invalidated)
}
