package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
)

func TestUpdateBookingStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	b := f.seed(at(10), domain.StatusPending)
	uc := NewUpdateBookingStatus(f.deps, f.cfg)
	ctx := context.Background()

	got, err := uc.Execute(ctx, f.provider.ID, b.ID, "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	require.NotNil(t, got.ConfirmedAt)

	got, err = uc.Execute(ctx, f.provider.ID, b.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)

	stored, _ := f.store.Booking(b.ID)
	assert.Equal(t, "completed", stored.Status)
	require.NotNil(t, stored.CompletedAt)

	_, err = uc.Execute(ctx, f.provider.ID, b.ID, "cancelled")
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
	assert.Equal(t, []string{"2030-01-07", "2030-01-07"}, f.cache.invalidated)
}

func TestUpdateBookingStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		initial  domain.Status
		provider func(f *fixture) uint
		status   string
		kind     httperr.Kind
		code     string
	}{
		{"unknown status", domain.StatusPending, nil, "done", httperr.KindValidation, "invalid_status"},
		{"pending to completed", domain.StatusPending, nil, "completed", httperr.KindValidation, "invalid_transition"},
		{"pending to pending", domain.StatusPending, nil, "pending", httperr.KindValidation, "invalid_transition"},
		{"cancelled is terminal", domain.StatusCancelled, nil, "confirmed", httperr.KindValidation, "invalid_transition"},
		{"other provider", domain.StatusPending, func(f *fixture) uint { return f.customer.ID }, "confirmed", httperr.KindNotFound, "booking_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.seed(at(10), tt.initial)
			providerID := f.provider.ID
			if tt.provider != nil {
				providerID = tt.provider(f)
			}

			_, err := NewUpdateBookingStatus(f.deps, f.cfg).Execute(context.Background(), providerID, b.ID, tt.status)
			assert.Equal(t, tt.kind, httperr.KindOf(err))
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)

			stored, _ := f.store.Booking(b.ID)
			assert.Equal(t, string(tt.initial), stored.Status)
		})
	}
}

func TestUpdateBookingStatusMissingBooking(t *testing.T) {
	f := newFixture(t)
	_, err := NewUpdateBookingStatus(f.deps, f.cfg).Execute(context.Background(), f.provider.ID, 12345, "confirmed")
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

// raceStore simula outra requisição mudando o status entre a leitura e o update.
type raceStore struct {
	domain.BookingStore
}

func (r raceStore) UpdateStatus(context.Context, uint, uint, domain.Status, domain.Status, time.Time) (int64, error) {
	return 0, nil
}

func TestUpdateBookingStatusLostRace(t *testing.T) {
	f := newFixture(t)
	b := f.seed(at(10), domain.StatusPending)
	f.deps.Bookings = raceStore{BookingStore: f.store}

	_, err := NewUpdateBookingStatus(f.deps, f.cfg).Execute(context.Background(), f.provider.ID, b.ID, "confirmed")
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
}

func TestCancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	b := f.seed(at(11), domain.StatusConfirmed)
	ctx := context.Background()

	_, err := NewCreateBooking(f.deps, f.cfg).Execute(ctx, f.input(at(11)))
	require.True(t, httperr.IsBusiness(err, "time_conflict"))

	_, err = NewUpdateBookingStatus(f.deps, f.cfg).Execute(ctx, f.provider.ID, b.ID, "cancelled")
	require.NoError(t, err)

	slots, err := NewGetAvailability(f.deps, f.cfg).Execute(ctx, AvailabilityInput{ProviderID: f.provider.ID, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slots)

	_, err = NewCreateBooking(f.deps, f.cfg).Execute(ctx, f.input(at(11)))
	assert.NoError(t, err)
}
