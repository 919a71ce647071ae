package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

var start = time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

func pending(providerID uint, at time.Time) *models.Booking {
	return &models.Booking{
		ServiceID:  1,
		CustomerID: 2,
		ProviderID: providerID,
		StartTime:  at,
		EndTime:    at.Add(time.Hour),
		Status:     string(domain.StatusPending),
	}
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	s := New()
	ctx := context.Background()

	var id uint
	err := s.WithinTx(ctx, func(tx domain.Tx) error {
		b := pending(7, start)
		if err := tx.InsertBooking(b); err != nil {
			return err
		}
		id = b.ID
		return nil
	})
	require.NoError(t, err)

	got, ok := s.Booking(id)
	require.True(t, ok)
	assert.Equal(t, "pending", got.Status)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := New()
	boom := errors.New("boom")

	err := s.WithinTx(context.Background(), func(tx domain.Tx) error {
		require.NoError(t, tx.InsertBooking(pending(7, start)))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Bookings())
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	s := New()

	assert.Panics(t, func() {
		_ = s.WithinTx(context.Background(), func(tx domain.Tx) error {
			_ = tx.InsertBooking(pending(7, start))
			panic("kaboom")
		})
	})
	assert.Empty(t, s.Bookings())

	// o lock foi liberado
	require.NoError(t, s.WithinTx(context.Background(), func(domain.Tx) error { return nil }))
}

func TestInsertEmulatesExclusionConstraint(t *testing.T) {
	s := New()
	s.PutBooking(*pending(7, start))

	err := s.WithinTx(context.Background(), func(tx domain.Tx) error {
		return tx.InsertBooking(pending(7, start.Add(30*time.Minute)))
	})
	assert.True(t, httperr.IsExclusionConflict(err))

	// outro prestador não conflita
	err = s.WithinTx(context.Background(), func(tx domain.Tx) error {
		return tx.InsertBooking(pending(8, start))
	})
	assert.NoError(t, err)
}

func TestFindActiveBookingsIgnoresInactive(t *testing.T) {
	s := New()
	s.PutBooking(*pending(7, start))
	cancelled := pending(7, start.Add(time.Hour))
	cancelled.Status = string(domain.StatusCancelled)
	s.PutBooking(*cancelled)
	completed := pending(7, start.Add(2*time.Hour))
	completed.Status = string(domain.StatusCompleted)
	s.PutBooking(*completed)

	got, err := s.FindActiveBookings(context.Background(), 7, start.Add(-10*time.Hour), start.Add(10*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Start.Equal(start))
}

func TestReplaceWeeklyScheduleIsAllOrNothing(t *testing.T) {
	s := New()
	ctx := context.Background()

	before := []domain.WeeklyEntry{{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true}}
	require.NoError(t, s.ReplaceWeeklySchedule(ctx, 7, before))

	s.SetScheduleInsertHook(func(e domain.WeeklyEntry) error {
		if e.DayOfWeek == 4 {
			return errors.New("disk full")
		}
		return nil
	})

	err := s.ReplaceWeeklySchedule(ctx, 7, []domain.WeeklyEntry{
		{DayOfWeek: 2, StartTime: "08:00", EndTime: "10:00", IsAvailable: true},
		{DayOfWeek: 4, StartTime: "08:00", EndTime: "10:00", IsAvailable: true},
	})
	assert.Error(t, err)

	got, err := s.GetWeeklySchedule(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, before, got)
}

func TestUpdateStatusIsGuarded(t *testing.T) {
	s := New()
	ctx := context.Background()
	b := s.PutBooking(*pending(7, start))
	now := start.Add(-time.Hour)

	n, err := s.UpdateStatus(ctx, b.ID, 99, domain.StatusPending, domain.StatusConfirmed, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.UpdateStatus(ctx, b.ID, 7, domain.StatusConfirmed, domain.StatusCompleted, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.UpdateStatus(ctx, b.ID, 7, domain.StatusPending, domain.StatusConfirmed, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, _ := s.Booking(b.ID)
	assert.Equal(t, "confirmed", got.Status)
	require.NotNil(t, got.ConfirmedAt)
}

func TestExpirePending(t *testing.T) {
	s := New()
	old := pending(7, start)
	old.CreatedAt = start.Add(-48 * time.Hour)
	stale := s.PutBooking(*old)

	fresh := pending(7, start.Add(time.Hour))
	fresh.CreatedAt = start.Add(-time.Hour)
	keep := s.PutBooking(*fresh)

	confirmed := pending(7, start.Add(2*time.Hour))
	confirmed.Status = string(domain.StatusConfirmed)
	confirmed.CreatedAt = start.Add(-72 * time.Hour)
	s.PutBooking(*confirmed)

	expired, err := s.ExpirePending(context.Background(), start.Add(-24*time.Hour), start)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.ID, expired[0].ID)

	got, _ := s.Booking(keep.ID)
	assert.Equal(t, "pending", got.Status)
}

func TestListIncludesNamesAndReview(t *testing.T) {
	s := New()
	ctx := context.Background()
	prov := s.PutUser(models.User{Name: "Ana", Role: models.RoleProvider})
	cust := s.PutUser(models.User{Name: "Bruno", Role: models.RoleCustomer})
	svc := s.PutService(models.Service{ProviderID: prov.ID, Name: "Corte", Price: 50})

	b := s.PutBooking(models.Booking{
		ServiceID: svc.ID, CustomerID: cust.ID, ProviderID: prov.ID,
		StartTime: start, EndTime: start.Add(time.Hour), Status: string(domain.StatusCompleted),
	})
	s.PutReview(models.Review{BookingID: b.ID, ServiceID: svc.ID, Rating: 5, Comment: "ótimo"})

	list, err := s.ListForCustomer(ctx, cust.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Corte", list[0].ServiceName)
	assert.Equal(t, "Ana", list[0].ProviderName)
	assert.Equal(t, "Bruno", list[0].CustomerName)
	require.NotNil(t, list[0].ReviewRating)
	assert.Equal(t, 5, *list[0].ReviewRating)

	list, err = s.ListForProvider(ctx, cust.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
