package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

func TestListBookings(t *testing.T) {
	f := newFixture(t)
	first := f.seed(at(9), domain.StatusPending)
	second := f.seed(at(10), domain.StatusConfirmed)

	other := f.store.PutUser(models.User{Name: "Clara", Role: models.RoleCustomer})
	f.store.PutBooking(models.Booking{
		ServiceID:  f.service.ID,
		CustomerID: other.ID,
		ProviderID: f.provider.ID,
		StartTime:  at(11),
		EndTime:    at(12),
		Status:     string(domain.StatusPending),
	})

	uc := NewListBookings(f.deps)
	ctx := context.Background()

	mine, err := uc.Execute(ctx, f.customer.ID, models.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// mesmo created_at: desempate pelo id mais novo
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Equal(t, "Encanador", mine[0].ServiceName)
	assert.Equal(t, "Ana", mine[0].ProviderName)

	agenda, err := uc.Execute(ctx, f.provider.ID, models.RoleProvider)
	require.NoError(t, err)
	assert.Len(t, agenda, 3)
}

func TestListBookingsEmptyAndForbidden(t *testing.T) {
	f := newFixture(t)
	uc := NewListBookings(f.deps)

	out, err := uc.Execute(context.Background(), f.customer.ID, models.RoleCustomer)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	_, err = uc.Execute(context.Background(), 1, models.RoleAdmin)
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))
}
