package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/infra/cache"
	"github.com/BruksfildServices01/service-marketplace/internal/infra/memstore"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
	ucBooking "github.com/BruksfildServices01/service-marketplace/internal/usecase/booking"
	ucSchedule "github.com/BruksfildServices01/service-marketplace/internal/usecase/schedule"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

// asUser substitui o AuthMiddleware nos testes de handler.
func asUser(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

type env struct {
	store    *memstore.Store
	booking  *BookingHandler
	schedule *ScheduleHandler
	provider models.User
	customer models.User
	service  models.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memstore.New()
	store.SetClock(func() time.Time { return testNow })

	provider := store.PutUser(models.User{Name: "Ana", Role: models.RoleProvider})
	customer := store.PutUser(models.User{Name: "Bruno", Role: models.RoleCustomer})
	service := store.PutService(models.Service{ProviderID: provider.ID, Name: "Eletricista", Price: 90})

	require.NoError(t, store.ReplaceWeeklySchedule(context.Background(), provider.ID, []domain.WeeklyEntry{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
	}))

	deps := ucBooking.Deps{
		Bookings:  store,
		Schedules: store,
		Services:  store,
		Cache:     cache.Nop{},
		Log:       zap.NewNop(),
	}
	cfg := ucBooking.Config{
		Duration: time.Hour,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	}

	return &env{
		store: store,
		booking: NewBookingHandler(
			ucBooking.NewGetAvailability(deps, cfg),
			ucBooking.NewCreateBooking(deps, cfg),
			ucBooking.NewUpdateBookingStatus(deps, cfg),
			ucBooking.NewListBookings(deps),
			time.UTC,
		),
		schedule: NewScheduleHandler(
			ucSchedule.NewGetSchedule(store),
			ucSchedule.NewReplaceSchedule(store, cache.Nop{}, nil),
		),
		provider: provider,
		customer: customer,
		service:  service,
	}
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type errorBody struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}
