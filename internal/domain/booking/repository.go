package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-marketplace/internal/dto"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type ScheduleStore interface {
	GetWeeklySchedule(
		ctx context.Context,
		providerID uint,
	) ([]WeeklyEntry, error)

	// GetDay devolve nil, nil quando o dia não tem janela.
	GetDay(
		ctx context.Context,
		providerID uint,
		weekday int,
	) (*WeeklyEntry, error)

	// ReplaceWeeklySchedule troca a grade inteira; tudo ou nada.
	ReplaceWeeklySchedule(
		ctx context.Context,
		providerID uint,
		entries []WeeklyEntry,
	) error
}

// Tx é a visão do store dentro de uma transação do árbitro.
type Tx interface {
	LockProvider(providerID uint) error

	FindActiveOverlapping(
		providerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	InsertBooking(b *models.Booking) error
}

// TxRunner faz commit quando fn retorna nil e rollback em erro ou panic.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type BookingStore interface {
	TxRunner

	// -------- Availability (leitura sem lock) --------
	FindActiveBookings(
		ctx context.Context,
		providerID uint,
		from time.Time,
		to time.Time,
	) ([]Interval, error)

	// -------- Status --------
	GetForProvider(
		ctx context.Context,
		bookingID uint,
		providerID uint,
	) (*models.Booking, error)

	// UpdateStatus só altera se o status atual ainda for "from".
	// 0 linhas afetadas não é erro.
	UpdateStatus(
		ctx context.Context,
		bookingID uint,
		providerID uint,
		from Status,
		to Status,
		at time.Time,
	) (int64, error)

	ExpirePending(
		ctx context.Context,
		createdBefore time.Time,
		at time.Time,
	) ([]models.Booking, error)

	// -------- Listagens --------
	ListForCustomer(ctx context.Context, customerID uint) ([]dto.BookingListDTO, error)
	ListForProvider(ctx context.Context, providerID uint) ([]dto.BookingListDTO, error)
}

type ServiceCatalog interface {
	// GetBookableService devolve nil, nil se o serviço não existe ou não foi aprovado.
	GetBookableService(ctx context.Context, serviceID uint) (*models.Service, error)
}

// SlotCache é consultivo: falhas são engolidas e a disponibilidade é recalculada.
type SlotCache interface {
	Get(ctx context.Context, providerID uint, date string) ([]string, bool)
	Set(ctx context.Context, providerID uint, date string, slots []string)
	Invalidate(ctx context.Context, providerID uint, date string)
	InvalidateProvider(ctx context.Context, providerID uint)
}
