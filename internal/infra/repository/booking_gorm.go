package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/dto"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Transaction (árbitro)
// --------------------------------------------------

func (r *BookingGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Tx) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bookingGormTx{tx: tx})
	})
}

type bookingGormTx struct {
	tx *gorm.DB
}

// LockProvider serializa as reservas de um prestador até o fim da transação.
func (t bookingGormTx) LockProvider(providerID uint) error {
	return t.tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(providerID)).Error
}

func (t bookingGormTx) FindActiveOverlapping(
	providerID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var conflicts []models.Booking
	if err := t.tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"provider_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			providerID, domain.ActiveStatuses(), end, start,
		).
		Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (t bookingGormTx) InsertBooking(b *models.Booking) error {
	return t.tx.Create(b).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) FindActiveBookings(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
) ([]domain.Interval, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"provider_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			providerID, domain.ActiveStatuses(), to, from,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Interval, 0, len(rows))
	for _, b := range rows {
		out = append(out, domain.Interval{Start: b.StartTime, End: b.EndTime})
	}
	return out, nil
}

// --------------------------------------------------
// Status
// --------------------------------------------------

func (r *BookingGormRepository) GetForProvider(
	ctx context.Context,
	bookingID uint,
	providerID uint,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", bookingID, providerID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateStatus(
	ctx context.Context,
	bookingID uint,
	providerID uint,
	from domain.Status,
	to domain.Status,
	at time.Time,
) (int64, error) {

	updates := map[string]any{
		"status":     string(to),
		"updated_at": at,
	}
	if col := domain.TimestampColumn(to); col != "" {
		updates[col] = at
	}

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND provider_id = ? AND status = ?", bookingID, providerID, string(from)).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *BookingGormRepository) ExpirePending(
	ctx context.Context,
	createdBefore time.Time,
	at time.Time,
) ([]models.Booking, error) {

	var expired []models.Booking
	if err := r.db.WithContext(ctx).
		Model(&expired).
		Clauses(clause.Returning{}).
		Where("status = ? AND created_at < ?", string(domain.StatusPending), createdBefore).
		Updates(map[string]any{
			"status":       string(domain.StatusCancelled),
			"cancelled_at": at,
			"updated_at":   at,
		}).Error; err != nil {
		return nil, err
	}
	return expired, nil
}

// --------------------------------------------------
// Listagens
// --------------------------------------------------

func (r *BookingGormRepository) ListForCustomer(
	ctx context.Context,
	customerID uint,
) ([]dto.BookingListDTO, error) {
	return r.list(ctx, "b.customer_id", customerID)
}

func (r *BookingGormRepository) ListForProvider(
	ctx context.Context,
	providerID uint,
) ([]dto.BookingListDTO, error) {
	return r.list(ctx, "b.provider_id", providerID)
}

func (r *BookingGormRepository) list(
	ctx context.Context,
	column string,
	userID uint,
) ([]dto.BookingListDTO, error) {

	out := []dto.BookingListDTO{}
	err := r.db.WithContext(ctx).
		Table("bookings b").
		Select(`
			b.id, b.status, b.start_time, b.end_time, b.created_at,
			s.id AS service_id, s.name AS service_name, s.price AS service_price,
			cust.id AS customer_id, cust.name AS customer_name,
			prov.id AS provider_id, prov.name AS provider_name,
			r.id AS review_id, r.rating AS review_rating, r.comment AS review_comment`).
		Joins("JOIN services s ON s.id = b.service_id").
		Joins("JOIN users cust ON cust.id = b.customer_id").
		Joins("JOIN users prov ON prov.id = b.provider_id").
		Joins("LEFT JOIN reviews r ON r.booking_id = b.id").
		Where(column+" = ?", userID).
		Order("b.created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Compile-time check
var _ domain.BookingStore = (*BookingGormRepository)(nil)
