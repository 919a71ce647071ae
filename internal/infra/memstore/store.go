// Package memstore implementa os contratos de armazenamento em memória.
// Transações são serializadas por um mutex, equivalente ao lock por prestador
// do postgres com granularidade maior.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/dto"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID    uint
	bookings  map[uint]models.Booking
	schedules map[uint][]domain.WeeklyEntry
	services  map[uint]models.Service
	users     map[uint]models.User
	reviews   map[uint]models.Review

	scheduleInsertHook func(domain.WeeklyEntry) error

	now func() time.Time
}

func New() *Store {
	return &Store{
		bookings:  make(map[uint]models.Booking),
		schedules: make(map[uint][]domain.WeeklyEntry),
		services:  make(map[uint]models.Service),
		users:     make(map[uint]models.User),
		reviews:   make(map[uint]models.Review),
		now:       time.Now,
	}
}

// SetClock troca o relógio usado para created_at/updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetScheduleInsertHook é chamado a cada dia gravado por ReplaceWeeklySchedule;
// um erro aborta a troca inteira.
func (s *Store) SetScheduleInsertHook(hook func(domain.WeeklyEntry) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleInsertHook = hook
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// ======================================================
// Seed helpers
// ======================================================

func (s *Store) PutUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = u
	return u
}

func (s *Store) PutService(svc models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == 0 {
		svc.ID = s.id()
	}
	if svc.Status == "" {
		svc.Status = models.ServiceApproved
	}
	s.services[svc.ID] = svc
	return svc
}

// PutBooking grava sem validar sobreposição; serve para montar cenários.
func (s *Store) PutBooking(b models.Booking) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.id()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	b.UpdatedAt = b.CreatedAt
	s.bookings[b.ID] = b
	return b
}

func (s *Store) PutReview(r models.Review) models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.id()
	}
	s.reviews[r.BookingID] = r
	return r
}

func (s *Store) Booking(id uint) (models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	return b, ok
}

func (s *Store) Bookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ======================================================
// ScheduleStore
// ======================================================

func (s *Store) GetWeeklySchedule(_ context.Context, providerID uint) ([]domain.WeeklyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WeeklyEntry{}, s.schedules[providerID]...), nil
}

func (s *Store) GetDay(_ context.Context, providerID uint, weekday int) (*domain.WeeklyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.schedules[providerID] {
		if e.DayOfWeek == weekday && e.IsAvailable {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) ReplaceWeeklySchedule(_ context.Context, providerID uint, entries []domain.WeeklyEntry) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make([]domain.WeeklyEntry, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if !e.IsAvailable {
			continue
		}
		if seen[e.DayOfWeek] {
			return fmt.Errorf("duplicate day_of_week %d for provider %d", e.DayOfWeek, providerID)
		}
		seen[e.DayOfWeek] = true

		if s.scheduleInsertHook != nil {
			if err := s.scheduleInsertHook(e); err != nil {
				return err
			}
		}
		staged = append(staged, e)
	}

	sort.Slice(staged, func(i, j int) bool { return staged[i].DayOfWeek < staged[j].DayOfWeek })
	s.schedules[providerID] = staged
	return nil
}

// ======================================================
// ServiceCatalog
// ======================================================

func (s *Store) GetBookableService(_ context.Context, serviceID uint) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[serviceID]
	if !ok || svc.Status != models.ServiceApproved {
		return nil, nil
	}
	return &svc, nil
}

// ======================================================
// BookingStore
// ======================================================

// WithinTx só publica as reservas inseridas quando fn retorna nil.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &memTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range tx.staged {
		s.bookings[b.ID] = b
	}
	return nil
}

type memTx struct {
	store  *Store
	staged []models.Booking
}

func (t *memTx) LockProvider(uint) error {
	return nil
}

func (t *memTx) FindActiveOverlapping(providerID uint, start, end time.Time) ([]models.Booking, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.overlapping(providerID, start, end), nil
}

// InsertBooking reproduz a exclusion constraint do postgres.
func (t *memTx) InsertBooking(b *models.Booking) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if domain.Status(b.Status).IsActive() && len(t.overlapping(b.ProviderID, b.StartTime, b.EndTime)) > 0 {
		return &pgconn.PgError{
			Code:           "23P01",
			Message:        "conflicting key value violates exclusion constraint",
			ConstraintName: "bookings_no_overlap",
		}
	}

	now := t.store.now()
	b.ID = t.store.id()
	b.CreatedAt = now
	b.UpdatedAt = now
	t.staged = append(t.staged, *b)
	return nil
}

func (t *memTx) overlapping(providerID uint, start, end time.Time) []models.Booking {
	var out []models.Booking
	check := func(b models.Booking) {
		if b.ProviderID != providerID || !domain.Status(b.Status).IsActive() {
			return
		}
		if start.Before(b.EndTime) && b.StartTime.Before(end) {
			out = append(out, b)
		}
	}
	for _, b := range t.store.bookings {
		check(b)
	}
	for _, b := range t.staged {
		check(b)
	}
	return out
}

func (s *Store) FindActiveBookings(_ context.Context, providerID uint, from, to time.Time) ([]domain.Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Interval{}
	for _, b := range s.bookings {
		if b.ProviderID != providerID || !domain.Status(b.Status).IsActive() {
			continue
		}
		if b.StartTime.Before(to) && from.Before(b.EndTime) {
			out = append(out, domain.Interval{Start: b.StartTime, End: b.EndTime})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *Store) GetForProvider(_ context.Context, bookingID, providerID uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || b.ProviderID != providerID {
		return nil, nil
	}
	return &b, nil
}

func (s *Store) UpdateStatus(
	_ context.Context,
	bookingID uint,
	providerID uint,
	from domain.Status,
	to domain.Status,
	at time.Time,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok || b.ProviderID != providerID || b.Status != string(from) {
		return 0, nil
	}

	stamp := at
	switch to {
	case domain.StatusConfirmed:
		b.ConfirmedAt = &stamp
	case domain.StatusCompleted:
		b.CompletedAt = &stamp
	case domain.StatusCancelled:
		b.CancelledAt = &stamp
	}
	b.Status = string(to)
	b.UpdatedAt = at
	s.bookings[bookingID] = b
	return 1, nil
}

func (s *Store) ExpirePending(_ context.Context, createdBefore, at time.Time) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []models.Booking
	for id, b := range s.bookings {
		if b.Status != string(domain.StatusPending) || !b.CreatedAt.Before(createdBefore) {
			continue
		}
		stamp := at
		b.Status = string(domain.StatusCancelled)
		b.CancelledAt = &stamp
		b.UpdatedAt = at
		s.bookings[id] = b
		expired = append(expired, b)
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	return expired, nil
}

func (s *Store) ListForCustomer(_ context.Context, customerID uint) ([]dto.BookingListDTO, error) {
	return s.list(func(b models.Booking) bool { return b.CustomerID == customerID }), nil
}

func (s *Store) ListForProvider(_ context.Context, providerID uint) ([]dto.BookingListDTO, error) {
	return s.list(func(b models.Booking) bool { return b.ProviderID == providerID }), nil
}

func (s *Store) list(match func(models.Booking) bool) []dto.BookingListDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []models.Booking
	for _, b := range s.bookings {
		if match(b) {
			rows = append(rows, b)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	out := make([]dto.BookingListDTO, 0, len(rows))
	for _, b := range rows {
		svc := s.services[b.ServiceID]
		item := dto.BookingListDTO{
			ID:           b.ID,
			Status:       b.Status,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			CreatedAt:    b.CreatedAt,
			ServiceID:    b.ServiceID,
			ServiceName:  svc.Name,
			ServicePrice: svc.Price,
			CustomerID:   b.CustomerID,
			CustomerName: s.users[b.CustomerID].Name,
			ProviderID:   b.ProviderID,
			ProviderName: s.users[b.ProviderID].Name,
		}
		if r, ok := s.reviews[b.ID]; ok {
			id, rating, comment := r.ID, r.Rating, r.Comment
			item.ReviewID, item.ReviewRating, item.ReviewComment = &id, &rating, &comment
		}
		out = append(out, item)
	}
	return out
}

var (
	_ domain.BookingStore   = (*Store)(nil)
	_ domain.ScheduleStore  = (*Store)(nil)
	_ domain.ServiceCatalog = (*Store)(nil)
)
