package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) GetWeeklySchedule(
	ctx context.Context,
	providerID uint,
) ([]domain.WeeklyEntry, error) {

	var rows []models.WeeklyAvailability
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("day_of_week ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.WeeklyEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, toEntry(row))
	}
	return out, nil
}

func (r *ScheduleGormRepository) GetDay(
	ctx context.Context,
	providerID uint,
	weekday int,
) (*domain.WeeklyEntry, error) {

	var row models.WeeklyAvailability
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND day_of_week = ? AND is_available = ?", providerID, weekday, true).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e := toEntry(row)
	return &e, nil
}

// ReplaceWeeklySchedule apaga e regrava a grade na mesma transação.
func (r *ScheduleGormRepository) ReplaceWeeklySchedule(
	ctx context.Context,
	providerID uint,
	entries []domain.WeeklyEntry,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("provider_id = ?", providerID).
			Delete(&models.WeeklyAvailability{}).Error; err != nil {
			return err
		}

		var toCreate []models.WeeklyAvailability
		for _, e := range entries {
			if !e.IsAvailable {
				continue
			}
			toCreate = append(toCreate, models.WeeklyAvailability{
				ProviderID:  providerID,
				DayOfWeek:   e.DayOfWeek,
				StartTime:   e.StartTime,
				EndTime:     e.EndTime,
				IsAvailable: true,
			})
		}

		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
}

func toEntry(row models.WeeklyAvailability) domain.WeeklyEntry {
	return domain.WeeklyEntry{
		DayOfWeek:   row.DayOfWeek,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		IsAvailable: row.IsAvailable,
	}
}

var _ domain.ScheduleStore = (*ScheduleGormRepository)(nil)
