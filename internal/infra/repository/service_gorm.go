package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

func (r *ServiceGormRepository) GetBookableService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", serviceID, models.ServiceApproved).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

var _ domain.ServiceCatalog = (*ServiceGormRepository)(nil)
