package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/availability"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListSlots(
	ctx context.Context,
	brokerID uint,
	from string,
	to string,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("broker_id = ? AND date BETWEEN ? AND ?", brokerID, from, to).
		Order("date ASC, start_time ASC").
		Find(&slots).Error

	return slots, err
}

func (r *AvailabilityGormRepository) CreateSlot(
	ctx context.Context,
	s *models.AvailabilitySlot,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *AvailabilityGormRepository) DeleteSlot(
	ctx context.Context,
	brokerID uint,
	id uint,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND broker_id = ?", id, brokerID).
		Delete(&models.AvailabilitySlot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Blocked times
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListBlocked(
	ctx context.Context,
	brokerID uint,
	from time.Time,
	to time.Time,
) ([]models.BlockedTime, error) {

	var blocked []models.BlockedTime
	err := r.db.WithContext(ctx).
		Where("broker_id = ? AND start_datetime < ? AND end_datetime > ?", brokerID, to, from).
		Order("start_datetime ASC").
		Find(&blocked).Error

	return blocked, err
}

func (r *AvailabilityGormRepository) CreateBlocked(
	ctx context.Context,
	b *models.BlockedTime,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *AvailabilityGormRepository) DeleteBlocked(
	ctx context.Context,
	brokerID uint,
	id uint,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND broker_id = ?", id, brokerID).
		Delete(&models.BlockedTime{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
