package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type ViewingGormRepository struct {
	db *gorm.DB
}

func NewViewingGormRepository(db *gorm.DB) *ViewingGormRepository {
	return &ViewingGormRepository{db: db}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *ViewingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ViewingGormRepository{db: tx})
	})
}

func (r *ViewingGormRepository) LockBroker(
	ctx context.Context,
	brokerID uint,
) error {

	var broker models.Broker
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&broker, brokerID).Error

	return mapNotFound(err)
}

// --------------------------------------------------
// Property / Broker
// --------------------------------------------------

func (r *ViewingGormRepository) GetProperty(
	ctx context.Context,
	id uint,
) (*models.Property, error) {

	var p models.Property
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *ViewingGormRepository) GetActiveAssignment(
	ctx context.Context,
	propertyID uint,
	brokerID uint,
) (*models.PropertyBroker, error) {

	var pb models.PropertyBroker
	err := r.db.WithContext(ctx).
		Joins("Broker").
		Where("property_brokers.property_id = ? AND property_brokers.broker_id = ?", propertyID, brokerID).
		Where("property_brokers.active = ? AND \"Broker\".active = ?", true, true).
		First(&pb).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &pb, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ViewingGormRepository) ListAvailabilitySlots(
	ctx context.Context,
	brokerID uint,
	date string,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("broker_id = ? AND date = ?", brokerID, date).
		Order("start_time ASC, id ASC").
		Find(&slots).Error

	return slots, err
}

func (r *ViewingGormRepository) ListBlockedTimes(
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

// --------------------------------------------------
// Viewing (create / conflict)
// --------------------------------------------------

func (r *ViewingGormRepository) ListActiveViewingsForBroker(
	ctx context.Context,
	brokerID uint,
	from time.Time,
	to time.Time,
) ([]models.PropertyViewing, error) {

	var viewings []models.PropertyViewing
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("broker_id = ? AND start_at < ? AND end_at > ? AND status IN ?", brokerID, to, from, domain.ActiveStatuses).
		Order("start_at ASC").
		Find(&viewings).Error

	return viewings, err
}

// CreateViewing maps the broker overlap exclusion constraint to
// domain.ErrViewingOverlap.
func (r *ViewingGormRepository) CreateViewing(
	ctx context.Context,
	v *models.PropertyViewing,
) error {

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(v).Error
	if httperr.IsExclusionConflict(err) {
		return domain.ErrViewingOverlap
	}
	return err
}

// --------------------------------------------------
// Viewing (state change / listing)
// --------------------------------------------------

func (r *ViewingGormRepository) GetViewingForBroker(
	ctx context.Context,
	viewingID uint,
	brokerID uint,
) (*models.PropertyViewing, error) {

	var v models.PropertyViewing
	if err := r.db.WithContext(ctx).
		Preload("Property").
		Where("id = ? AND broker_id = ?", viewingID, brokerID).
		First(&v).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return &v, nil
}

func (r *ViewingGormRepository) UpdateViewing(
	ctx context.Context,
	v *models.PropertyViewing,
) error {
	return r.db.WithContext(ctx).
		Model(v).
		Select("status", "confirmed_at", "cancelled_at", "completed_at", "updated_at").
		Updates(v).Error
}

func (r *ViewingGormRepository) ListViewingsForBroker(
	ctx context.Context,
	brokerID uint,
	date string,
) ([]models.PropertyViewing, error) {

	var viewings []models.PropertyViewing
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("broker_id = ? AND viewing_date = ?", brokerID, date).
		Order("start_at ASC").
		Find(&viewings).Error

	return viewings, err
}
