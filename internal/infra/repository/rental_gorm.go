package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/rental"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

// calendarBatchSize keeps each upsert statement well under the Postgres
// bind parameter limit.
const calendarBatchSize = 200

type RentalGormRepository struct {
	db *gorm.DB
}

func NewRentalGormRepository(db *gorm.DB) *RentalGormRepository {
	return &RentalGormRepository{db: db}
}

func (r *RentalGormRepository) GetListing(
	ctx context.Context,
	id uint,
) (*models.RentalListing, error) {

	var l models.RentalListing
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &l, nil
}

// UpsertDays writes the whole range in one transaction so a failure leaves
// the calendar untouched.
func (r *RentalGormRepository) UpsertDays(
	ctx context.Context,
	days []models.RentalCalendarDay,
	columns []string,
) error {
	if len(days) == 0 {
		return nil
	}

	update := append([]string{"updated_at"}, columns...)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "listing_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns(update),
			}).
			CreateInBatches(&days, calendarBatchSize).Error
	})
}

func (r *RentalGormRepository) ListDays(
	ctx context.Context,
	listingID uint,
	from string,
	to string,
) ([]models.RentalCalendarDay, error) {

	var days []models.RentalCalendarDay
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND date BETWEEN ? AND ?", listingID, from, to).
		Order("date ASC").
		Find(&days).Error

	return days, err
}
