package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/estate-viewings/internal/config"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

// viewingOverlapConstraint rejects a second active viewing of one broker
// whose [start_at, end_at) overlaps an active viewing on another property.
// Viewings of the same property share slot capacity and are checked in code.
const viewingOverlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'property_viewings_broker_no_overlap'
	) THEN
		ALTER TABLE property_viewings
			ADD CONSTRAINT property_viewings_broker_no_overlap
			EXCLUDE USING gist (
				broker_id WITH =,
				property_id WITH <>,
				tstzrange(start_at, end_at, '[)') WITH &&
			)
			WHERE (status IN ('scheduled', 'confirmed'));
	END IF;
END
$$;`

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

func Migrate(db *gorm.DB, defaultTimezone string) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&models.Broker{},
		&models.Property{},
		&models.PropertyBroker{},
		&models.AvailabilitySlot{},
		&models.BlockedTime{},
		&models.PropertyViewing{},
		&models.RentalListing{},
		&models.RentalCalendarDay{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if err := db.Exec(viewingOverlapConstraint).Error; err != nil {
		return err
	}

	return db.Exec(`
		UPDATE properties
		SET timezone = ?
		WHERE timezone IS NULL OR timezone = ''
	`, defaultTimezone).Error
}
