package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"metrofleet/analyst-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies schema changes for the service-owned database. The
// warehouse schema is managed elsewhere and is never migrated here.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Prediction{},
	); err != nil {
		return err
	}

	log.Info().Msg("database schema up to date")
	return nil
}
