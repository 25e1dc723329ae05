package db

import (
	"github.com/zhenga8533/hsb-economy-api/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.CycleRun{},
		&models.ItemPriceSnapshot{},
	)
}
