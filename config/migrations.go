package config

import (
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/models"
)

// Migrations auto-migrates the CRM schema. Order matters: parents before
// the rows that reference them.
func Migrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.Profile{},
		&models.Customer{},
		&models.Project{},
		&models.Photo{},
		&models.Measurement{},
		&models.Estimate{},
		&models.Contract{},
		&models.Communication{},
		&models.ChatMessage{},
		&models.ActivityLog{},
		&models.Notification{},
	)
}
