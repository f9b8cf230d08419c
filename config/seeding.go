package config

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/models"
)

// SeedDemoCompany creates a demo tenant with an admin profile so a fresh
// install is usable immediately. Skips silently when the tenant exists.
func SeedDemoCompany(db *gorm.DB) error {
	var existing models.Company
	err := db.Where("subdomain = ?", "demo").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	company := models.Company{
		Name:      "Talya Roofing Demo",
		Subdomain: "demo",
		Theme: models.JSONMap{
			"primaryColor": "#1e3a5f",
			"accentColor":  "#e8821e",
			"darkMode":     false,
		},
		Settings: models.JSONMap{
			"timezone": "America/Chicago",
			"currency": "USD",
			"tax_rate": 0.0825,
			"phone":    os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		SubscriptionTier: models.SubscriptionTierPro,
	}
	if err := db.Create(&company).Error; err != nil {
		return err
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Profile{
		CompanyID:    company.ID,
		Email:        "admin@demo.talyaroofing.com",
		Name:         "Demo Admin",
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded demo company %s with admin %s", company.ID, admin.Email)
	return nil
}
