package db

import (
	"fmt"

	"github.com/recoveryfit/corpreport/internal/models"
	"gorm.io/gorm"
)

// Migrate runs schema migrations for the reporting tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.Admin{},
		&models.Product{},
		&models.User{},
		&models.CorporateAccount{},
		&models.Subscription{},
		&models.Transaction{},
		&models.UserAttribute{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	return nil
}
