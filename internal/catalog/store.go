package catalog

import (
	"context"
	"fmt"

	"github.com/recoveryfit/corpreport/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreProducts upserts products by ID. Products absent from the
// payload are kept, since subscriptions and transactions may still
// reference them.
func StoreProducts(ctx context.Context, db *gorm.DB, products []models.Product) error {
	if db == nil {
		return fmt.Errorf("catalog: store products: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if len(products) == 0 {
		return nil
	}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "updated_at"}),
	}).Create(&products).Error; err != nil {
		return fmt.Errorf("catalog: store products: upsert: %w", err)
	}
	return nil
}
