package database

import (
	"fmt"

	"gorm.io/gorm"

	"branhox/internal/models"
)

// SeedMissingSettings creates the default option lists for every business
// that has no settings row and returns how many rows were created.
func SeedMissingSettings(db *gorm.DB) (int, error) {
	var ids []string
	if err := db.Model(&models.Business{}).
		Where("id NOT IN (?)", db.Model(&models.TenantSettings{}).Select("business_id")).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to find businesses without settings: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rows := make([]*models.TenantSettings, len(ids))
	for i, id := range ids {
		rows[i] = models.DefaultSettings(id)
	}
	if err := db.CreateInBatches(rows, 100).Error; err != nil {
		return 0, fmt.Errorf("failed to seed settings: %w", err)
	}
	return len(rows), nil
}
