package repositories

import (
	"context"
	"gorm.io/gorm"
	"takeoff-engine/internal/models"
)

type VariationRepository struct {
	db *gorm.DB
}

func NewVariationRepository(db *gorm.DB) *VariationRepository {
	return &VariationRepository{db: db}
}

func (r *VariationRepository) FindById(ctx context.Context, id uint) (*models.Variation, error) {
	var variation models.Variation
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&variation, id).Error
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

// SaveDraft persists a variation and its items in one transaction,
// replacing the item set when the variation already exists.
func (r *VariationRepository) SaveDraft(ctx context.Context, variation *models.Variation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := variation.Items
		variation.Items = nil

		if err := tx.Save(variation).Error; err != nil {
			return err
		}

		if err := tx.Where("variation_id = ?", variation.ID).
			Delete(&models.VariationItem{}).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].ID = 0
			items[i].VariationID = variation.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		variation.Items = items
		return nil
	})
}
