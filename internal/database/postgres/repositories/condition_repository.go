package repositories

import (
	"context"
	"gorm.io/gorm"
	"takeoff-engine/internal/models"
)

type ConditionRepository struct {
	db *gorm.DB
}

func NewConditionRepository(db *gorm.DB) *ConditionRepository {
	return &ConditionRepository{db: db}
}

func (r *ConditionRepository) FindById(ctx context.Context, id uint) (*models.TakeoffCondition, error) {
	var condition models.TakeoffCondition
	err := r.db.WithContext(ctx).
		Preload("Materials").
		Preload("Materials.MaterialItem").
		Preload("CostCodes").
		Preload("PayRateTemplate").
		Preload("LineItems").
		Preload("LineItems.MaterialItem").
		First(&condition, id).Error
	if err != nil {
		return nil, err
	}
	return &condition, nil
}

func (r *ConditionRepository) FindByProject(ctx context.Context, projectID uint) ([]*models.TakeoffCondition, error) {
	var conditions []*models.TakeoffCondition
	err := r.db.WithContext(ctx).
		Preload("Materials").
		Preload("Materials.MaterialItem").
		Preload("CostCodes").
		Preload("PayRateTemplate").
		Where("project_id = ?", projectID).
		Order("name").
		Find(&conditions).Error
	return conditions, err
}

// ReplaceLineItems swaps a condition's detail grid rows in one
// transaction, preserving the submitted order.
func (r *ConditionRepository) ReplaceLineItems(ctx context.Context, conditionID uint, items []models.ConditionLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("condition_id = ?", conditionID).
			Delete(&models.ConditionLineItem{}).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].ID = 0
			items[i].ConditionID = conditionID
			items[i].SortOrder = i
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ConditionRepository) FindLineItems(ctx context.Context, conditionID uint) ([]models.ConditionLineItem, error) {
	var items []models.ConditionLineItem
	err := r.db.WithContext(ctx).
		Preload("MaterialItem").
		Where("condition_id = ?", conditionID).
		Order("sort_order").
		Find(&items).Error
	return items, err
}
