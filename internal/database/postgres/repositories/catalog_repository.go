package repositories

import (
	"context"
	"gorm.io/gorm"
	"takeoff-engine/internal/models"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) FindMaterialById(ctx context.Context, id uint) (*models.MaterialItem, error) {
	var item models.MaterialItem
	err := r.db.WithContext(ctx).Preload("PriceOverrides").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SearchMaterials matches by code prefix or description substring.
func (r *CatalogRepository) SearchMaterials(ctx context.Context, query string, limit int) ([]*models.MaterialItem, error) {
	if limit <= 0 {
		limit = 20
	}
	var items []*models.MaterialItem
	err := r.db.WithContext(ctx).
		Preload("PriceOverrides").
		Where("code ILIKE ? OR description ILIKE ?", query+"%", "%"+query+"%").
		Order("code").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *CatalogRepository) FindLabourCodeById(ctx context.Context, id uint) (*models.LabourCostCode, error) {
	var code models.LabourCostCode
	err := r.db.WithContext(ctx).First(&code, id).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *CatalogRepository) SearchLabourCodes(ctx context.Context, query string, limit int) ([]*models.LabourCostCode, error) {
	if limit <= 0 {
		limit = 20
	}
	var codes []*models.LabourCostCode
	err := r.db.WithContext(ctx).
		Where("code ILIKE ? OR description ILIKE ?", query+"%", "%"+query+"%").
		Order("code").
		Limit(limit).
		Find(&codes).Error
	return codes, err
}
