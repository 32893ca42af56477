package repositories

import (
	"context"
	"gorm.io/gorm"
	"takeoff-engine/internal/models"
)

type DrawingRepository struct {
	db *gorm.DB
}

func NewDrawingRepository(db *gorm.DB) *DrawingRepository {
	return &DrawingRepository{db: db}
}

func (r *DrawingRepository) Create(ctx context.Context, drawing *models.Drawing) error {
	drawing.Prepare()
	return r.db.WithContext(ctx).Create(drawing).Error
}

func (r *DrawingRepository) FindById(ctx context.Context, id uint) (*models.Drawing, error) {
	var drawing models.Drawing
	err := r.db.WithContext(ctx).Preload("Calibration").First(&drawing, id).Error
	if err != nil {
		return nil, err
	}
	return &drawing, nil
}

func (r *DrawingRepository) FindByProject(ctx context.Context, projectID uint) ([]*models.Drawing, error) {
	var drawings []*models.Drawing
	err := r.db.WithContext(ctx).
		Preload("Calibration").
		Where("project_id = ?", projectID).
		Order("page_number").
		Find(&drawings).Error
	return drawings, err
}

func (r *DrawingRepository) UpdateQuantityMultiplier(ctx context.Context, id uint, multiplier float64) error {
	if multiplier <= 0 {
		multiplier = 1
	}
	return r.db.WithContext(ctx).Model(&models.Drawing{}).
		Where("id = ?", id).
		Update("quantity_multiplier", multiplier).Error
}
