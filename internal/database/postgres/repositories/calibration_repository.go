package repositories

import (
	"context"
	"errors"
	"gorm.io/gorm"
	"takeoff-engine/internal/models"
)

type CalibrationRepository struct {
	db *gorm.DB
}

func NewCalibrationRepository(db *gorm.DB) *CalibrationRepository {
	return &CalibrationRepository{db: db}
}

func (r *CalibrationRepository) CreateOrUpdate(ctx context.Context, cal *models.ScaleCalibration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ScaleCalibration
		result := tx.Where("drawing_id = ?", cal.DrawingID).First(&existing)

		if result.Error == nil {
			cal.ID = existing.ID
			cal.CreatedAt = existing.CreatedAt
			return tx.Save(cal).Error

		} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return tx.Create(cal).Error

		} else {
			return result.Error
		}
	})
}

func (r *CalibrationRepository) FindByDrawing(ctx context.Context, drawingID uint) (*models.ScaleCalibration, error) {
	var cal models.ScaleCalibration
	err := r.db.WithContext(ctx).Where("drawing_id = ?", drawingID).First(&cal).Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *CalibrationRepository) DeleteByDrawing(ctx context.Context, drawingID uint) error {
	return r.db.WithContext(ctx).
		Where("drawing_id = ?", drawingID).
		Delete(&models.ScaleCalibration{}).Error
}
