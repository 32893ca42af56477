package repositories

import (
	"context"
	"gorm.io/gorm"
	"takeoff-engine/internal/models"
)

type MeasurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

func (r *MeasurementRepository) Create(ctx context.Context, measurement *models.Measurement) error {
	return r.db.WithContext(ctx).Create(measurement).Error
}

func (r *MeasurementRepository) Update(ctx context.Context, measurement *models.Measurement) error {
	return r.db.WithContext(ctx).Save(measurement).Error
}

func (r *MeasurementRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Measurement{}, id).Error
}

func (r *MeasurementRepository) FindById(ctx context.Context, id uint) (*models.Measurement, error) {
	var measurement models.Measurement
	err := r.db.WithContext(ctx).
		Preload("Condition").
		Preload("Condition.Materials").
		Preload("Condition.Materials.MaterialItem").
		Preload("Condition.CostCodes").
		Preload("Condition.PayRateTemplate").
		First(&measurement, id).Error
	if err != nil {
		return nil, err
	}
	return &measurement, nil
}

func (r *MeasurementRepository) FindByDrawing(ctx context.Context, drawingID uint) ([]*models.Measurement, error) {
	var measurements []*models.Measurement
	err := r.db.WithContext(ctx).
		Preload("Condition").
		Preload("Condition.Materials").
		Preload("Condition.Materials.MaterialItem").
		Preload("Condition.CostCodes").
		Preload("Condition.PayRateTemplate").
		Where("drawing_id = ?", drawingID).
		Order("id").
		Find(&measurements).Error
	return measurements, err
}

func (r *MeasurementRepository) FindByCondition(ctx context.Context, conditionID uint) ([]*models.Measurement, error) {
	var measurements []*models.Measurement
	err := r.db.WithContext(ctx).
		Where("condition_id = ?", conditionID).
		Order("id").
		Find(&measurements).Error
	return measurements, err
}

// UpdateBatch writes a set of recomputed measurements in one
// transaction so a recalibration applies atomically.
func (r *MeasurementRepository) UpdateBatch(ctx context.Context, measurements []*models.Measurement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range measurements {
			if err := tx.Save(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
