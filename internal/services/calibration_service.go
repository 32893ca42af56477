package services

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"takeoff-engine/internal/calibration"
	"takeoff-engine/internal/database/postgres/repositories"
	"takeoff-engine/internal/models"
)

type CalibrationService struct {
	calibrationRepository *repositories.CalibrationRepository
	drawingRepository     *repositories.DrawingRepository
	measurementService    *MeasurementService
	logger                zerolog.Logger
}

func NewCalibrationService(
	calibrationRepository *repositories.CalibrationRepository,
	drawingRepository *repositories.DrawingRepository,
	measurementService *MeasurementService,
	logger zerolog.Logger,
) *CalibrationService {
	return &CalibrationService{
		calibrationRepository: calibrationRepository,
		drawingRepository:     drawingRepository,
		measurementService:    measurementService,
		logger:                logger,
	}
}

// Save computes and stores a drawing's scale, then recomputes every
// non-count measurement against the new calibration.
func (s *CalibrationService) Save(ctx context.Context, drawingID uint, in calibration.Input) (*models.ScaleCalibration, error) {
	drawing, err := s.drawingRepository.FindById(ctx, drawingID)
	if err != nil {
		return nil, fmt.Errorf("loading drawing: %w", err)
	}

	ppu, err := in.ComputePPU(drawing.PixelWidth, drawing.PixelHeight)
	if err != nil {
		return nil, fmt.Errorf("computing scale: %w", err)
	}

	cal := &models.ScaleCalibration{DrawingID: drawingID}
	cal.FromInput(in, ppu)

	if err := s.calibrationRepository.CreateOrUpdate(ctx, cal); err != nil {
		return nil, fmt.Errorf("saving calibration: %w", err)
	}

	drawing.Calibration = cal
	if err := s.measurementService.RecomputeForDrawing(ctx, drawing); err != nil {
		return nil, fmt.Errorf("recomputing measurements: %w", err)
	}

	s.logger.Info().
		Uint("drawing_id", drawingID).
		Str("method", string(in.Method)).
		Float64("pixels_per_unit", ppu).
		Msg("Calibration saved")

	return cal, nil
}

// Delete removes a drawing's calibration and nulls the computed
// values of its linear and area measurements.
func (s *CalibrationService) Delete(ctx context.Context, drawingID uint) error {
	if err := s.calibrationRepository.DeleteByDrawing(ctx, drawingID); err != nil {
		return fmt.Errorf("deleting calibration: %w", err)
	}

	drawing, err := s.drawingRepository.FindById(ctx, drawingID)
	if err != nil {
		return fmt.Errorf("loading drawing: %w", err)
	}
	drawing.Calibration = nil

	if err := s.measurementService.RecomputeForDrawing(ctx, drawing); err != nil {
		return fmt.Errorf("clearing measurements: %w", err)
	}

	s.logger.Info().
		Uint("drawing_id", drawingID).
		Msg("Calibration deleted")

	return nil
}
