package services

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"takeoff-engine/internal/capture"
	"takeoff-engine/internal/database/influx"
	"takeoff-engine/internal/database/postgres/repositories"
	"takeoff-engine/internal/geometry"
	"takeoff-engine/internal/models"
	"takeoff-engine/internal/pricing"
	"takeoff-engine/internal/quantity"
)

type MeasurementService struct {
	measurementRepository *repositories.MeasurementRepository
	drawingRepository     *repositories.DrawingRepository
	historyWriter         *influx.HistoryWriter
	logger                zerolog.Logger
}

func NewMeasurementService(
	measurementRepository *repositories.MeasurementRepository,
	drawingRepository *repositories.DrawingRepository,
	historyWriter *influx.HistoryWriter,
	logger zerolog.Logger,
) *MeasurementService {
	return &MeasurementService{
		measurementRepository: measurementRepository,
		drawingRepository:     drawingRepository,
		historyWriter:         historyWriter,
		logger:                logger,
	}
}

// CreateFromShape persists a committed capture shape as a measurement.
// Linear and area shapes on an uncalibrated drawing are stored with
// nil computed values and picked up by the recalibration recompute.
func (s *MeasurementService) CreateFromShape(ctx context.Context, drawing *models.Drawing, shape capture.Shape) (*models.Measurement, error) {
	measurement := &models.Measurement{
		DrawingID: drawing.ID,
		Type:      shape.Type,
		Points:    shape.Points,
	}

	if err := measurement.Validate(); err != nil {
		return nil, fmt.Errorf("invalid measurement: %w", err)
	}

	ppu := drawing.PixelsPerUnit()
	if shape.Type == quantity.TypeCount || ppu > 0 {
		res, err := quantity.Compute(shape.Type, shape.Points, drawing.PixelWidth, drawing.PixelHeight, ppu, drawing.Unit())
		if err != nil {
			return nil, fmt.Errorf("computing quantity: %w", err)
		}
		measurement.ApplyQuantity(res)
	}

	if err := s.measurementRepository.Create(ctx, measurement); err != nil {
		return nil, fmt.Errorf("saving measurement: %w", err)
	}

	if err := s.historyWriter.WriteMeasurement(ctx, measurement); err != nil {
		s.logger.Error().Err(err).
			Uint("measurement_id", measurement.ID).
			Msg("Failed to write measurement history")
	}

	s.logger.Info().
		Uint("measurement_id", measurement.ID).
		Uint("drawing_id", drawing.ID).
		Str("type", string(shape.Type)).
		Msg("Measurement created from capture")

	return measurement, nil
}

// RecomputeForDrawing recalculates every non-count measurement of a
// drawing against its current calibration, including costs.
func (s *MeasurementService) RecomputeForDrawing(ctx context.Context, drawing *models.Drawing) error {
	measurements, err := s.measurementRepository.FindByDrawing(ctx, drawing.ID)
	if err != nil {
		return fmt.Errorf("loading measurements: %w", err)
	}

	ppu := drawing.PixelsPerUnit()
	unit := drawing.Unit()

	changed := make([]*models.Measurement, 0, len(measurements))
	for _, m := range measurements {
		if m.Type == quantity.TypeCount {
			continue
		}

		if ppu <= 0 {
			m.ClearQuantity()
		} else {
			res, err := quantity.Compute(m.Type, m.Points, drawing.PixelWidth, drawing.PixelHeight, ppu, unit)
			if err != nil {
				s.logger.Warn().Err(err).
					Uint("measurement_id", m.ID).
					Msg("Skipping measurement during recompute")
				continue
			}
			m.ApplyQuantity(res)
		}

		costs := pricing.MeasurementCosts(m.Condition, m.ComputedValue)
		m.MaterialCost = costs.MaterialCost
		m.LabourCost = costs.LabourCost
		m.TotalCost = costs.TotalCost

		changed = append(changed, m)
	}

	if len(changed) == 0 {
		return nil
	}

	if err := s.measurementRepository.UpdateBatch(ctx, changed); err != nil {
		return fmt.Errorf("updating measurements: %w", err)
	}

	if err := s.historyWriter.WriteBatch(ctx, changed); err != nil {
		s.logger.Error().Err(err).
			Uint("drawing_id", drawing.ID).
			Msg("Failed to write recompute history")
	}

	s.logger.Info().
		Uint("drawing_id", drawing.ID).
		Int("count", len(changed)).
		Msg("Measurements recomputed")

	return nil
}

// RecalculateCosts reprices every condition-tagged measurement of a
// drawing without touching quantities.
func (s *MeasurementService) RecalculateCosts(ctx context.Context, drawingID uint) error {
	measurements, err := s.measurementRepository.FindByDrawing(ctx, drawingID)
	if err != nil {
		return fmt.Errorf("loading measurements: %w", err)
	}

	changed := make([]*models.Measurement, 0, len(measurements))
	for _, m := range measurements {
		if m.ConditionID == nil {
			continue
		}

		costs := pricing.MeasurementCosts(m.Condition, m.ComputedValue)
		if costs.MaterialCost == m.MaterialCost &&
			costs.LabourCost == m.LabourCost &&
			costs.TotalCost == m.TotalCost {
			continue
		}

		m.MaterialCost = costs.MaterialCost
		m.LabourCost = costs.LabourCost
		m.TotalCost = costs.TotalCost
		changed = append(changed, m)
	}

	if len(changed) == 0 {
		return nil
	}

	if err := s.measurementRepository.UpdateBatch(ctx, changed); err != nil {
		return fmt.Errorf("updating measurement costs: %w", err)
	}

	if err := s.historyWriter.WriteBatch(ctx, changed); err != nil {
		s.logger.Error().Err(err).
			Uint("drawing_id", drawingID).
			Msg("Failed to write cost history")
	}

	return nil
}

// SnapCandidates collects endpoints and midpoints of a drawing's saved
// measurements for cursor snapping.
func (s *MeasurementService) SnapCandidates(ctx context.Context, drawingID uint) ([]geometry.Point, error) {
	measurements, err := s.measurementRepository.FindByDrawing(ctx, drawingID)
	if err != nil {
		return nil, fmt.Errorf("loading measurements: %w", err)
	}

	var candidates []geometry.Point
	for _, m := range measurements {
		points := []geometry.Point(m.Points)
		candidates = append(candidates, points...)
		for i := 1; i < len(points); i++ {
			candidates = append(candidates, geometry.Midpoint(points[i-1], points[i]))
		}
	}
	return candidates, nil
}
