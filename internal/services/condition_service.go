package services

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"takeoff-engine/internal/database/postgres/repositories"
	"takeoff-engine/internal/models"
	"takeoff-engine/internal/pricing"
)

type ConditionService struct {
	conditionRepository   *repositories.ConditionRepository
	measurementRepository *repositories.MeasurementRepository
	drawingRepository     *repositories.DrawingRepository
	logger                zerolog.Logger
}

func NewConditionService(
	conditionRepository *repositories.ConditionRepository,
	measurementRepository *repositories.MeasurementRepository,
	drawingRepository *repositories.DrawingRepository,
	logger zerolog.Logger,
) *ConditionService {
	return &ConditionService{
		conditionRepository:   conditionRepository,
		measurementRepository: measurementRepository,
		drawingRepository:     drawingRepository,
		logger:                logger,
	}
}

// Quantities aggregates a condition's measured quantities. Deduction
// measurements subtract from the total, and each drawing's quantity
// multiplier scales its contribution.
func (s *ConditionService) Quantities(ctx context.Context, conditionID uint) (primary, secondary float64, err error) {
	measurements, err := s.measurementRepository.FindByCondition(ctx, conditionID)
	if err != nil {
		return 0, 0, fmt.Errorf("loading condition measurements: %w", err)
	}

	multipliers := make(map[uint]float64)
	multiplierFor := func(drawingID uint) float64 {
		if m, ok := multipliers[drawingID]; ok {
			return m
		}
		multiplier := 1.0
		drawing, err := s.drawingRepository.FindById(ctx, drawingID)
		if err != nil {
			s.logger.Warn().Err(err).
				Uint("drawing_id", drawingID).
				Msg("Missing drawing for quantity aggregation")
		} else if drawing.QuantityMultiplier > 0 {
			multiplier = drawing.QuantityMultiplier
		}
		multipliers[drawingID] = multiplier
		return multiplier
	}

	for _, m := range measurements {
		multiplier := multiplierFor(m.DrawingID)
		sign := 1.0
		if m.IsDeduction() {
			sign = -1
		}
		if m.ComputedValue != nil {
			primary += sign * *m.ComputedValue * multiplier
		}
		if m.SecondaryValue != nil {
			secondary += sign * *m.SecondaryValue * multiplier
		}
	}

	if primary < 0 {
		primary = 0
	}
	if secondary < 0 {
		secondary = 0
	}
	return primary, secondary, nil
}

// Grid prices a condition's detail grid against its aggregated
// quantities.
func (s *ConditionService) Grid(ctx context.Context, conditionID uint) (*pricing.Grid, error) {
	items, err := s.conditionRepository.FindLineItems(ctx, conditionID)
	if err != nil {
		return nil, fmt.Errorf("loading line items: %w", err)
	}

	primary, secondary, err := s.Quantities(ctx, conditionID)
	if err != nil {
		return nil, err
	}

	grid := pricing.AggregateGrid(items, primary, secondary)
	return &grid, nil
}

// SaveLineItems replaces a condition's detail grid.
func (s *ConditionService) SaveLineItems(ctx context.Context, conditionID uint, items []models.ConditionLineItem) error {
	if _, err := s.conditionRepository.FindById(ctx, conditionID); err != nil {
		return fmt.Errorf("loading condition: %w", err)
	}

	applyLabourRates(items)

	if err := s.conditionRepository.ReplaceLineItems(ctx, conditionID, items); err != nil {
		return fmt.Errorf("replacing line items: %w", err)
	}

	s.logger.Info().
		Uint("condition_id", conditionID).
		Int("count", len(items)).
		Msg("Condition line items saved")

	return nil
}

// applyLabourRates back-calculates hourly rates for labour lines
// entered as a cost per measured unit. The grid accepts either
// figure; the hourly rate is what gets priced.
func applyLabourRates(items []models.ConditionLineItem) {
	for i := range items {
		if items[i].ItemType != models.LineItemLabour || items[i].CostPerUnit <= 0 {
			continue
		}
		items[i].HourlyRate = pricing.HourlyRateFromCostPerUnit(items[i].CostPerUnit, items[i].ProductionRate)
		if items[i].ProductionRate <= 0 {
			items[i].ProductionRate = 1
		}
	}
}
