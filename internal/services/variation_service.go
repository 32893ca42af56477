package services

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"takeoff-engine/internal/database/postgres/repositories"
	"takeoff-engine/internal/models"
	"takeoff-engine/internal/pricing"
	"takeoff-engine/internal/quantity"
)

type VariationService struct {
	conditionRepository *repositories.ConditionRepository
	variationRepository *repositories.VariationRepository
	logger              zerolog.Logger
}

func NewVariationService(
	conditionRepository *repositories.ConditionRepository,
	variationRepository *repositories.VariationRepository,
	logger zerolog.Logger,
) *VariationService {
	return &VariationService{
		conditionRepository: conditionRepository,
		variationRepository: variationRepository,
		logger:              logger,
	}
}

type PreviewRequestItem struct {
	ConditionID uint    `json:"condition_id"`
	Quantity    float64 `json:"quantity"`
}

type PreviewItem struct {
	ConditionID   uint                   `json:"condition_id"`
	ConditionName string                 `json:"condition_name"`
	Quantity      float64                `json:"quantity"`
	Costs         pricing.VariationCosts `json:"costs"`
}

type PreviewResult struct {
	Items        []PreviewItem `json:"items"`
	MaterialCost float64       `json:"material_cost"`
	LabourCost   float64       `json:"labour_cost"`
	TotalCost    float64       `json:"total_cost"`
}

// Preview prices caller-supplied quantities against existing
// conditions. No measurements are created or modified.
func (s *VariationService) Preview(ctx context.Context, items []PreviewRequestItem) (*PreviewResult, error) {
	result := &PreviewResult{}

	for _, req := range items {
		condition, err := s.conditionRepository.FindById(ctx, req.ConditionID)
		if err != nil {
			return nil, fmt.Errorf("loading condition %d: %w", req.ConditionID, err)
		}

		costs := pricing.VariationPreview(condition, req.Quantity)
		result.Items = append(result.Items, PreviewItem{
			ConditionID:   condition.ID,
			ConditionName: condition.Name,
			Quantity:      req.Quantity,
			Costs:         costs,
		})

		result.MaterialCost += costs.MaterialCost
		result.LabourCost += costs.LabourCost
	}

	result.MaterialCost = quantity.RoundTo(result.MaterialCost, 2)
	result.LabourCost = quantity.RoundTo(result.LabourCost, 2)
	result.TotalCost = quantity.RoundTo(result.MaterialCost+result.LabourCost, 2)

	s.logger.Debug().
		Int("items", len(result.Items)).
		Float64("total_cost", result.TotalCost).
		Msg("Variation preview computed")

	return result, nil
}

// PreviewSaved prices a stored variation's items.
func (s *VariationService) PreviewSaved(ctx context.Context, variationID uint) (*PreviewResult, error) {
	variation, err := s.variationRepository.FindById(ctx, variationID)
	if err != nil {
		return nil, fmt.Errorf("loading variation %d: %w", variationID, err)
	}

	items := make([]PreviewRequestItem, 0, len(variation.Items))
	for _, item := range variation.Items {
		items = append(items, PreviewRequestItem{
			ConditionID: item.ConditionID,
			Quantity:    item.Quantity,
		})
	}

	return s.Preview(ctx, items)
}

// SaveDraft stores the requested quantities as a draft variation so
// the preview can be re-run later without resubmitting them.
func (s *VariationService) SaveDraft(ctx context.Context, variation *models.Variation, items []PreviewRequestItem) error {
	variation.Items = variation.Items[:0]
	for _, item := range items {
		variation.Items = append(variation.Items, models.VariationItem{
			ConditionID: item.ConditionID,
			Quantity:    item.Quantity,
		})
	}

	if err := s.variationRepository.SaveDraft(ctx, variation); err != nil {
		return fmt.Errorf("saving variation: %w", err)
	}

	s.logger.Info().
		Uint("variation_id", variation.ID).
		Int("items", len(variation.Items)).
		Msg("Variation draft saved")
	return nil
}
