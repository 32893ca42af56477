package services

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"takeoff-engine/internal/database/postgres/repositories"
	"takeoff-engine/internal/models"
)

type CatalogService struct {
	catalogRepository *repositories.CatalogRepository
	logger            zerolog.Logger
}

func NewCatalogService(
	catalogRepository *repositories.CatalogRepository,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		catalogRepository: catalogRepository,
		logger:            logger,
	}
}

// SearchMaterials looks up catalog materials and resolves each item's
// effective unit cost for the given location.
func (s *CatalogService) SearchMaterials(ctx context.Context, query string, locationID uint, limit int) ([]*models.MaterialItem, error) {
	items, err := s.catalogRepository.SearchMaterials(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching materials: %w", err)
	}

	for _, item := range items {
		item.ResolveEffectiveCost(locationID)
	}
	return items, nil
}

func (s *CatalogService) SearchLabourCodes(ctx context.Context, query string, limit int) ([]*models.LabourCostCode, error) {
	codes, err := s.catalogRepository.SearchLabourCodes(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching labour codes: %w", err)
	}
	return codes, nil
}

// MaterialLineItem builds a grid row pre-filled from a catalog pick.
func (s *CatalogService) MaterialLineItem(ctx context.Context, materialID, locationID uint) (*models.ConditionLineItem, error) {
	item, err := s.catalogRepository.FindMaterialById(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("loading material %d: %w", materialID, err)
	}
	item.ResolveEffectiveCost(locationID)

	line := &models.ConditionLineItem{
		QtySource: models.QtySourcePrimary,
		Layers:    1,
	}
	line.ApplyMaterialDefaults(item)
	return line, nil
}

// LabourLineItem builds a grid row pre-filled from a labour cost code.
func (s *CatalogService) LabourLineItem(ctx context.Context, codeID uint) (*models.ConditionLineItem, error) {
	code, err := s.catalogRepository.FindLabourCodeById(ctx, codeID)
	if err != nil {
		return nil, fmt.Errorf("loading labour code %d: %w", codeID, err)
	}

	line := &models.ConditionLineItem{
		QtySource: models.QtySourcePrimary,
		Layers:    1,
	}
	line.ApplyLabourDefaults(code)
	return line, nil
}
