package pricing

import (
	"math"

	"takeoff-engine/internal/models"
)

// LineQuantity derives a line item's effective quantity from the
// condition's primary and secondary quantities. On-centre spacing
// divides, layers and waste multiply.
func LineQuantity(item models.ConditionLineItem, primaryQty, secondaryQty float64) float64 {
	var baseQty float64
	switch item.QtySource {
	case models.QtySourceSecondary:
		baseQty = secondaryQty
	case models.QtySourceFixed:
		baseQty = item.FixedQty
	default:
		baseQty = primaryQty
	}
	if baseQty <= 0 {
		return 0
	}

	layers := item.Layers
	if layers < 1 {
		layers = 1
	}

	var qty float64
	if item.OCSpacing > 0 {
		qty = (baseQty / item.OCSpacing) * layers
	} else {
		qty = baseQty * layers
	}

	return qty * (1 + item.WastePct/100)
}

// LineMaterialCost prices a material line at its effective quantity.
// Catalog-sourced lines use the item's location-resolved cost; pack
// sizes round the purchased quantity up to whole packs.
func LineMaterialCost(item models.ConditionLineItem, effectiveQty float64) float64 {
	unitCost := item.UnitCost
	if item.CostSource == models.CostSourceMaterial && item.MaterialItem != nil {
		unitCost = item.MaterialItem.EffectiveCost()
	}
	if unitCost <= 0 || effectiveQty <= 0 {
		return 0
	}

	if item.PackSize > 0 {
		packs := math.Ceil(effectiveQty / item.PackSize)
		return packs * unitCost
	}
	return effectiveQty * unitCost
}

// LineLabourCost prices a labour line. Both the hourly rate and the
// production rate must be positive, otherwise the line costs nothing.
func LineLabourCost(item models.ConditionLineItem, effectiveQty float64) float64 {
	if item.HourlyRate <= 0 || item.ProductionRate <= 0 || effectiveQty <= 0 {
		return 0
	}
	hours := effectiveQty / item.ProductionRate
	return hours * item.HourlyRate
}

// LineCost is a fully priced grid row.
type LineCost struct {
	EffectiveQty float64 `json:"effective_qty"`
	MaterialCost float64 `json:"material_cost"`
	LabourCost   float64 `json:"labour_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// ComputeLineCost prices one line item against condition quantities.
func ComputeLineCost(item models.ConditionLineItem, primaryQty, secondaryQty float64) LineCost {
	effQty := LineQuantity(item, primaryQty, secondaryQty)

	cost := LineCost{EffectiveQty: effQty}
	switch item.ItemType {
	case models.LineItemMaterial:
		cost.MaterialCost = LineMaterialCost(item, effQty)
	case models.LineItemLabour:
		cost.LabourCost = LineLabourCost(item, effQty)
	}
	cost.TotalCost = cost.MaterialCost + cost.LabourCost
	return cost
}

// HourlyRateFromCostPerUnit back-calculates an hourly rate from a
// target cost per unit. A missing production rate is treated as 1 so
// the rate equals the cost per unit.
func HourlyRateFromCostPerUnit(costPerUnit, productionRate float64) float64 {
	if productionRate <= 0 {
		productionRate = 1
	}
	return costPerUnit * productionRate
}
