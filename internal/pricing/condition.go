package pricing

import (
	"takeoff-engine/internal/models"
	"takeoff-engine/internal/quantity"
)

// Costs is a measurement's priced result, rounded to cents.
type Costs struct {
	MaterialCost float64 `json:"material_cost"`
	LabourCost   float64 `json:"labour_cost"`
	TotalCost    float64 `json:"total_cost"`
}

func round2(v float64) float64 {
	return quantity.RoundTo(v, 2)
}

// MeasurementCosts prices a measured quantity against its condition.
// Measurements without a condition or without a computed value cost
// nothing. Missing rates degrade to zero cost rather than erroring.
func MeasurementCosts(cond *models.TakeoffCondition, computedValue *float64) Costs {
	if cond == nil || computedValue == nil {
		return Costs{}
	}
	value := *computedValue

	var material, labour float64
	switch cond.PricingMethod {
	case models.PricingMethodUnitRate:
		effQty := value * cond.UnitRateMultiplier()
		for _, cc := range cond.CostCodes {
			material += effQty * cc.UnitRate
		}
		labour = effQty * cond.LabourUnitRate

	default:
		for _, cm := range cond.Materials {
			material += cm.QtyPerUnit * (1 + cm.WastePct/100) * value * cm.EffectiveUnitCost()
		}
		labour = buildUpLabour(cond, value)
	}

	material = round2(material)
	labour = round2(labour)
	return Costs{
		MaterialCost: material,
		LabourCost:   labour,
		TotalCost:    round2(material + labour),
	}
}

// buildUpLabour prices labour as hours at the effective rate. Both
// the production rate and the rate itself must be positive.
func buildUpLabour(cond *models.TakeoffCondition, qty float64) float64 {
	rate := cond.EffectiveLabourRate()
	if rate == nil || *rate <= 0 {
		return 0
	}
	if cond.ProductionRate == nil || *cond.ProductionRate <= 0 {
		return 0
	}
	return qty / *cond.ProductionRate * *rate
}
