package pricing

import (
	"fmt"

	"takeoff-engine/internal/models"
)

// BreakdownKind labels a variation breakdown row.
type BreakdownKind string

const (
	BreakdownMaterial BreakdownKind = "material"
	BreakdownLabour   BreakdownKind = "labour"
)

// BreakdownLine is one priced component of a variation preview.
type BreakdownLine struct {
	Kind        BreakdownKind `json:"kind"`
	Code        string        `json:"code,omitempty"`
	Description string        `json:"description"`
	Quantity    float64       `json:"quantity"`
	Rate        float64       `json:"rate"`
	Cost        float64       `json:"cost"`
}

// VariationCosts is the priced preview of one variation item.
type VariationCosts struct {
	Costs
	Breakdown []BreakdownLine `json:"breakdown"`
}

// VariationPreview prices a caller-supplied quantity against a
// condition using its pricing method, without touching measurements.
func VariationPreview(cond *models.TakeoffCondition, qty float64) VariationCosts {
	if cond == nil {
		return VariationCosts{}
	}
	if cond.PricingMethod == models.PricingMethodUnitRate {
		return unitRatePreview(cond, qty)
	}
	return buildUpPreview(cond, qty)
}

func unitRatePreview(cond *models.TakeoffCondition, qty float64) VariationCosts {
	effQty := qty * cond.UnitRateMultiplier()
	out := VariationCosts{}

	labour := effQty * cond.LabourUnitRate
	if cond.LabourUnitRate != 0 {
		out.Breakdown = append(out.Breakdown, BreakdownLine{
			Kind:        BreakdownLabour,
			Description: "Labour unit rate",
			Quantity:    effQty,
			Rate:        cond.LabourUnitRate,
			Cost:        round2(labour),
		})
	}

	var material float64
	for _, cc := range cond.CostCodes {
		cost := effQty * cc.UnitRate
		material += cost
		out.Breakdown = append(out.Breakdown, BreakdownLine{
			Kind:        BreakdownMaterial,
			Code:        cc.Code,
			Description: cc.Description,
			Quantity:    effQty,
			Rate:        cc.UnitRate,
			Cost:        round2(cost),
		})
	}

	out.MaterialCost = round2(material)
	out.LabourCost = round2(labour)
	out.TotalCost = round2(out.MaterialCost + out.LabourCost)
	return out
}

func buildUpPreview(cond *models.TakeoffCondition, qty float64) VariationCosts {
	out := VariationCosts{}

	labour := buildUpLabour(cond, qty)
	if labour > 0 {
		rate := cond.EffectiveLabourRate()
		out.Breakdown = append(out.Breakdown, BreakdownLine{
			Kind:        BreakdownLabour,
			Description: fmt.Sprintf("Labour at %.2f/hr", *rate),
			Quantity:    qty,
			Rate:        *rate,
			Cost:        round2(labour),
		})
	}

	var material float64
	for _, cm := range cond.Materials {
		unitCost := cm.EffectiveUnitCost()
		cost := cm.QtyPerUnit * (1 + cm.WastePct/100) * unitCost * qty
		material += cost
		out.Breakdown = append(out.Breakdown, BreakdownLine{
			Kind:        BreakdownMaterial,
			Description: materialDescription(cm),
			Quantity:    cm.QtyPerUnit * (1 + cm.WastePct/100) * qty,
			Rate:        unitCost,
			Cost:        round2(cost),
		})
	}

	out.MaterialCost = round2(material)
	out.LabourCost = round2(labour)
	out.TotalCost = round2(out.MaterialCost + out.LabourCost)
	return out
}

func materialDescription(cm models.ConditionMaterial) string {
	if cm.Description != "" {
		return cm.Description
	}
	if cm.MaterialItem != nil {
		return cm.MaterialItem.Description
	}
	return "Material"
}
