package models

import (
	"time"

	"takeoff-engine/internal/quantity"
)

type PricingMethod string

const (
	PricingMethodUnitRate PricingMethod = "unit_rate"
	PricingMethodBuildUp  PricingMethod = "build_up"
)

type LabourRateSource string

const (
	LabourRateSourceManual   LabourRateSource = "manual"
	LabourRateSourceTemplate LabourRateSource = "template"
)

type TakeoffCondition struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`

	ProjectID uint                     `gorm:"index;not null" json:"project_id"`
	Name      string                   `gorm:"not null" json:"name"`
	Type      quantity.MeasurementType `gorm:"not null" json:"type"`
	Color     string                   `json:"color"`

	PricingMethod PricingMethod `gorm:"not null;default:build_up" json:"pricing_method"`

	// Height converts linear unit-rate conditions from lm to m².
	Height *float64 `json:"height,omitempty"`

	LabourUnitRate    float64          `json:"labour_unit_rate"`
	LabourRateSource  LabourRateSource `json:"labour_rate_source"`
	ManualLabourRate  *float64         `json:"manual_labour_rate,omitempty"`
	PayRateTemplateID *uint            `json:"pay_rate_template_id,omitempty"`
	ProductionRate    *float64         `json:"production_rate,omitempty"`

	PayRateTemplate *PayRateTemplate    `gorm:"foreignKey:PayRateTemplateID" json:"pay_rate_template,omitempty"`
	Materials       []ConditionMaterial `gorm:"foreignKey:ConditionID" json:"materials,omitempty"`
	CostCodes       []ConditionCostCode `gorm:"foreignKey:ConditionID" json:"cost_codes,omitempty"`
	LineItems       []ConditionLineItem `gorm:"foreignKey:ConditionID" json:"line_items,omitempty"`
}

// UnitRateMultiplier converts the measured quantity into the priced
// quantity. Only linear unit-rate conditions with a height are scaled,
// turning lineal metres of wall into square metres.
func (c *TakeoffCondition) UnitRateMultiplier() float64 {
	if c.PricingMethod == PricingMethodUnitRate &&
		c.Type == quantity.TypeLinear &&
		c.Height != nil && *c.Height > 0 {
		return *c.Height
	}
	return 1.0
}

// EffectiveLabourRate resolves the hourly labour rate from the manual
// override or the linked pay rate template. Nil when neither is set.
func (c *TakeoffCondition) EffectiveLabourRate() *float64 {
	if c.LabourRateSource == LabourRateSourceManual {
		return c.ManualLabourRate
	}
	if c.PayRateTemplate != nil {
		rate := c.PayRateTemplate.HourlyRate
		return &rate
	}
	return nil
}

type ConditionMaterial struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	ConditionID uint `gorm:"index;not null" json:"condition_id"`

	MaterialItemID *uint         `json:"material_item_id,omitempty"`
	MaterialItem   *MaterialItem `gorm:"foreignKey:MaterialItemID" json:"material_item,omitempty"`

	Description string   `json:"description"`
	QtyPerUnit  float64  `json:"qty_per_unit"`
	WastePct    float64  `json:"waste_pct"`
	UnitCost    *float64 `json:"unit_cost,omitempty"`
}

// EffectiveUnitCost prefers the per-condition override, then the
// catalog item's effective cost.
func (cm *ConditionMaterial) EffectiveUnitCost() float64 {
	if cm.UnitCost != nil {
		return *cm.UnitCost
	}
	if cm.MaterialItem != nil {
		return cm.MaterialItem.EffectiveCost()
	}
	return 0
}

type ConditionCostCode struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	ConditionID uint `gorm:"index;not null" json:"condition_id"`

	Code        string  `json:"code"`
	Description string  `json:"description"`
	UnitRate    float64 `json:"unit_rate"`
}
