package models

import (
	"fmt"
	"time"

	"takeoff-engine/internal/quantity"
)

type Measurement struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`

	DrawingID           uint  `gorm:"index;not null" json:"drawing_id"`
	ConditionID         *uint `gorm:"index" json:"condition_id,omitempty"`
	ParentMeasurementID *uint `gorm:"index" json:"parent_measurement_id,omitempty"`

	Name   string                   `json:"name"`
	Type   quantity.MeasurementType `gorm:"not null" json:"type"`
	Points PointList                `gorm:"type:jsonb;not null" json:"points"`

	ComputedValue  *float64 `json:"computed_value"`
	Unit           *string  `json:"unit"`
	SecondaryValue *float64 `json:"secondary_value,omitempty"`
	SecondaryUnit  *string  `json:"secondary_unit,omitempty"`

	MaterialCost float64 `json:"material_cost"`
	LabourCost   float64 `json:"labour_cost"`
	TotalCost    float64 `json:"total_cost"`

	Condition *TakeoffCondition `gorm:"foreignKey:ConditionID" json:"condition,omitempty"`
}

// IsDeduction reports whether this measurement subtracts from a parent
// instead of contributing on its own.
func (m *Measurement) IsDeduction() bool {
	return m.ParentMeasurementID != nil
}

func (m *Measurement) Validate() error {
	if m.DrawingID == 0 {
		return fmt.Errorf("drawing_id is required")
	}
	if m.Type == "" {
		return fmt.Errorf("type is required")
	}
	if min := quantity.MinPoints(m.Type); len(m.Points) < min {
		return fmt.Errorf("%s measurement needs at least %d points, got %d", m.Type, min, len(m.Points))
	}
	return nil
}

// ApplyQuantity stores a computed quantity on the measurement.
func (m *Measurement) ApplyQuantity(res quantity.Result) {
	value := res.Value
	unit := res.Unit
	m.ComputedValue = &value
	m.Unit = &unit
	m.SecondaryValue = res.Secondary
	if res.SecondaryUnit != "" {
		secondaryUnit := res.SecondaryUnit
		m.SecondaryUnit = &secondaryUnit
	} else {
		m.SecondaryUnit = nil
	}
}

// ClearQuantity nulls the computed fields, used when a calibration is
// removed. Counts keep their value since they never needed a scale.
func (m *Measurement) ClearQuantity() {
	if m.Type == quantity.TypeCount {
		return
	}
	m.ComputedValue = nil
	m.Unit = nil
	m.SecondaryValue = nil
	m.SecondaryUnit = nil
}

func (m *Measurement) ToInfluxTags() map[string]string {
	tags := map[string]string{
		"drawing_id": fmt.Sprintf("%d", m.DrawingID),
		"type":       string(m.Type),
	}
	if m.Unit != nil {
		tags["unit"] = *m.Unit
	}
	if m.ConditionID != nil {
		tags["condition_id"] = fmt.Sprintf("%d", *m.ConditionID)
	}
	return tags
}

func (m *Measurement) ToInfluxFields() map[string]interface{} {
	fields := map[string]interface{}{
		"material_cost": m.MaterialCost,
		"labour_cost":   m.LabourCost,
		"total_cost":    m.TotalCost,
	}
	if m.ComputedValue != nil {
		fields["value"] = *m.ComputedValue
	}
	if m.SecondaryValue != nil {
		fields["secondary_value"] = *m.SecondaryValue
	}
	return fields
}

type MeasurementDto struct {
	ID                  uint                     `json:"id"`
	DrawingID           uint                     `json:"drawing_id"`
	ConditionID         *uint                    `json:"condition_id,omitempty"`
	ParentMeasurementID *uint                    `json:"parent_measurement_id,omitempty"`
	Name                string                   `json:"name"`
	Type                quantity.MeasurementType `json:"type"`
	Points              PointList                `json:"points"`
	ComputedValue       *float64                 `json:"computed_value"`
	Unit                *string                  `json:"unit"`
	SecondaryValue      *float64                 `json:"secondary_value,omitempty"`
	SecondaryUnit       *string                  `json:"secondary_unit,omitempty"`
	MaterialCost        float64                  `json:"material_cost"`
	LabourCost          float64                  `json:"labour_cost"`
	TotalCost           float64                  `json:"total_cost"`
}

func (m *Measurement) ToDto() MeasurementDto {
	return MeasurementDto{
		ID:                  m.ID,
		DrawingID:           m.DrawingID,
		ConditionID:         m.ConditionID,
		ParentMeasurementID: m.ParentMeasurementID,
		Name:                m.Name,
		Type:                m.Type,
		Points:              m.Points,
		ComputedValue:       m.ComputedValue,
		Unit:                m.Unit,
		SecondaryValue:      m.SecondaryValue,
		SecondaryUnit:       m.SecondaryUnit,
		MaterialCost:        m.MaterialCost,
		LabourCost:          m.LabourCost,
		TotalCost:           m.TotalCost,
	}
}
