package models

import (
	"time"
)

type MaterialItem struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`

	Code        string  `gorm:"index;not null" json:"code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitCost    float64 `json:"unit_cost"`
	PackSize    float64 `json:"pack_size"`

	// EffectiveUnitCost is the location-resolved price, populated by
	// catalog lookups when a price override applies.
	EffectiveUnitCost *float64 `gorm:"-" json:"effective_unit_cost,omitempty"`

	PriceOverrides []MaterialPriceOverride `gorm:"foreignKey:MaterialItemID" json:"price_overrides,omitempty"`
}

// EffectiveCost falls back to the base unit cost when no location
// override has been resolved.
func (m *MaterialItem) EffectiveCost() float64 {
	if m.EffectiveUnitCost != nil {
		return *m.EffectiveUnitCost
	}
	return m.UnitCost
}

// ResolveEffectiveCost picks the override for a location, if any.
func (m *MaterialItem) ResolveEffectiveCost(locationID uint) {
	for _, o := range m.PriceOverrides {
		if o.LocationID == locationID {
			cost := o.UnitCost
			m.EffectiveUnitCost = &cost
			return
		}
	}
	m.EffectiveUnitCost = nil
}

type MaterialPriceOverride struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	MaterialItemID uint    `gorm:"index;not null" json:"material_item_id"`
	LocationID     uint    `gorm:"index;not null" json:"location_id"`
	UnitCost       float64 `json:"unit_cost"`
}

type LabourCostCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`

	Code                  string  `gorm:"index;not null" json:"code"`
	Description           string  `json:"description"`
	DefaultHourlyRate     float64 `json:"default_hourly_rate"`
	DefaultProductionRate float64 `json:"default_production_rate"`
}

type PayRateTemplate struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	Name       string  `gorm:"not null" json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
}
