package models

import (
	"fmt"
	"time"
)

type LineItemType string

const (
	LineItemMaterial LineItemType = "material"
	LineItemLabour   LineItemType = "labour"
)

type QtySource string

const (
	QtySourcePrimary   QtySource = "primary"
	QtySourceSecondary QtySource = "secondary"
	QtySourceFixed     QtySource = "fixed"
)

type CostSource string

const (
	CostSourceManual   CostSource = "manual"
	CostSourceMaterial CostSource = "material"
)

// ConditionLineItem is one row of a condition's detail grid.
type ConditionLineItem struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`

	ConditionID uint         `gorm:"index;not null" json:"condition_id"`
	Section     string       `json:"section"`
	SortOrder   int          `json:"sort_order"`
	ItemType    LineItemType `gorm:"not null" json:"item_type"`
	Code        string       `json:"code"`
	Description string       `json:"description"`

	QtySource QtySource `gorm:"default:primary" json:"qty_source"`
	FixedQty  float64   `json:"fixed_qty"`
	Layers    float64   `json:"layers"`
	OCSpacing float64   `json:"oc_spacing"`
	WastePct  float64   `json:"waste_pct"`

	CostSource     CostSource    `gorm:"default:manual" json:"cost_source"`
	UnitCost       float64       `json:"unit_cost"`
	PackSize       float64       `json:"pack_size"`
	MaterialItemID *uint         `json:"material_item_id,omitempty"`
	MaterialItem   *MaterialItem `gorm:"foreignKey:MaterialItemID" json:"material_item,omitempty"`

	HourlyRate     float64 `json:"hourly_rate"`
	ProductionRate float64 `json:"production_rate"`

	// CostPerUnit lets a labour line be entered as a target cost per
	// measured unit instead of an hourly rate. The hourly rate is
	// back-calculated from it on save.
	CostPerUnit float64 `json:"cost_per_unit"`
}

func (li *ConditionLineItem) Validate() error {
	switch li.ItemType {
	case LineItemMaterial, LineItemLabour:
	default:
		return fmt.Errorf("invalid item_type %q", li.ItemType)
	}

	switch li.QtySource {
	case QtySourcePrimary, QtySourceSecondary, QtySourceFixed, "":
	default:
		return fmt.Errorf("invalid qty_source %q", li.QtySource)
	}

	switch li.CostSource {
	case CostSourceManual, CostSourceMaterial, "":
	default:
		return fmt.Errorf("invalid cost_source %q", li.CostSource)
	}

	return nil
}

// ApplyMaterialDefaults fills cost fields from a catalog pick.
func (li *ConditionLineItem) ApplyMaterialDefaults(item *MaterialItem) {
	if item == nil {
		return
	}
	li.ItemType = LineItemMaterial
	li.MaterialItemID = &item.ID
	li.MaterialItem = item
	li.Code = item.Code
	li.Description = item.Description
	li.CostSource = CostSourceMaterial
	li.UnitCost = item.EffectiveCost()
	li.PackSize = item.PackSize
}

// ApplyLabourDefaults fills rate fields from a catalog pick.
func (li *ConditionLineItem) ApplyLabourDefaults(code *LabourCostCode) {
	if code == nil {
		return
	}
	li.ItemType = LineItemLabour
	li.Code = code.Code
	li.Description = code.Description
	li.HourlyRate = code.DefaultHourlyRate
	li.ProductionRate = code.DefaultProductionRate
}
