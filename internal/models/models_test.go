package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"takeoff-engine/internal/geometry"
	"takeoff-engine/internal/quantity"
)

func TestDrawingPrepareDerivesTilePyramid(t *testing.T) {
	d := Drawing{PixelWidth: 3200, PixelHeight: 2400}
	d.Prepare()

	assert.Equal(t, 256, d.TileSize)
	assert.Equal(t, 3, d.MaxZoom)
	assert.Equal(t, 2, d.MinZoom)
	assert.Equal(t, 1.0, d.QuantityMultiplier)
	require.NotNil(t, d.CreatedAt)
}

func TestDrawingPrepareKeepsExplicitMultiplier(t *testing.T) {
	d := Drawing{PixelWidth: 1000, PixelHeight: 800, QuantityMultiplier: 8}
	d.Prepare()

	assert.Equal(t, 8.0, d.QuantityMultiplier)
}

func TestDrawingUncalibrated(t *testing.T) {
	d := Drawing{PixelWidth: 1000, PixelHeight: 800}

	assert.Equal(t, 0.0, d.PixelsPerUnit())
	assert.Equal(t, "", d.Unit())

	d.Calibration = &ScaleCalibration{PixelsPerUnit: 40, Unit: "m"}
	assert.Equal(t, 40.0, d.PixelsPerUnit())
	assert.Equal(t, "m", d.Unit())
}

func TestMeasurementValidateMinPoints(t *testing.T) {
	m := Measurement{
		DrawingID: 1,
		Type:      quantity.TypeArea,
		Points:    PointList{{X: 0.1, Y: 0.1}, {X: 0.5, Y: 0.1}},
	}
	require.Error(t, m.Validate())

	m.Points = append(m.Points, geometry.Point{X: 0.5, Y: 0.5})
	require.NoError(t, m.Validate())
}

func TestMeasurementClearQuantityKeepsCounts(t *testing.T) {
	count := Measurement{DrawingID: 1, Type: quantity.TypeCount}
	count.ApplyQuantity(quantity.Result{Value: 3, Unit: quantity.CountUnit})
	count.ClearQuantity()
	require.NotNil(t, count.ComputedValue)
	assert.Equal(t, 3.0, *count.ComputedValue)

	linear := Measurement{DrawingID: 1, Type: quantity.TypeLinear}
	linear.ApplyQuantity(quantity.Result{Value: 12.5, Unit: "m"})
	linear.ClearQuantity()
	assert.Nil(t, linear.ComputedValue)
	assert.Nil(t, linear.Unit)
}

func TestMeasurementApplyQuantitySecondary(t *testing.T) {
	perimeter := 14.0
	m := Measurement{DrawingID: 1, Type: quantity.TypeArea}
	m.ApplyQuantity(quantity.Result{
		Value:         12.0,
		Unit:          "sq m",
		Secondary:     &perimeter,
		SecondaryUnit: "m",
	})

	require.NotNil(t, m.SecondaryValue)
	assert.Equal(t, 14.0, *m.SecondaryValue)
	require.NotNil(t, m.SecondaryUnit)
	assert.Equal(t, "m", *m.SecondaryUnit)
}

func TestMeasurementIsDeduction(t *testing.T) {
	parent := uint(7)
	m := Measurement{DrawingID: 1, Type: quantity.TypeArea, ParentMeasurementID: &parent}
	assert.True(t, m.IsDeduction())

	plain := Measurement{DrawingID: 1, Type: quantity.TypeArea}
	assert.False(t, plain.IsDeduction())
}

func TestMaterialItemResolveEffectiveCost(t *testing.T) {
	item := MaterialItem{
		UnitCost: 10,
		PriceOverrides: []MaterialPriceOverride{
			{LocationID: 2, UnitCost: 12.5},
		},
	}

	item.ResolveEffectiveCost(2)
	assert.Equal(t, 12.5, item.EffectiveCost())

	item.ResolveEffectiveCost(9)
	assert.Equal(t, 10.0, item.EffectiveCost())
}

func TestLineItemValidate(t *testing.T) {
	li := ConditionLineItem{ItemType: LineItemMaterial, QtySource: QtySourcePrimary}
	require.NoError(t, li.Validate())

	fixed := ConditionLineItem{ItemType: LineItemMaterial, QtySource: "fixed", FixedQty: 5}
	require.NoError(t, fixed.Validate())

	li.ItemType = "plant"
	require.Error(t, li.Validate())

	li.ItemType = LineItemLabour
	li.QtySource = "tertiary"
	require.Error(t, li.Validate())
}

func TestLineItemCatalogDefaults(t *testing.T) {
	override := 8.75
	item := &MaterialItem{
		ID:                4,
		Code:              "PB13",
		Description:       "13mm plasterboard",
		UnitCost:          9.5,
		PackSize:          10,
		EffectiveUnitCost: &override,
	}

	var li ConditionLineItem
	li.ApplyMaterialDefaults(item)

	assert.Equal(t, LineItemMaterial, li.ItemType)
	assert.Equal(t, CostSourceMaterial, li.CostSource)
	assert.Equal(t, "PB13", li.Code)
	assert.Equal(t, 8.75, li.UnitCost)
	assert.Equal(t, 10.0, li.PackSize)
	require.NotNil(t, li.MaterialItemID)
	assert.Equal(t, uint(4), *li.MaterialItemID)

	code := &LabourCostCode{
		Code:                  "LAB-STOP",
		Description:           "Stopping",
		DefaultHourlyRate:     52,
		DefaultProductionRate: 18,
	}

	var labour ConditionLineItem
	labour.ApplyLabourDefaults(code)

	assert.Equal(t, LineItemLabour, labour.ItemType)
	assert.Equal(t, 52.0, labour.HourlyRate)
	assert.Equal(t, 18.0, labour.ProductionRate)
}
