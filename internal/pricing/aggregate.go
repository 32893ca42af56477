package pricing

import (
	"takeoff-engine/internal/models"
)

// UnsectionedName buckets grid rows that carry no section label.
const UnsectionedName = "Unsectioned"

// GridRow pairs a line item with its computed costs.
type GridRow struct {
	Item models.ConditionLineItem `json:"item"`
	Cost LineCost                 `json:"cost"`
}

// GridSection groups rows under one section heading.
type GridSection struct {
	Name         string    `json:"name"`
	Rows         []GridRow `json:"rows"`
	MaterialCost float64   `json:"material_cost"`
	LabourCost   float64   `json:"labour_cost"`
	TotalCost    float64   `json:"total_cost"`
}

// Grid is the priced detail grid of one condition.
type Grid struct {
	Sections []GridSection `json:"sections"`

	MaterialCost float64 `json:"material_cost"`
	LabourCost   float64 `json:"labour_cost"`
	TotalCost    float64 `json:"total_cost"`

	// Per-unit rates divide totals by the primary quantity. Zero
	// when the condition has no quantity yet.
	MaterialPerUnit float64 `json:"material_per_unit"`
	LabourPerUnit   float64 `json:"labour_per_unit"`
	TotalPerUnit    float64 `json:"total_per_unit"`
}

// AggregateGrid prices every line item and groups the rows by section
// in order of first appearance. Rows without a section fall into the
// Unsectioned bucket.
func AggregateGrid(items []models.ConditionLineItem, primaryQty, secondaryQty float64) Grid {
	grid := Grid{}
	index := make(map[string]int)

	for _, item := range items {
		section := item.Section
		if section == "" {
			section = UnsectionedName
		}

		i, ok := index[section]
		if !ok {
			i = len(grid.Sections)
			index[section] = i
			grid.Sections = append(grid.Sections, GridSection{Name: section})
		}

		row := GridRow{
			Item: item,
			Cost: ComputeLineCost(item, primaryQty, secondaryQty),
		}
		grid.Sections[i].Rows = append(grid.Sections[i].Rows, row)
		grid.Sections[i].MaterialCost += row.Cost.MaterialCost
		grid.Sections[i].LabourCost += row.Cost.LabourCost
		grid.Sections[i].TotalCost += row.Cost.TotalCost

		grid.MaterialCost += row.Cost.MaterialCost
		grid.LabourCost += row.Cost.LabourCost
		grid.TotalCost += row.Cost.TotalCost
	}

	if primaryQty > 0 {
		grid.MaterialPerUnit = grid.MaterialCost / primaryQty
		grid.LabourPerUnit = grid.LabourCost / primaryQty
		grid.TotalPerUnit = grid.TotalCost / primaryQty
	}

	return grid
}
