package messages

import (
	"fmt"

	"takeoff-engine/internal/models"
)

type ConditionAction string

const (
	ConditionActionRecalculate   ConditionAction = "recalculate"
	ConditionActionGrid          ConditionAction = "grid"
	ConditionActionSaveLineItems ConditionAction = "save_line_items"
)

type ConditionDto struct {
	Action    ConditionAction            `json:"action"`
	DrawingID *uint                      `json:"drawing_id,omitempty"`
	LineItems []models.ConditionLineItem `json:"line_items,omitempty"`
}

type ConditionMessage struct {
	Data   ConditionDto `json:"data"`
	Source string       `json:"source"`
}

func (m *ConditionMessage) Validate() error {
	switch m.Data.Action {
	case ConditionActionRecalculate, ConditionActionGrid:
		return nil
	case ConditionActionSaveLineItems:
		for i := range m.Data.LineItems {
			if err := m.Data.LineItems[i].Validate(); err != nil {
				return fmt.Errorf("line item %d: %w", i, err)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown condition action %q", m.Data.Action)
}

// VariationPreviewDto requests a cost preview of quantities against
// existing conditions, without creating measurements. Empty items mean
// the stored variation addressed by the topic should be priced. With
// Save set the items are also persisted as a draft.
type VariationPreviewDto struct {
	Items     []VariationPreviewItem `json:"items,omitempty"`
	Save      bool                   `json:"save,omitempty"`
	Name      string                 `json:"name,omitempty"`
	ProjectID uint                   `json:"project_id,omitempty"`
}

type VariationPreviewItem struct {
	ConditionID uint    `json:"condition_id"`
	Quantity    float64 `json:"quantity"`
}

type VariationPreviewMessage struct {
	Data   VariationPreviewDto `json:"data"`
	Source string              `json:"source"`
}

func (m *VariationPreviewMessage) Validate() error {
	for i, item := range m.Data.Items {
		if item.ConditionID == 0 {
			return fmt.Errorf("item %d: condition_id is required", i)
		}
	}
	if m.Data.Save {
		if len(m.Data.Items) == 0 {
			return fmt.Errorf("save requires at least one item")
		}
		if m.Data.Name == "" {
			return fmt.Errorf("save requires a name")
		}
		if m.Data.ProjectID == 0 {
			return fmt.Errorf("save requires project_id")
		}
	}
	return nil
}
