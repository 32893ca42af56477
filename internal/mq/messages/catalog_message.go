package messages

import (
	"fmt"
)

type CatalogAction string

const (
	CatalogActionSearchMaterials  CatalogAction = "search_materials"
	CatalogActionSearchLabour     CatalogAction = "search_labour"
	CatalogActionMaterialLineItem CatalogAction = "material_line_item"
	CatalogActionLabourLineItem   CatalogAction = "labour_line_item"
)

// CatalogRequestDto is a request/response style query. The request id
// is echoed back on the results topic so clients can match replies.
type CatalogRequestDto struct {
	RequestID  string        `json:"request_id"`
	Action     CatalogAction `json:"action"`
	Query      string        `json:"query,omitempty"`
	LocationID uint          `json:"location_id,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	MaterialID uint          `json:"material_id,omitempty"`
	CodeID     uint          `json:"code_id,omitempty"`
}

type CatalogRequestMessage struct {
	Data   CatalogRequestDto `json:"data"`
	Source string            `json:"source"`
}

func (m *CatalogRequestMessage) Validate() error {
	if m.Data.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}

	switch m.Data.Action {
	case CatalogActionSearchMaterials, CatalogActionSearchLabour:
		if m.Data.Query == "" {
			return fmt.Errorf("search requires a query")
		}
		return nil
	case CatalogActionMaterialLineItem:
		if m.Data.MaterialID == 0 {
			return fmt.Errorf("material_line_item requires material_id")
		}
		return nil
	case CatalogActionLabourLineItem:
		if m.Data.CodeID == 0 {
			return fmt.Errorf("labour_line_item requires code_id")
		}
		return nil
	}
	return fmt.Errorf("unknown catalog action %q", m.Data.Action)
}
