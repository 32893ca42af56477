package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"takeoff-engine/internal/geometry"
)

// PointList stores a measurement's normalized points as jsonb.
type PointList []geometry.Point

func (pl PointList) Value() (driver.Value, error) {
	return json.Marshal(pl)
}

func (pl *PointList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var fieldBytes []byte
	switch v := value.(type) {
	case []byte:
		fieldBytes = v
	case string:
		fieldBytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PointList", value)
	}

	return json.Unmarshal(fieldBytes, pl)
}
