package messages

import (
	"fmt"
)

// DrawingSettingsDto carries per-drawing takeoff settings. The
// quantity multiplier scales aggregate quantities, e.g. a typical
// floor measured once and built eight times.
type DrawingSettingsDto struct {
	QuantityMultiplier *float64 `json:"quantity_multiplier,omitempty"`
}

type DrawingSettingsMessage struct {
	Data   DrawingSettingsDto `json:"data"`
	Source string             `json:"source"`
}

func (m *DrawingSettingsMessage) Validate() error {
	if m.Data.QuantityMultiplier == nil {
		return fmt.Errorf("no settings provided")
	}
	if *m.Data.QuantityMultiplier <= 0 {
		return fmt.Errorf("quantity_multiplier must be positive")
	}
	return nil
}
