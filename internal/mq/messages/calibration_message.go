package messages

import (
	"fmt"

	"takeoff-engine/internal/calibration"
)

type CalibrationAction string

const (
	CalibrationActionSave   CalibrationAction = "save"
	CalibrationActionDelete CalibrationAction = "delete"
)

type CalibrationDto struct {
	Action CalibrationAction  `json:"action"`
	Input  *calibration.Input `json:"input,omitempty"`
}

type CalibrationMessage struct {
	Data   CalibrationDto `json:"data"`
	Source string         `json:"source"`
}

func (m *CalibrationMessage) Validate() error {
	switch m.Data.Action {
	case CalibrationActionSave:
		if m.Data.Input == nil {
			return fmt.Errorf("save action requires calibration input")
		}
		return m.Data.Input.Validate()
	case CalibrationActionDelete:
		return nil
	}
	return fmt.Errorf("unknown calibration action %q", m.Data.Action)
}
