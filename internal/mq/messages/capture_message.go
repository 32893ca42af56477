package messages

import (
	"fmt"

	"takeoff-engine/internal/capture"
	"takeoff-engine/internal/geometry"
)

type CaptureEventType string

const (
	CaptureEventStart       CaptureEventType = "start"
	CaptureEventEnd         CaptureEventType = "end"
	CaptureEventClick       CaptureEventType = "click"
	CaptureEventDoubleClick CaptureEventType = "double_click"
	CaptureEventMove        CaptureEventType = "move"
	CaptureEventEnter       CaptureEventType = "enter"
	CaptureEventEscape      CaptureEventType = "escape"
	CaptureEventRightClick  CaptureEventType = "right_click"
	CaptureEventUndo        CaptureEventType = "undo"
	CaptureEventSetMode     CaptureEventType = "set_mode"
)

// CaptureEventDto is one pointer or key event from a drawing client.
type CaptureEventDto struct {
	SessionID string           `json:"session_id"`
	Event     CaptureEventType `json:"event"`
	Point     *geometry.Point  `json:"point,omitempty"`
	Shift     bool             `json:"shift,omitempty"`
	Mode      capture.Mode     `json:"mode,omitempty"`
}

type CaptureEventMessage struct {
	Data   CaptureEventDto `json:"data"`
	Source string          `json:"source"`
}

func (m *CaptureEventMessage) Validate() error {
	if m.Data.Event == "" {
		return fmt.Errorf("event is required")
	}
	if m.Data.Event != CaptureEventStart && m.Data.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	switch m.Data.Event {
	case CaptureEventClick, CaptureEventMove:
		if m.Data.Point == nil {
			return fmt.Errorf("%s event requires a point", m.Data.Event)
		}
	case CaptureEventSetMode:
		if m.Data.Mode == "" {
			return fmt.Errorf("set_mode event requires a mode")
		}
	}
	return nil
}
