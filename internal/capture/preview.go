package capture

import (
	"fmt"

	"takeoff-engine/internal/calibration"
	"takeoff-engine/internal/geometry"
)

// Preview is a render-ready snapshot of an in-progress capture. The
// sink decides how to draw it; the machine only describes it.
type Preview struct {
	Mode    Mode             `json:"mode"`
	Points  []geometry.Point `json:"points"`
	Ghost   *geometry.Point  `json:"ghost,omitempty"`
	Tooltip string           `json:"tooltip,omitempty"`
}

// PreviewSink receives preview updates as the cursor moves and points
// accumulate. Implementations must not call back into the machine.
type PreviewSink interface {
	Preview(Preview)
}

// PreviewFunc adapts a function to the PreviewSink interface.
type PreviewFunc func(Preview)

func (f PreviewFunc) Preview(p Preview) { f(p) }

func (m *Machine) formatLength(px float64) string {
	if m.cfg.PPU > 0 {
		return fmt.Sprintf("%.2f %s", px/m.cfg.PPU, m.cfg.Unit)
	}
	return fmt.Sprintf("%.0f px", px)
}

func (m *Machine) formatArea(areaPx float64) string {
	if m.cfg.PPU > 0 {
		return fmt.Sprintf("%.2f %s", areaPx/(m.cfg.PPU*m.cfg.PPU), calibration.AreaUnit(m.cfg.Unit))
	}
	return fmt.Sprintf("%.0f sq px", areaPx)
}

// tooltipFor builds the live readout for the current mode with the
// cursor as a provisional extra vertex. Callers hold m.mu.
func (m *Machine) tooltipFor(cursor geometry.Point) string {
	w, h := m.cfg.PixelWidth, m.cfg.PixelHeight

	switch m.mode {
	case ModeCalibrate:
		if len(m.points) == 1 {
			px := geometry.PixelDistance(m.points[0], cursor, w, h)
			return fmt.Sprintf("%.0f px", px)
		}

	case ModeMeasureLine:
		if len(m.points) >= 1 {
			extended := append(append([]geometry.Point{}, m.points...), cursor)
			return m.formatLength(geometry.PolylineLengthPixels(extended, w, h))
		}

	case ModeMeasureArea:
		if len(m.points) >= 2 {
			extended := append(append([]geometry.Point{}, m.points...), cursor)
			area := geometry.PolygonAreaPixels(extended, w, h)
			perim := geometry.PolygonPerimeterPixels(extended, w, h)
			return fmt.Sprintf("%s, %s perimeter", m.formatArea(area), m.formatLength(perim))
		}

	case ModeMeasureRectangle:
		if len(m.points) == 1 {
			corners := geometry.RectangleFromDiagonal(m.points[0], cursor)
			area := geometry.PolygonAreaPixels(corners, w, h)
			perim := geometry.PolygonPerimeterPixels(corners, w, h)
			return fmt.Sprintf("%s, %s perimeter", m.formatArea(area), m.formatLength(perim))
		}

	case ModeMeasureCount:
		return fmt.Sprintf("Count: %d ea", len(m.points))
	}

	return ""
}

// emitPreview pushes the current state to the sink. Callers hold m.mu.
func (m *Machine) emitPreview(ghost *geometry.Point, tooltip string) {
	if m.sink == nil {
		return
	}
	points := make([]geometry.Point, len(m.points))
	copy(points, m.points)
	m.sink.Preview(Preview{
		Mode:    m.mode,
		Points:  points,
		Ghost:   ghost,
		Tooltip: tooltip,
	})
}
