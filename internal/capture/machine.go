package capture

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"takeoff-engine/internal/geometry"
	"takeoff-engine/internal/logger"
	"takeoff-engine/internal/quantity"
)

// Mode is the active capture tool.
type Mode string

const (
	ModePan              Mode = "pan"
	ModeSelect           Mode = "select"
	ModeCalibrate        Mode = "calibrate"
	ModeMeasureLine      Mode = "measure_line"
	ModeMeasureArea      Mode = "measure_area"
	ModeMeasureRectangle Mode = "measure_rectangle"
	ModeMeasureCount     Mode = "measure_count"
)

// snapAngleIncrementDeg is the angle grid used while shift is held.
const snapAngleIncrementDeg = 15.0

// Modifiers are the keyboard modifiers active during a pointer event.
type Modifiers struct {
	Shift bool
}

// Shape is a completed measurement geometry handed to the commit
// callback. Rectangles arrive as four-corner areas.
type Shape struct {
	Type   quantity.MeasurementType `json:"type"`
	Points []geometry.Point         `json:"points"`
}

// Config carries the drawing context a machine measures against.
type Config struct {
	PixelWidth      float64
	PixelHeight     float64
	PPU             float64
	Unit            string
	ClickDelay      time.Duration
	SnapThresholdPx float64
}

// Machine is the capture state machine for one drawing session. A
// single click is held back for ClickDelay so that a double-click can
// suppress it; everything else reacts synchronously.
type Machine struct {
	ID uuid.UUID

	mu      sync.Mutex
	cfg     Config
	mode    Mode
	points  []geometry.Point
	pending *geometry.Point
	timer   *time.Timer

	snapCandidates []geometry.Point

	sink          PreviewSink
	onShape       func(Shape)
	onCalibration func(a, b geometry.Point)

	logger zerolog.Logger
}

// NewMachine creates a machine in pan mode. onShape receives committed
// measurement geometries and onCalibration the two calibration points;
// either may be nil. Callbacks run synchronously from the event
// methods and must not call back into the machine.
func NewMachine(cfg Config, sink PreviewSink, onShape func(Shape), onCalibration func(a, b geometry.Point)) *Machine {
	if cfg.ClickDelay <= 0 {
		cfg.ClickDelay = 250 * time.Millisecond
	}
	return &Machine{
		ID:            uuid.New(),
		cfg:           cfg,
		mode:          ModePan,
		sink:          sink,
		onShape:       onShape,
		onCalibration: onCalibration,
		logger:        logger.GetLogger("capture-machine"),
	}
}

// Mode returns the active tool.
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Points returns a copy of the accumulated points, not including a
// pending debounced click.
func (m *Machine) Points() []geometry.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	points := make([]geometry.Point, len(m.points))
	copy(points, m.points)
	return points
}

// SetCalibration updates the scale used for live tooltips.
func (m *Machine) SetCalibration(ppu float64, unit string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.PPU = ppu
	m.cfg.Unit = unit
}

// SetSnapCandidates replaces the set of points the cursor snaps to,
// typically endpoints and midpoints of saved measurements.
func (m *Machine) SetSnapCandidates(candidates []geometry.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapCandidates = make([]geometry.Point, len(candidates))
	copy(m.snapCandidates, candidates)
}

// SetMode switches tools. Any in-progress capture is discarded and the
// pending click timer cancelled before the call returns.
func (m *Machine) SetMode(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mode == m.mode {
		return
	}
	m.mode = mode
	m.resetLocked()
	m.emitPreview(nil, "")
}

// Click handles a primary-button press at a normalized position.
func (m *Machine) Click(p geometry.Point, mods Modifiers) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = m.adjustLocked(p, mods)

	switch m.mode {
	case ModeCalibrate:
		m.points = append(m.points, p)
		if len(m.points) == 2 {
			a, b := m.points[0], m.points[1]
			m.resetLocked()
			m.emitPreview(nil, "")
			if m.onCalibration != nil {
				m.onCalibration(a, b)
			}
			return
		}
		m.emitPreview(nil, "")

	case ModeMeasureRectangle:
		m.points = append(m.points, p)
		if len(m.points) == 2 {
			corners := geometry.RectangleFromDiagonal(m.points[0], m.points[1])
			m.resetLocked()
			m.emitPreview(nil, "")
			m.commit(Shape{Type: quantity.TypeArea, Points: corners})
			return
		}
		m.emitPreview(nil, "")

	case ModeMeasureLine, ModeMeasureArea, ModeMeasureCount:
		// Defer the point so a double-click can take it back.
		m.flushPendingLocked()
		m.schedulePointLocked(p)

	default:
		// pan and select ignore capture clicks
	}
}

// DoubleClick suppresses the trailing debounced click and commits the
// in-progress measurement if it has enough points.
func (m *Machine) DoubleClick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
	m.commitCurrentLocked()
}

// PressEnter commits like a double-click, including any pending point.
func (m *Machine) PressEnter() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushPendingLocked()
	m.commitCurrentLocked()
}

// PressEscape abandons the in-progress capture.
func (m *Machine) PressEscape() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	m.emitPreview(nil, "")
}

// RightClick removes the most recent point.
func (m *Machine) RightClick() {
	m.Undo()
}

// Undo removes the most recent point, flushing a pending click first
// so the undo applies to what the user last placed.
func (m *Machine) Undo() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushPendingLocked()
	if len(m.points) == 0 {
		return
	}
	m.points = m.points[:len(m.points)-1]
	m.emitPreview(nil, "")
}

// MouseMove updates the ghost vertex and live tooltip.
func (m *Machine) MouseMove(p geometry.Point, mods Modifiers) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.mode {
	case ModePan, ModeSelect:
		return
	}

	p = m.adjustLocked(p, mods)
	ghost := p
	m.emitPreview(&ghost, m.tooltipFor(p))
}

// Close cancels timers and clears state. The machine must not be used
// afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

// adjustLocked applies snapping and shift constraints to a cursor
// position. Callers hold m.mu.
func (m *Machine) adjustLocked(p geometry.Point, mods Modifiers) geometry.Point {
	p = p.Clamped()
	if snapped, ok := m.snapLocked(p); ok {
		return snapped
	}
	if !mods.Shift {
		return p
	}
	anchor, ok := m.anchorLocked()
	if !ok {
		return p
	}
	switch m.mode {
	case ModeMeasureLine, ModeMeasureArea:
		return geometry.SnapToAngle(anchor, p, snapAngleIncrementDeg, m.cfg.PixelWidth, m.cfg.PixelHeight)
	case ModeMeasureRectangle:
		return geometry.ConstrainSquare(anchor, p, m.cfg.PixelWidth, m.cfg.PixelHeight)
	}
	return p
}

func (m *Machine) anchorLocked() (geometry.Point, bool) {
	if m.pending != nil {
		return *m.pending, true
	}
	if len(m.points) > 0 {
		return m.points[len(m.points)-1], true
	}
	return geometry.Point{}, false
}

func (m *Machine) snapLocked(p geometry.Point) (geometry.Point, bool) {
	if m.cfg.SnapThresholdPx <= 0 {
		return p, false
	}
	best := geometry.Point{}
	bestDist := m.cfg.SnapThresholdPx
	found := false
	for _, c := range m.snapCandidates {
		d := geometry.PixelDistance(p, c, m.cfg.PixelWidth, m.cfg.PixelHeight)
		if d <= bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

func (m *Machine) schedulePointLocked(p geometry.Point) {
	point := p
	m.pending = &point
	m.timer = time.AfterFunc(m.cfg.ClickDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.pending == nil || *m.pending != point {
			return
		}
		m.pending = nil
		m.timer = nil
		m.points = append(m.points, point)
		m.emitPreview(nil, m.tooltipFor(point))
	})
}

func (m *Machine) flushPendingLocked() {
	if m.pending == nil {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.points = append(m.points, *m.pending)
	m.pending = nil
}

func (m *Machine) cancelPendingLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.pending = nil
}

func (m *Machine) commitCurrentLocked() {
	var shapeType quantity.MeasurementType
	switch m.mode {
	case ModeMeasureLine:
		shapeType = quantity.TypeLinear
	case ModeMeasureArea:
		shapeType = quantity.TypeArea
	case ModeMeasureCount:
		shapeType = quantity.TypeCount
	default:
		return
	}

	if len(m.points) < quantity.MinPoints(shapeType) {
		m.logger.Debug().
			Str("mode", string(m.mode)).
			Int("points", len(m.points)).
			Msg("Not enough points to commit")
		return
	}

	points := m.points
	m.points = nil
	m.resetLocked()
	m.emitPreview(nil, "")
	m.commit(Shape{Type: shapeType, Points: points})
}

func (m *Machine) commit(shape Shape) {
	m.logger.Debug().
		Str("type", string(shape.Type)).
		Int("points", len(shape.Points)).
		Msg("Shape committed")
	if m.onShape != nil {
		m.onShape(shape)
	}
}

func (m *Machine) resetLocked() {
	m.cancelPendingLocked()
	m.points = nil
}
