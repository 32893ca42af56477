package capture

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"takeoff-engine/internal/geometry"
	"takeoff-engine/internal/quantity"
)

type shapeRecorder struct {
	mu     sync.Mutex
	shapes []Shape
}

func (r *shapeRecorder) record(s Shape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shapes = append(r.shapes, s)
}

func (r *shapeRecorder) all() []Shape {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Shape, len(r.shapes))
	copy(out, r.shapes)
	return out
}

type previewRecorder struct {
	mu       sync.Mutex
	previews []Preview
}

func (r *previewRecorder) Preview(p Preview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.previews = append(r.previews, p)
}

func (r *previewRecorder) last() (Preview, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.previews) == 0 {
		return Preview{}, false
	}
	return r.previews[len(r.previews)-1], true
}

func testConfig() Config {
	return Config{
		PixelWidth:      2000,
		PixelHeight:     1000,
		PPU:             100,
		Unit:            "m",
		ClickDelay:      20 * time.Millisecond,
		SnapThresholdPx: 10,
	}
}

func waitDebounce() {
	time.Sleep(120 * time.Millisecond)
}

func TestLineCommitOnDoubleClick(t *testing.T) {
	rec := &shapeRecorder{}
	m := NewMachine(testConfig(), nil, rec.record, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.Click(geometry.Point{X: 0.6, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.DoubleClick()

	shapes := rec.all()
	require.Len(t, shapes, 1)
	assert.Equal(t, quantity.TypeLinear, shapes[0].Type)
	assert.Len(t, shapes[0].Points, 2)
}

func TestDoubleClickSuppressesTrailingClick(t *testing.T) {
	rec := &shapeRecorder{}
	m := NewMachine(testConfig(), nil, rec.record, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.Click(geometry.Point{X: 0.4, Y: 0.5}, Modifiers{})
	waitDebounce()
	// The double-click's own click lands just before it.
	m.Click(geometry.Point{X: 0.4, Y: 0.5}, Modifiers{})
	m.DoubleClick()

	shapes := rec.all()
	require.Len(t, shapes, 1)
	assert.Len(t, shapes[0].Points, 2)
}

func TestLineTooFewPointsDoesNotCommit(t *testing.T) {
	rec := &shapeRecorder{}
	m := NewMachine(testConfig(), nil, rec.record, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.DoubleClick()

	assert.Empty(t, rec.all())
	assert.Len(t, m.Points(), 1)
}

func TestAreaCommitOnEnter(t *testing.T) {
	rec := &shapeRecorder{}
	m := NewMachine(testConfig(), nil, rec.record, nil)
	defer m.Close()

	m.SetMode(ModeMeasureArea)
	m.Click(geometry.Point{X: 0.1, Y: 0.1}, Modifiers{})
	waitDebounce()
	m.Click(geometry.Point{X: 0.3, Y: 0.1}, Modifiers{})
	waitDebounce()
	// Enter flushes the still-pending third point before committing.
	m.Click(geometry.Point{X: 0.3, Y: 0.4}, Modifiers{})
	m.PressEnter()

	shapes := rec.all()
	require.Len(t, shapes, 1)
	assert.Equal(t, quantity.TypeArea, shapes[0].Type)
	assert.Len(t, shapes[0].Points, 3)
}

func TestCountCommit(t *testing.T) {
	rec := &shapeRecorder{}
	m := NewMachine(testConfig(), nil, rec.record, nil)
	defer m.Close()

	m.SetMode(ModeMeasureCount)
	m.Click(geometry.Point{X: 0.2, Y: 0.2}, Modifiers{})
	waitDebounce()
	m.Click(geometry.Point{X: 0.4, Y: 0.4}, Modifiers{})
	waitDebounce()
	m.DoubleClick()

	shapes := rec.all()
	require.Len(t, shapes, 1)
	assert.Equal(t, quantity.TypeCount, shapes[0].Type)
	assert.Len(t, shapes[0].Points, 2)
}

func TestRectangleCommitsOnSecondClick(t *testing.T) {
	rec := &shapeRecorder{}
	m := NewMachine(testConfig(), nil, rec.record, nil)
	defer m.Close()

	m.SetMode(ModeMeasureRectangle)
	m.Click(geometry.Point{X: 0.1, Y: 0.2}, Modifiers{})
	m.Click(geometry.Point{X: 0.4, Y: 0.6}, Modifiers{})

	shapes := rec.all()
	require.Len(t, shapes, 1)
	assert.Equal(t, quantity.TypeArea, shapes[0].Type)
	assert.Equal(t, []geometry.Point{
		{X: 0.1, Y: 0.2},
		{X: 0.4, Y: 0.2},
		{X: 0.4, Y: 0.6},
		{X: 0.1, Y: 0.6},
	}, shapes[0].Points)
	assert.Empty(t, m.Points())
}

func TestCalibrateCommitsOnSecondClick(t *testing.T) {
	var gotA, gotB geometry.Point
	calls := 0
	m := NewMachine(testConfig(), nil, nil, func(a, b geometry.Point) {
		gotA, gotB = a, b
		calls++
	})
	defer m.Close()

	m.SetMode(ModeCalibrate)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	m.Click(geometry.Point{X: 0.6, Y: 0.5}, Modifiers{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, geometry.Point{X: 0.1, Y: 0.5}, gotA)
	assert.Equal(t, geometry.Point{X: 0.6, Y: 0.5}, gotB)
	assert.Empty(t, m.Points())
}

func TestEscapeClears(t *testing.T) {
	rec := &shapeRecorder{}
	m := NewMachine(testConfig(), nil, rec.record, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.Click(geometry.Point{X: 0.4, Y: 0.5}, Modifiers{})
	m.PressEscape()
	waitDebounce()

	assert.Empty(t, m.Points())
	m.DoubleClick()
	assert.Empty(t, rec.all())
}

func TestRightClickUndoesLastPoint(t *testing.T) {
	m := NewMachine(testConfig(), nil, nil, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.Click(geometry.Point{X: 0.4, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.RightClick()

	points := m.Points()
	require.Len(t, points, 1)
	assert.Equal(t, geometry.Point{X: 0.1, Y: 0.5}, points[0])

	m.RightClick()
	assert.Empty(t, m.Points())
	m.RightClick()
	assert.Empty(t, m.Points())
}

func TestModeChangeClearsState(t *testing.T) {
	m := NewMachine(testConfig(), nil, nil, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	m.SetMode(ModeMeasureArea)

	assert.Empty(t, m.Points())
	waitDebounce()
	// The pending click from the old mode must not leak in.
	assert.Empty(t, m.Points())
}

func TestShiftAngleSnap(t *testing.T) {
	m := NewMachine(testConfig(), nil, nil, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.5, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.Click(geometry.Point{X: 0.7, Y: 0.502}, Modifiers{Shift: true})
	waitDebounce()

	points := m.Points()
	require.Len(t, points, 2)
	assert.InDelta(t, 0.5, points[1].Y, 1e-9)
}

func TestShiftSquareConstraint(t *testing.T) {
	rec := &shapeRecorder{}
	cfg := testConfig()
	cfg.PixelWidth = 1000
	cfg.PixelHeight = 1000
	m := NewMachine(cfg, nil, rec.record, nil)
	defer m.Close()

	m.SetMode(ModeMeasureRectangle)
	m.Click(geometry.Point{X: 0.2, Y: 0.2}, Modifiers{})
	m.Click(geometry.Point{X: 0.5, Y: 0.3}, Modifiers{Shift: true})

	shapes := rec.all()
	require.Len(t, shapes, 1)
	corners := shapes[0].Points
	assert.InDelta(t, 0.5, corners[2].X, 1e-9)
	assert.InDelta(t, 0.5, corners[2].Y, 1e-9)
}

func TestSnapCandidates(t *testing.T) {
	m := NewMachine(testConfig(), nil, nil, nil)
	defer m.Close()

	saved := geometry.Point{X: 0.3, Y: 0.3}
	m.SetSnapCandidates([]geometry.Point{saved})

	m.SetMode(ModeMeasureLine)
	// 4px away at 2000x1000, within the 10px threshold.
	m.Click(geometry.Point{X: 0.302, Y: 0.3}, Modifiers{})
	waitDebounce()

	points := m.Points()
	require.Len(t, points, 1)
	assert.Equal(t, saved, points[0])
}

func TestMouseMovePreview(t *testing.T) {
	prev := &previewRecorder{}
	m := NewMachine(testConfig(), prev, nil, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.MouseMove(geometry.Point{X: 0.6, Y: 0.5}, Modifiers{})

	p, ok := prev.last()
	require.True(t, ok)
	require.NotNil(t, p.Ghost)
	assert.Equal(t, geometry.Point{X: 0.6, Y: 0.5}, *p.Ghost)
	// 1000px at 100 px/m.
	assert.Equal(t, "10.00 m", p.Tooltip)
}

func TestCalibrateTooltipInPixels(t *testing.T) {
	prev := &previewRecorder{}
	m := NewMachine(testConfig(), prev, nil, nil)
	defer m.Close()

	m.SetMode(ModeCalibrate)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	m.MouseMove(geometry.Point{X: 0.6, Y: 0.5}, Modifiers{})

	p, ok := prev.last()
	require.True(t, ok)
	assert.Equal(t, "1000 px", p.Tooltip)
}

func TestCountTooltip(t *testing.T) {
	prev := &previewRecorder{}
	m := NewMachine(testConfig(), prev, nil, nil)
	defer m.Close()

	m.SetMode(ModeMeasureCount)
	m.Click(geometry.Point{X: 0.2, Y: 0.2}, Modifiers{})
	waitDebounce()
	m.MouseMove(geometry.Point{X: 0.4, Y: 0.4}, Modifiers{})

	p, ok := prev.last()
	require.True(t, ok)
	assert.Equal(t, "Count: 1 ea", p.Tooltip)
}

func TestUncalibratedTooltipFallsBackToPixels(t *testing.T) {
	prev := &previewRecorder{}
	cfg := testConfig()
	cfg.PPU = 0
	m := NewMachine(cfg, prev, nil, nil)
	defer m.Close()

	m.SetMode(ModeMeasureLine)
	m.Click(geometry.Point{X: 0.1, Y: 0.5}, Modifiers{})
	waitDebounce()
	m.MouseMove(geometry.Point{X: 0.6, Y: 0.5}, Modifiers{})

	p, ok := prev.last()
	require.True(t, ok)
	assert.Equal(t, "1000 px", p.Tooltip)
}
