package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 0.3, Y: 0.4}

	assert.InDelta(t, 500, PixelDistance(a, b, 1000, 1000), 1e-9)
	assert.Equal(t, 0.0, PixelDistance(a, a, 1000, 1000))
}

func TestPolylineLengthPixels(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0},
		{X: 0.5, Y: 0},
		{X: 0.5, Y: 0.5},
	}

	assert.InDelta(t, 1000, PolylineLengthPixels(points, 1000, 1000), 1e-9)
	assert.Equal(t, 0.0, PolylineLengthPixels(points[:1], 1000, 1000))
	assert.Equal(t, 0.0, PolylineLengthPixels(nil, 1000, 1000))
}

func TestPolygonAreaPixels(t *testing.T) {
	square := []Point{
		{X: 0.1, Y: 0.1},
		{X: 0.3, Y: 0.1},
		{X: 0.3, Y: 0.3},
		{X: 0.1, Y: 0.3},
	}

	t.Run("unit square", func(t *testing.T) {
		assert.InDelta(t, 200*200, PolygonAreaPixels(square, 1000, 1000), 1e-6)
	})

	t.Run("orientation invariant", func(t *testing.T) {
		reversed := make([]Point, len(square))
		for i, p := range square {
			reversed[len(square)-1-i] = p
		}
		assert.InDelta(t,
			PolygonAreaPixels(square, 1000, 1000),
			PolygonAreaPixels(reversed, 1000, 1000),
			1e-9,
		)
	})

	t.Run("degenerate", func(t *testing.T) {
		assert.Equal(t, 0.0, PolygonAreaPixels(square[:2], 1000, 1000))
	})
}

func TestPolygonPerimeterPixels(t *testing.T) {
	square := []Point{
		{X: 0, Y: 0},
		{X: 0.2, Y: 0},
		{X: 0.2, Y: 0.2},
		{X: 0, Y: 0.2},
	}

	assert.InDelta(t, 800, PolygonPerimeterPixels(square, 1000, 1000), 1e-9)
	assert.Equal(t, 0.0, PolygonPerimeterPixels(square[:1], 1000, 1000))
}

func TestRectangleFromDiagonal(t *testing.T) {
	corners := RectangleFromDiagonal(Point{X: 0.1, Y: 0.2}, Point{X: 0.4, Y: 0.6})

	assert.Equal(t, []Point{
		{X: 0.1, Y: 0.2},
		{X: 0.4, Y: 0.2},
		{X: 0.4, Y: 0.6},
		{X: 0.1, Y: 0.6},
	}, corners)
}

func TestSnapToAngle(t *testing.T) {
	anchor := Point{X: 0.5, Y: 0.5}

	t.Run("snaps near horizontal", func(t *testing.T) {
		candidate := Point{X: 0.7, Y: 0.51}
		snapped := SnapToAngle(anchor, candidate, 15, 1000, 1000)
		assert.InDelta(t, anchor.Y, snapped.Y, 1e-9)
		assert.Greater(t, snapped.X, anchor.X)
	})

	t.Run("preserves length", func(t *testing.T) {
		candidate := Point{X: 0.7, Y: 0.53}
		snapped := SnapToAngle(anchor, candidate, 15, 1000, 1000)
		assert.InDelta(t,
			PixelDistance(anchor, candidate, 1000, 1000),
			PixelDistance(anchor, snapped, 1000, 1000),
			1e-9,
		)
	})

	t.Run("zero length", func(t *testing.T) {
		assert.Equal(t, anchor, SnapToAngle(anchor, anchor, 15, 1000, 1000))
	})
}

func TestConstrainSquare(t *testing.T) {
	anchor := Point{X: 0.2, Y: 0.2}

	t.Run("longer side wins", func(t *testing.T) {
		constrained := ConstrainSquare(anchor, Point{X: 0.5, Y: 0.3}, 1000, 1000)
		assert.InDelta(t, 0.5, constrained.X, 1e-9)
		assert.InDelta(t, 0.5, constrained.Y, 1e-9)
	})

	t.Run("signs preserved", func(t *testing.T) {
		constrained := ConstrainSquare(anchor, Point{X: 0.1, Y: 0.05}, 1000, 1000)
		assert.Less(t, constrained.X, anchor.X)
		assert.Less(t, constrained.Y, anchor.Y)
	})

	t.Run("non-square image", func(t *testing.T) {
		constrained := ConstrainSquare(anchor, Point{X: 0.4, Y: 0.3}, 2000, 1000)
		dx := (constrained.X - anchor.X) * 2000
		dy := (constrained.Y - anchor.Y) * 1000
		assert.InDelta(t, dx, dy, 1e-9)
	})
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.5))
	assert.Equal(t, 0.25, Clamp01(0.25))

	clamped := Point{X: -0.1, Y: 1.2}.Clamped()
	assert.Equal(t, Point{X: 0, Y: 1}, clamped)
}

func TestMidpoint(t *testing.T) {
	m := Midpoint(Point{X: 0, Y: 0}, Point{X: 0.4, Y: 0.8})
	assert.Equal(t, Point{X: 0.2, Y: 0.4}, m)
}
