package tiles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"takeoff-engine/internal/geometry"
)

func TestMaxZoomFor(t *testing.T) {
	t.Run("small image fits without zooming", func(t *testing.T) {
		assert.Equal(t, 0, MaxZoomFor(400, 300, DefaultTileSize))
	})

	t.Run("large sheet", func(t *testing.T) {
		// 9930 -> 4965 -> 2482.5 -> 1241.25 -> 620.625 -> 310.3125
		assert.Equal(t, 5, MaxZoomFor(9930, 7020, DefaultTileSize))
	})

	t.Run("capped at five levels", func(t *testing.T) {
		assert.Equal(t, 5, MaxZoomFor(100000, 100000, DefaultTileSize))
	})
}

func TestTransformMinZoom(t *testing.T) {
	t.Run("small image renders native only", func(t *testing.T) {
		tr := NewTransform(1200, 900, DefaultTileSize)
		assert.Equal(t, tr.MaxZoom, tr.MinZoom())
	})

	t.Run("large image skips tiny levels", func(t *testing.T) {
		tr := NewTransform(9930, 7020, DefaultTileSize)
		// floor(log2(9930/1500)) = 2
		assert.Equal(t, 3, tr.MinZoom())
	})

	t.Run("never negative", func(t *testing.T) {
		tr := Transform{PixelWidth: 100000, PixelHeight: 100, TileSize: DefaultTileSize, MaxZoom: 2}
		assert.GreaterOrEqual(t, tr.MinZoom(), 0)
	})
}

func TestTransformDimensions(t *testing.T) {
	tr := NewTransform(1000, 700, DefaultTileSize)

	assert.Equal(t, 1, tr.MaxZoom)
	assert.Equal(t, 1024.0, tr.PaddedWidth())
	assert.Equal(t, 768.0, tr.PaddedHeight())
	assert.Equal(t, 512.0, tr.CoordWidth())
	assert.Equal(t, 384.0, tr.CoordHeight())
	assert.Equal(t, 500.0, tr.ImageCoordWidth())
	assert.Equal(t, 350.0, tr.ImageCoordHeight())
}

func TestNormalizedInternalRoundTrip(t *testing.T) {
	tr := NewTransform(4800, 3200, DefaultTileSize)

	points := []geometry.Point{
		{X: 0, Y: 0},
		{X: 1, Y: 1},
		{X: 0.25, Y: 0.75},
		{X: 0.5, Y: 0.5},
	}
	for _, p := range points {
		back := tr.InternalToNormalized(tr.NormalizedToInternal(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestInternalToNormalizedClamps(t *testing.T) {
	tr := NewTransform(4800, 3200, DefaultTileSize)

	p := tr.InternalToNormalized(InternalPoint{Lat: 100, Lng: -50})
	assert.Equal(t, geometry.Point{X: 0, Y: 0}, p)

	far := tr.NormalizedToInternal(geometry.Point{X: 2, Y: 2})
	clamped := tr.InternalToNormalized(far)
	assert.Equal(t, geometry.Point{X: 1, Y: 1}, clamped)
}

func TestNormalizedToInternalOrientation(t *testing.T) {
	tr := NewTransform(4800, 3200, DefaultTileSize)

	top := tr.NormalizedToInternal(geometry.Point{X: 0.5, Y: 0})
	bottom := tr.NormalizedToInternal(geometry.Point{X: 0.5, Y: 1})
	assert.Greater(t, top.Lat, bottom.Lat)
	assert.LessOrEqual(t, bottom.Lat, 0.0)
}

func TestGridAtZoom(t *testing.T) {
	tr := NewTransform(9930, 7020, DefaultTileSize)

	t.Run("native level", func(t *testing.T) {
		g := tr.GridAtZoom(tr.MaxZoom)
		assert.Equal(t, 9930, g.ScaledWidth)
		assert.Equal(t, 7020, g.ScaledHeight)
		assert.Equal(t, 39, g.Cols)
		assert.Equal(t, 28, g.Rows)
	})

	t.Run("halved level", func(t *testing.T) {
		g := tr.GridAtZoom(tr.MaxZoom - 1)
		assert.Equal(t, 4965, g.ScaledWidth)
		assert.Equal(t, 20, g.Cols)
	})

	t.Run("scaled size never zero", func(t *testing.T) {
		small := NewTransform(300, 3, DefaultTileSize)
		g := small.GridAtZoom(0)
		assert.GreaterOrEqual(t, g.ScaledHeight, 1)
		assert.GreaterOrEqual(t, g.Cols, 1)
	})
}

func TestGrids(t *testing.T) {
	tr := NewTransform(9930, 7020, DefaultTileSize)
	grids := tr.Grids()

	assert.Len(t, grids, tr.MaxZoom-tr.MinZoom()+1)
	assert.Equal(t, tr.MinZoom(), grids[0].Zoom)
	assert.Equal(t, tr.MaxZoom, grids[len(grids)-1].Zoom)
}
