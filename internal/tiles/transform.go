package tiles

import (
	"math"

	"takeoff-engine/internal/geometry"
)

const (
	// DefaultTileSize is the edge length of a rendered tile in pixels.
	DefaultTileSize = 256

	// maxZoomCap bounds the pyramid depth regardless of image size.
	maxZoomCap = 5

	// minZoomFloorPx is the smallest useful rendered width. Zoom
	// levels whose scaled image falls below this are not generated.
	minZoomFloorPx = 1500.0
)

// InternalPoint is a position in the tiled coordinate system the
// renderer uses. Lat grows negative downward so that y increases
// toward the bottom of the drawing.
type InternalPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Grid describes the tile layout of one zoom level.
type Grid struct {
	Zoom         int `json:"zoom"`
	Cols         int `json:"cols"`
	Rows         int `json:"rows"`
	ScaledWidth  int `json:"scaled_width"`
	ScaledHeight int `json:"scaled_height"`
}

// Transform maps between normalized drawing coordinates and the
// internal coordinate space of a tile pyramid.
type Transform struct {
	PixelWidth  float64
	PixelHeight float64
	TileSize    int
	MaxZoom     int
}

// NewTransform builds a transform for an image, deriving the maximum
// zoom level from the image dimensions.
func NewTransform(pixelWidth, pixelHeight float64, tileSize int) Transform {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return Transform{
		PixelWidth:  pixelWidth,
		PixelHeight: pixelHeight,
		TileSize:    tileSize,
		MaxZoom:     MaxZoomFor(pixelWidth, pixelHeight, tileSize),
	}
}

// MaxZoomFor halves the larger image dimension until it fits inside
// two tiles, capped at five levels.
func MaxZoomFor(pixelWidth, pixelHeight float64, tileSize int) int {
	currentSize := math.Max(pixelWidth, pixelHeight)
	zoom := 0
	for currentSize > float64(tileSize*2) && zoom < maxZoomCap {
		currentSize /= 2
		zoom++
	}
	return zoom
}

// MinZoom returns the lowest zoom level worth rendering. Levels whose
// scaled size drops below the floor are skipped so the drawing stays
// legible when zoomed out.
func (t Transform) MinZoom() int {
	maxDim := math.Max(t.PixelWidth, t.PixelHeight)
	if maxDim <= minZoomFloorPx {
		return t.MaxZoom
	}
	levels := int(math.Floor(math.Log2(maxDim / minZoomFloorPx)))
	minZoom := t.MaxZoom - levels
	if minZoom < 0 {
		minZoom = 0
	}
	if minZoom > t.MaxZoom {
		minZoom = t.MaxZoom
	}
	return minZoom
}

// Scale is the pixel-per-coordinate-unit factor at the native level.
func (t Transform) Scale() float64 {
	return math.Pow(2, float64(t.MaxZoom))
}

// PaddedWidth is the image width rounded up to a whole tile.
func (t Transform) PaddedWidth() float64 {
	return math.Ceil(t.PixelWidth/float64(t.TileSize)) * float64(t.TileSize)
}

// PaddedHeight is the image height rounded up to a whole tile.
func (t Transform) PaddedHeight() float64 {
	return math.Ceil(t.PixelHeight/float64(t.TileSize)) * float64(t.TileSize)
}

// CoordWidth is the padded width expressed in coordinate units.
func (t Transform) CoordWidth() float64 {
	return t.PaddedWidth() / t.Scale()
}

// CoordHeight is the padded height expressed in coordinate units.
func (t Transform) CoordHeight() float64 {
	return t.PaddedHeight() / t.Scale()
}

// ImageCoordWidth is the unpadded image width in coordinate units.
// Normalized coordinates span this extent, not the padded one.
func (t Transform) ImageCoordWidth() float64 {
	return t.PixelWidth / t.Scale()
}

// ImageCoordHeight is the unpadded image height in coordinate units.
func (t Transform) ImageCoordHeight() float64 {
	return t.PixelHeight / t.Scale()
}

// NormalizedToInternal maps a normalized point onto the internal
// coordinate space. Lat is negated because the renderer's y axis
// points up while drawing y points down.
func (t Transform) NormalizedToInternal(p geometry.Point) InternalPoint {
	return InternalPoint{
		Lat: -p.Y * t.ImageCoordHeight(),
		Lng: p.X * t.ImageCoordWidth(),
	}
}

// InternalToNormalized is the inverse of NormalizedToInternal. The
// result is clamped so points dragged off the drawing stay on it.
func (t Transform) InternalToNormalized(p InternalPoint) geometry.Point {
	w := t.ImageCoordWidth()
	h := t.ImageCoordHeight()
	if w == 0 || h == 0 {
		return geometry.Point{}
	}
	return geometry.Point{
		X: geometry.Clamp01(p.Lng / w),
		Y: geometry.Clamp01(-p.Lat / h),
	}
}

// GridAtZoom describes the tile grid rendered at a zoom level.
func (t Transform) GridAtZoom(zoom int) Grid {
	scale := math.Pow(2, float64(zoom-t.MaxZoom))
	scaledW := int(t.PixelWidth * scale)
	if scaledW < 1 {
		scaledW = 1
	}
	scaledH := int(t.PixelHeight * scale)
	if scaledH < 1 {
		scaledH = 1
	}
	return Grid{
		Zoom:         zoom,
		Cols:         int(math.Ceil(float64(scaledW) / float64(t.TileSize))),
		Rows:         int(math.Ceil(float64(scaledH) / float64(t.TileSize))),
		ScaledWidth:  scaledW,
		ScaledHeight: scaledH,
	}
}

// Grids enumerates every renderable zoom level from MinZoom to MaxZoom.
func (t Transform) Grids() []Grid {
	grids := make([]Grid, 0, t.MaxZoom-t.MinZoom()+1)
	for z := t.MinZoom(); z <= t.MaxZoom; z++ {
		grids = append(grids, t.GridAtZoom(z))
	}
	return grids
}
