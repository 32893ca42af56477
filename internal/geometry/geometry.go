package geometry

import (
	"math"
)

// Point is a position on a drawing in normalized coordinates,
// where x and y are fractions of the image width and height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp01 limits v to the closed interval [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamped returns the point with both coordinates clamped to [0, 1].
func (p Point) Clamped() Point {
	return Point{X: Clamp01(p.X), Y: Clamp01(p.Y)}
}

// PixelDistance returns the distance between two normalized points
// measured in pixels of an image with the given dimensions.
func PixelDistance(a, b Point, pixelWidth, pixelHeight float64) float64 {
	dx := (b.X - a.X) * pixelWidth
	dy := (b.Y - a.Y) * pixelHeight
	return math.Sqrt(dx*dx + dy*dy)
}

// PolylineLengthPixels sums the segment lengths of an open polyline.
// Fewer than two points yields zero.
func PolylineLengthPixels(points []Point, pixelWidth, pixelHeight float64) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += PixelDistance(points[i-1], points[i], pixelWidth, pixelHeight)
	}
	return total
}

// PolygonAreaPixels returns the area of a simple polygon in square
// pixels using the shoelace formula. The polygon is closed implicitly.
// Fewer than three points yields zero.
func PolygonAreaPixels(points []Point, pixelWidth, pixelHeight float64) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi := points[i].X * pixelWidth
		yi := points[i].Y * pixelHeight
		xj := points[j].X * pixelWidth
		yj := points[j].Y * pixelHeight
		sum += xi*yj - xj*yi
	}
	return math.Abs(sum) / 2
}

// PolygonPerimeterPixels returns the closed perimeter of a polygon,
// including the segment from the last point back to the first.
func PolygonPerimeterPixels(points []Point, pixelWidth, pixelHeight float64) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += PixelDistance(points[i], points[j], pixelWidth, pixelHeight)
	}
	return total
}

// RectangleFromDiagonal expands two opposite corners into the four
// corners of an axis-aligned rectangle, ordered c1, (c2.x, c1.y), c2,
// (c1.x, c2.y).
func RectangleFromDiagonal(c1, c2 Point) []Point {
	return []Point{
		c1,
		{X: c2.X, Y: c1.Y},
		c2,
		{X: c1.X, Y: c2.Y},
	}
}

// SnapToAngle moves candidate so that the segment from anchor to the
// result lies on the nearest multiple of increment (in degrees),
// measured in pixel space. The segment length is preserved.
func SnapToAngle(anchor, candidate Point, incrementDeg, pixelWidth, pixelHeight float64) Point {
	dx := (candidate.X - anchor.X) * pixelWidth
	dy := (candidate.Y - anchor.Y) * pixelHeight
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return candidate
	}
	angle := math.Atan2(dy, dx)
	increment := incrementDeg * math.Pi / 180
	snapped := math.Round(angle/increment) * increment
	return Point{
		X: anchor.X + dist*math.Cos(snapped)/pixelWidth,
		Y: anchor.Y + dist*math.Sin(snapped)/pixelHeight,
	}
}

// ConstrainSquare adjusts candidate so that the rectangle with anchor
// as the opposite corner is a square in pixel space. The longer side
// wins and signs are preserved.
func ConstrainSquare(anchor, candidate Point, pixelWidth, pixelHeight float64) Point {
	dx := (candidate.X - anchor.X) * pixelWidth
	dy := (candidate.Y - anchor.Y) * pixelHeight
	side := math.Max(math.Abs(dx), math.Abs(dy))
	sx := 1.0
	if dx < 0 {
		sx = -1
	}
	sy := 1.0
	if dy < 0 {
		sy = -1
	}
	return Point{
		X: anchor.X + sx*side/pixelWidth,
		Y: anchor.Y + sy*side/pixelHeight,
	}
}

// Midpoint returns the midpoint of the segment ab.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
