package quantity

import (
	"fmt"
	"math"

	"takeoff-engine/internal/calibration"
	"takeoff-engine/internal/geometry"
)

// MeasurementType is the kind of quantity a measurement yields.
type MeasurementType string

const (
	TypeLinear MeasurementType = "linear"
	TypeArea   MeasurementType = "area"
	TypeCount  MeasurementType = "count"
)

// CountUnit is the fixed unit for count measurements.
const CountUnit = "ea"

// Result is a computed measurement quantity. Secondary carries the
// perimeter of area measurements, in the linear unit.
type Result struct {
	Value         float64  `json:"value"`
	Unit          string   `json:"unit"`
	Secondary     *float64 `json:"secondary,omitempty"`
	SecondaryUnit string   `json:"secondary_unit,omitempty"`
}

// MinPoints returns the fewest points a measurement type accepts.
func MinPoints(t MeasurementType) int {
	switch t {
	case TypeLinear:
		return 2
	case TypeArea:
		return 3
	case TypeCount:
		return 1
	}
	return 0
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// Compute converts a point list into a real-world quantity using the
// drawing's pixels-per-unit. Count measurements need no calibration;
// everything else requires ppu > 0.
func Compute(t MeasurementType, points []geometry.Point, pixelWidth, pixelHeight, ppu float64, unit string) (Result, error) {
	if len(points) < MinPoints(t) {
		return Result{}, fmt.Errorf("%s measurement needs at least %d points, got %d", t, MinPoints(t), len(points))
	}

	if t == TypeCount {
		return Result{Value: float64(len(points)), Unit: CountUnit}, nil
	}

	if ppu <= 0 {
		return Result{}, fmt.Errorf("%s measurement requires a calibrated drawing", t)
	}

	switch t {
	case TypeLinear:
		lengthPx := geometry.PolylineLengthPixels(points, pixelWidth, pixelHeight)
		return Result{
			Value: RoundTo(lengthPx/ppu, 4),
			Unit:  unit,
		}, nil
	case TypeArea:
		areaPx := geometry.PolygonAreaPixels(points, pixelWidth, pixelHeight)
		perimPx := geometry.PolygonPerimeterPixels(points, pixelWidth, pixelHeight)
		perimeter := RoundTo(perimPx/ppu, 4)
		return Result{
			Value:         RoundTo(areaPx/(ppu*ppu), 4),
			Unit:          calibration.AreaUnit(unit),
			Secondary:     &perimeter,
			SecondaryUnit: unit,
		}, nil
	}
	return Result{}, fmt.Errorf("unknown measurement type %q", t)
}
