package calibration

import (
	"fmt"
	"regexp"
	"strconv"

	"takeoff-engine/internal/geometry"
)

// Method distinguishes how a drawing's scale was established.
type Method string

const (
	MethodManual Method = "manual"
	MethodPreset Method = "preset"
)

// PaperSizesMM maps ISO paper size names to [long, short] edge
// lengths in millimetres.
var PaperSizesMM = map[string][2]float64{
	"A0": {1189, 841},
	"A1": {841, 594},
	"A2": {594, 420},
	"A3": {420, 297},
	"A4": {297, 210},
}

// MMPerUnit converts a measurement unit to millimetres.
var MMPerUnit = map[string]float64{
	"mm": 1,
	"cm": 10,
	"m":  1000,
	"in": 25.4,
	"ft": 304.8,
}

var scaleRatioPattern = regexp.MustCompile(`^\s*1\s*:\s*(\d+(?:\.\d+)?)\s*$`)

// ParseScaleRatio extracts the denominator from a "1:N" scale string.
func ParseScaleRatio(ratio string) (float64, error) {
	m := scaleRatioPattern.FindStringSubmatch(ratio)
	if m == nil {
		return 0, fmt.Errorf("invalid scale ratio %q, expected form 1:N", ratio)
	}
	denom, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse scale denominator: %w", err)
	}
	if denom <= 0 {
		return 0, fmt.Errorf("scale denominator must be positive, got %v", denom)
	}
	return denom, nil
}

// ComputeManualPPU derives pixels-per-unit from two reference points
// and the known real-world distance between them.
func ComputeManualPPU(a, b geometry.Point, pixelWidth, pixelHeight, knownDistance float64) (float64, error) {
	if knownDistance <= 0 {
		return 0, fmt.Errorf("known distance must be positive, got %v", knownDistance)
	}
	pixelDist := geometry.PixelDistance(a, b, pixelWidth, pixelHeight)
	if pixelDist == 0 {
		return 0, fmt.Errorf("calibration points coincide")
	}
	return pixelDist / knownDistance, nil
}

// ComputePresetPPU derives pixels-per-unit from a paper size and a
// drawn scale ratio, assuming the sheet is landscape so the longer
// paper edge corresponds to the image width.
func ComputePresetPPU(paperSize, scaleRatio, unit string, pixelWidth float64) (float64, error) {
	dims, ok := PaperSizesMM[paperSize]
	if !ok {
		return 0, fmt.Errorf("unknown paper size %q", paperSize)
	}
	mmPerUnit, ok := MMPerUnit[unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
	denom, err := ParseScaleRatio(scaleRatio)
	if err != nil {
		return 0, err
	}
	if pixelWidth <= 0 {
		return 0, fmt.Errorf("pixel width must be positive, got %v", pixelWidth)
	}
	paperWidthMm := dims[0]
	if dims[1] > paperWidthMm {
		paperWidthMm = dims[1]
	}
	pixelsPerPaperMm := pixelWidth / paperWidthMm
	return pixelsPerPaperMm / denom * mmPerUnit, nil
}

// Input carries every field a calibration request may set. Which
// fields are required depends on Method.
type Input struct {
	Method        Method          `json:"method"`
	Unit          string          `json:"unit"`
	PointA        *geometry.Point `json:"point_a,omitempty"`
	PointB        *geometry.Point `json:"point_b,omitempty"`
	KnownDistance float64         `json:"known_distance,omitempty"`
	PaperSize     string          `json:"paper_size,omitempty"`
	ScaleRatio    string          `json:"scale_ratio,omitempty"`
}

// Validate checks that the input is complete for its method.
func (in Input) Validate() error {
	if _, ok := MMPerUnit[in.Unit]; !ok {
		return fmt.Errorf("unknown unit %q", in.Unit)
	}
	switch in.Method {
	case MethodManual:
		if in.PointA == nil || in.PointB == nil {
			return fmt.Errorf("manual calibration requires two reference points")
		}
		if in.KnownDistance <= 0 {
			return fmt.Errorf("manual calibration requires a positive known distance")
		}
	case MethodPreset:
		if _, ok := PaperSizesMM[in.PaperSize]; !ok {
			return fmt.Errorf("unknown paper size %q", in.PaperSize)
		}
		if _, err := ParseScaleRatio(in.ScaleRatio); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown calibration method %q", in.Method)
	}
	return nil
}

// ComputePPU resolves the input to a pixels-per-unit value.
func (in Input) ComputePPU(pixelWidth, pixelHeight float64) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	switch in.Method {
	case MethodManual:
		return ComputeManualPPU(*in.PointA, *in.PointB, pixelWidth, pixelHeight, in.KnownDistance)
	case MethodPreset:
		return ComputePresetPPU(in.PaperSize, in.ScaleRatio, in.Unit, pixelWidth)
	}
	return 0, fmt.Errorf("unknown calibration method %q", in.Method)
}

// AreaUnit returns the derived unit label for area quantities.
func AreaUnit(unit string) string {
	return "sq " + unit
}
