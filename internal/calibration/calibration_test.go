package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"takeoff-engine/internal/geometry"
)

func TestParseScaleRatio(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		denom, err := ParseScaleRatio("1:100")
		assert.NoError(t, err)
		assert.Equal(t, 100.0, denom)
	})

	t.Run("whitespace tolerated", func(t *testing.T) {
		denom, err := ParseScaleRatio(" 1 : 50 ")
		assert.NoError(t, err)
		assert.Equal(t, 50.0, denom)
	})

	t.Run("rejects other numerators", func(t *testing.T) {
		_, err := ParseScaleRatio("2:100")
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseScaleRatio("full size")
		assert.Error(t, err)
	})
}

func TestComputeManualPPU(t *testing.T) {
	a := geometry.Point{X: 0.1, Y: 0.5}
	b := geometry.Point{X: 0.6, Y: 0.5}

	t.Run("pixels per unit", func(t *testing.T) {
		// 0.5 of a 2000px wide image spans 1000px, over 10m.
		ppu, err := ComputeManualPPU(a, b, 2000, 1000, 10)
		assert.NoError(t, err)
		assert.InDelta(t, 100, ppu, 1e-9)
	})

	t.Run("rejects zero distance", func(t *testing.T) {
		_, err := ComputeManualPPU(a, b, 2000, 1000, 0)
		assert.Error(t, err)
	})

	t.Run("rejects coincident points", func(t *testing.T) {
		_, err := ComputeManualPPU(a, a, 2000, 1000, 10)
		assert.Error(t, err)
	})
}

func TestComputePresetPPU(t *testing.T) {
	t.Run("a1 at 1:100 in metres", func(t *testing.T) {
		// 8410px wide A1 sheet: 10px per paper mm, so at 1:100
		// one real metre is 100 drawing mm / 100 = 1000/100*10.
		ppu, err := ComputePresetPPU("A1", "1:100", "m", 8410)
		assert.NoError(t, err)
		assert.InDelta(t, 100, ppu, 1e-9)
	})

	t.Run("landscape long edge used", func(t *testing.T) {
		ppu, err := ComputePresetPPU("A4", "1:1", "mm", 297)
		assert.NoError(t, err)
		assert.InDelta(t, 1, ppu, 1e-9)
	})

	t.Run("unknown paper size", func(t *testing.T) {
		_, err := ComputePresetPPU("B2", "1:100", "m", 5000)
		assert.Error(t, err)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := ComputePresetPPU("A1", "1:100", "furlong", 5000)
		assert.Error(t, err)
	})
}

func TestInputValidate(t *testing.T) {
	pa := geometry.Point{X: 0.1, Y: 0.1}
	pb := geometry.Point{X: 0.9, Y: 0.1}

	t.Run("manual ok", func(t *testing.T) {
		in := Input{Method: MethodManual, Unit: "m", PointA: &pa, PointB: &pb, KnownDistance: 12}
		assert.NoError(t, in.Validate())
	})

	t.Run("manual missing points", func(t *testing.T) {
		in := Input{Method: MethodManual, Unit: "m", KnownDistance: 12}
		assert.Error(t, in.Validate())
	})

	t.Run("manual missing distance", func(t *testing.T) {
		in := Input{Method: MethodManual, Unit: "m", PointA: &pa, PointB: &pb}
		assert.Error(t, in.Validate())
	})

	t.Run("preset ok", func(t *testing.T) {
		in := Input{Method: MethodPreset, Unit: "ft", PaperSize: "A3", ScaleRatio: "1:48"}
		assert.NoError(t, in.Validate())
	})

	t.Run("preset bad ratio", func(t *testing.T) {
		in := Input{Method: MethodPreset, Unit: "ft", PaperSize: "A3", ScaleRatio: "quarter inch"}
		assert.Error(t, in.Validate())
	})

	t.Run("unknown method", func(t *testing.T) {
		in := Input{Method: "guess", Unit: "m"}
		assert.Error(t, in.Validate())
	})
}

func TestInputComputePPU(t *testing.T) {
	pa := geometry.Point{X: 0, Y: 0}
	pb := geometry.Point{X: 1, Y: 0}

	t.Run("manual", func(t *testing.T) {
		in := Input{Method: MethodManual, Unit: "m", PointA: &pa, PointB: &pb, KnownDistance: 50}
		ppu, err := in.ComputePPU(5000, 3000)
		assert.NoError(t, err)
		assert.InDelta(t, 100, ppu, 1e-9)
	})

	t.Run("preset", func(t *testing.T) {
		in := Input{Method: MethodPreset, Unit: "m", PaperSize: "A1", ScaleRatio: "1:100"}
		ppu, err := in.ComputePPU(8410, 5940)
		assert.NoError(t, err)
		assert.InDelta(t, 100, ppu, 1e-9)
	})

	t.Run("idempotent", func(t *testing.T) {
		in := Input{Method: MethodPreset, Unit: "m", PaperSize: "A1", ScaleRatio: "1:100"}
		first, err := in.ComputePPU(8410, 5940)
		assert.NoError(t, err)
		second, err := in.ComputePPU(8410, 5940)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestAreaUnit(t *testing.T) {
	assert.Equal(t, "sq m", AreaUnit("m"))
	assert.Equal(t, "sq ft", AreaUnit("ft"))
}
