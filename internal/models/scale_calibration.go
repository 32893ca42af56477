package models

import (
	"time"

	"takeoff-engine/internal/calibration"
	"takeoff-engine/internal/geometry"
)

type ScaleCalibration struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DrawingID uint       `gorm:"uniqueIndex;not null" json:"drawing_id"`

	Method        calibration.Method `gorm:"not null" json:"method"`
	Unit          string             `gorm:"not null" json:"unit"`
	PixelsPerUnit float64            `gorm:"not null" json:"pixels_per_unit"`

	Points        PointList `gorm:"type:jsonb" json:"points,omitempty"`
	KnownDistance float64   `json:"known_distance,omitempty"`

	PaperSize  string `json:"paper_size,omitempty"`
	ScaleRatio string `json:"scale_ratio,omitempty"`
}

func (c *ScaleCalibration) IsValid() bool {
	return c.PixelsPerUnit > 0 && c.Unit != ""
}

// ToInput rebuilds the calibration input this record was derived from.
func (c *ScaleCalibration) ToInput() calibration.Input {
	in := calibration.Input{
		Method:        c.Method,
		Unit:          c.Unit,
		KnownDistance: c.KnownDistance,
		PaperSize:     c.PaperSize,
		ScaleRatio:    c.ScaleRatio,
	}
	if len(c.Points) == 2 {
		a, b := c.Points[0], c.Points[1]
		in.PointA, in.PointB = &a, &b
	}
	return in
}

// FromInput fills the record from a validated input and computed ppu.
func (c *ScaleCalibration) FromInput(in calibration.Input, ppu float64) {
	c.Method = in.Method
	c.Unit = in.Unit
	c.PixelsPerUnit = ppu
	c.KnownDistance = in.KnownDistance
	c.PaperSize = in.PaperSize
	c.ScaleRatio = in.ScaleRatio
	if in.PointA != nil && in.PointB != nil {
		c.Points = PointList{*in.PointA, *in.PointB}
	} else {
		c.Points = nil
	}
}

type ScaleCalibrationDto struct {
	DrawingID     uint               `json:"drawing_id"`
	Method        calibration.Method `json:"method"`
	Unit          string             `json:"unit"`
	PixelsPerUnit float64            `json:"pixels_per_unit"`
	Points        []geometry.Point   `json:"points,omitempty"`
	KnownDistance float64            `json:"known_distance,omitempty"`
	PaperSize     string             `json:"paper_size,omitempty"`
	ScaleRatio    string             `json:"scale_ratio,omitempty"`
}

func (c *ScaleCalibration) ToDto() ScaleCalibrationDto {
	return ScaleCalibrationDto{
		DrawingID:     c.DrawingID,
		Method:        c.Method,
		Unit:          c.Unit,
		PixelsPerUnit: c.PixelsPerUnit,
		Points:        c.Points,
		KnownDistance: c.KnownDistance,
		PaperSize:     c.PaperSize,
		ScaleRatio:    c.ScaleRatio,
	}
}
