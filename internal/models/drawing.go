package models

import (
	"time"

	"takeoff-engine/internal/tiles"
)

type Drawing struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
	DeletedAt          *time.Time `gorm:"index" json:"deleted_at"`
	ProjectID          uint       `gorm:"index;not null" json:"project_id"`
	Name               string     `json:"name"`
	PageNumber         int        `json:"page_number"`
	PixelWidth         float64    `gorm:"not null" json:"pixel_width"`
	PixelHeight        float64    `gorm:"not null" json:"pixel_height"`
	TileSize           int        `json:"tile_size"`
	MaxZoom            int        `json:"max_zoom"`
	MinZoom            int        `json:"min_zoom"`
	QuantityMultiplier float64    `json:"quantity_multiplier"`

	Calibration *ScaleCalibration `gorm:"foreignKey:DrawingID" json:"calibration,omitempty"`
}

func (d *Drawing) IsValid() bool {
	return d.PixelWidth > 0 && d.PixelHeight > 0
}

// Prepare derives the tile pyramid fields and defaults the quantity
// multiplier before first persist.
func (d *Drawing) Prepare() {
	if d.TileSize <= 0 {
		d.TileSize = tiles.DefaultTileSize
	}
	tr := tiles.NewTransform(d.PixelWidth, d.PixelHeight, d.TileSize)
	d.MaxZoom = tr.MaxZoom
	d.MinZoom = tr.MinZoom()

	if d.QuantityMultiplier <= 0 {
		d.QuantityMultiplier = 1
	}

	if d.CreatedAt == nil {
		now := time.Now()
		d.CreatedAt = &now
	}
}

// Transform returns the coordinate transform for this drawing's tiles.
func (d *Drawing) Transform() tiles.Transform {
	size := d.TileSize
	if size <= 0 {
		size = tiles.DefaultTileSize
	}
	return tiles.Transform{
		PixelWidth:  d.PixelWidth,
		PixelHeight: d.PixelHeight,
		TileSize:    size,
		MaxZoom:     d.MaxZoom,
	}
}

// PixelsPerUnit returns the calibrated scale, or 0 when uncalibrated.
func (d *Drawing) PixelsPerUnit() float64 {
	if d.Calibration == nil {
		return 0
	}
	return d.Calibration.PixelsPerUnit
}

// Unit returns the calibrated measurement unit, or "" when
// uncalibrated.
func (d *Drawing) Unit() string {
	if d.Calibration == nil {
		return ""
	}
	return d.Calibration.Unit
}

type DrawingDto struct {
	ID                 uint    `json:"id"`
	ProjectID          uint    `json:"project_id"`
	Name               string  `json:"name"`
	PageNumber         int     `json:"page_number"`
	PixelWidth         float64 `json:"pixel_width"`
	PixelHeight        float64 `json:"pixel_height"`
	TileSize           int     `json:"tile_size"`
	MaxZoom            int     `json:"max_zoom"`
	MinZoom            int     `json:"min_zoom"`
	QuantityMultiplier float64 `json:"quantity_multiplier"`
	PixelsPerUnit      float64 `json:"pixels_per_unit"`
	Unit               string  `json:"unit"`
}

func (d *Drawing) ToDto() DrawingDto {
	return DrawingDto{
		ID:                 d.ID,
		ProjectID:          d.ProjectID,
		Name:               d.Name,
		PageNumber:         d.PageNumber,
		PixelWidth:         d.PixelWidth,
		PixelHeight:        d.PixelHeight,
		TileSize:           d.TileSize,
		MaxZoom:            d.MaxZoom,
		MinZoom:            d.MinZoom,
		QuantityMultiplier: d.QuantityMultiplier,
		PixelsPerUnit:      d.PixelsPerUnit(),
		Unit:               d.Unit(),
	}
}
