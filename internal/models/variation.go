package models

import (
	"time"
)

type Variation struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`

	ProjectID   uint   `gorm:"index;not null" json:"project_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Status      string `gorm:"default:draft" json:"status"`

	Items []VariationItem `gorm:"foreignKey:VariationID" json:"items,omitempty"`
}

// VariationItem prices a caller-supplied quantity against an existing
// condition without creating measurements.
type VariationItem struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	VariationID uint `gorm:"index;not null" json:"variation_id"`
	ConditionID uint `gorm:"index;not null" json:"condition_id"`

	Quantity float64 `json:"quantity"`

	Condition *TakeoffCondition `gorm:"foreignKey:ConditionID" json:"condition,omitempty"`
}
