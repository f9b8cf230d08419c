package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeasurementType identifies how the measurement was captured
type MeasurementType string

const (
	MeasurementTypeSatellite MeasurementType = "satellite"
	MeasurementTypeDrone     MeasurementType = "drone"
	MeasurementTypeManual    MeasurementType = "manual"
	MeasurementTypeAI        MeasurementType = "ai"
)

// Measurement stores a polygon tracing session over a project image.
// Data holds the raw polygon payload; its shape is validated by the
// measurements handler before it is written, and TotalSqft is always
// recomputed server-side from the polygons.
type Measurement struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	MeasurementType MeasurementType `gorm:"size:20;not null;default:'manual'" json:"measurement_type"`
	ImageURL        *string         `gorm:"size:500" json:"image_url,omitempty"`
	Data            datatypes.JSON  `gorm:"type:jsonb;not null;default:'{}'" json:"data"`
	Scale           float64         `gorm:"default:1" json:"scale"`
	WasteFactor     float64         `gorm:"default:0.10" json:"waste_factor"`
	TotalSqft       float64         `gorm:"type:decimal(12,2)" json:"total_sqft"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name
func (Measurement) TableName() string {
	return "crm_measurements"
}
