package models

import (
	"time"

	"github.com/google/uuid"
)

// PhotoType categorizes a project photo
type PhotoType string

const (
	PhotoTypeBefore   PhotoType = "before"
	PhotoTypeDuring   PhotoType = "during"
	PhotoTypeAfter    PhotoType = "after"
	PhotoTypeDamage   PhotoType = "damage"
	PhotoTypeMaterial PhotoType = "material"
	PhotoTypeOther    PhotoType = "other"
)

// ValidPhotoType reports whether t is a known category
func ValidPhotoType(t PhotoType) bool {
	switch t {
	case PhotoTypeBefore, PhotoTypeDuring, PhotoTypeAfter, PhotoTypeDamage, PhotoTypeMaterial, PhotoTypeOther:
		return true
	}
	return false
}

// Photo belongs to a project
type Photo struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"project_id"`
	URL        string      `gorm:"size:500;not null" json:"url"`
	Caption    string      `gorm:"size:500" json:"caption,omitempty"`
	Tags       StringSlice `gorm:"type:jsonb;default:'[]'" json:"tags"`
	PhotoType  PhotoType   `gorm:"size:20;not null;default:'other'" json:"photo_type"`
	AIAnalysis JSONMap     `gorm:"type:jsonb" json:"ai_analysis,omitempty"`
	UploadedBy *uuid.UUID  `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name
func (Photo) TableName() string {
	return "crm_photos"
}
