package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer belongs to a company. Soft-deleted rather than removed so that
// projects, estimates and communications keep a valid reference.
type Customer struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Email      string         `gorm:"size:255" json:"email,omitempty"`
	Phone      string         `gorm:"size:20;index" json:"phone,omitempty"`
	Address    string         `gorm:"size:500" json:"address"`
	LeadSource string         `gorm:"size:100" json:"lead_source,omitempty"`
	Notes      string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Projects []Project `gorm:"foreignKey:CustomerID" json:"projects,omitempty"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "crm_customers"
}
