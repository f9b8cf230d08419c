package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EstimateStatus is the estimate lifecycle
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusViewed   EstimateStatus = "viewed"
	EstimateStatusAccepted EstimateStatus = "accepted"
	EstimateStatusRejected EstimateStatus = "rejected"
)

// ValidEstimateStatus reports whether s is a known estimate status
func ValidEstimateStatus(s EstimateStatus) bool {
	switch s {
	case EstimateStatusDraft, EstimateStatusSent, EstimateStatusViewed, EstimateStatusAccepted, EstimateStatusRejected:
		return true
	}
	return false
}

// LineItem is one row of an estimate. Total is always quantity × unit price,
// recomputed server-side on every write.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"` // "sq ft", "linear ft", "each", ...
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// LineItems is the ordered jsonb list of estimate rows
type LineItems []LineItem

// Scan implements sql.Scanner interface for LineItems
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = make(LineItems, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("LineItems: expected []byte from database")
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer interface for LineItems
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Estimate belongs to a project
type Estimate struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	CompanyID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	LineItems  LineItems      `gorm:"type:jsonb;not null;default:'[]'" json:"line_items"`
	Subtotal   float64        `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	TaxRate    float64        `gorm:"default:0" json:"tax_rate"`
	Tax        float64        `gorm:"type:decimal(12,2);default:0" json:"tax"`
	Total      float64        `gorm:"type:decimal(12,2);default:0" json:"total"`
	Status     EstimateStatus `gorm:"size:20;not null;default:'draft'" json:"status"`
	Notes      string         `gorm:"type:text" json:"notes,omitempty"`
	ValidUntil *time.Time     `json:"valid_until,omitempty"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name
func (Estimate) TableName() string {
	return "crm_estimates"
}
