package models

import (
	"time"

	"github.com/google/uuid"
)

// ContractStatus is the contract lifecycle
type ContractStatus string

const (
	ContractStatusDraft  ContractStatus = "draft"
	ContractStatusSent   ContractStatus = "sent"
	ContractStatusViewed ContractStatus = "viewed"
	ContractStatusSigned ContractStatus = "signed"
)

// ValidContractStatus reports whether s is a known contract status
func ValidContractStatus(s ContractStatus) bool {
	switch s {
	case ContractStatusDraft, ContractStatusSent, ContractStatusViewed, ContractStatusSigned:
		return true
	}
	return false
}

// Contract is derived from exactly one estimate; Content is the rendered
// template text.
type Contract struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	EstimateID uuid.UUID      `gorm:"type:uuid;not null;index" json:"estimate_id"`
	CompanyID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	Content    string         `gorm:"type:text" json:"content"`
	Status     ContractStatus `gorm:"size:20;not null;default:'draft'" json:"status"`
	SignerName *string        `gorm:"size:255" json:"signer_name,omitempty"`
	SignerIP   *string        `gorm:"size:45" json:"signer_ip,omitempty"`
	SignedAt   *time.Time     `json:"signed_at,omitempty"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Project  *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Estimate *Estimate `gorm:"foreignKey:EstimateID" json:"estimate,omitempty"`
}

// TableName specifies the table name
func (Contract) TableName() string {
	return "crm_contracts"
}
