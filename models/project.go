package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectStatus is the ordered project lifecycle
type ProjectStatus string

const (
	ProjectStatusLead       ProjectStatus = "lead"
	ProjectStatusInspection ProjectStatus = "inspection"
	ProjectStatusProposal   ProjectStatus = "proposal"
	ProjectStatusContract   ProjectStatus = "contract"
	ProjectStatusProduction ProjectStatus = "production"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// ProjectStatuses lists the lifecycle in order (Kanban column order)
var ProjectStatuses = []ProjectStatus{
	ProjectStatusLead,
	ProjectStatusInspection,
	ProjectStatusProposal,
	ProjectStatusContract,
	ProjectStatusProduction,
	ProjectStatusCompleted,
}

// ValidProjectStatus reports whether s is one of the fixed lifecycle values
func ValidProjectStatus(s ProjectStatus) bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ClaimStatus is the insurance claim sub-record status
type ClaimStatus string

const (
	ClaimStatusFiled      ClaimStatus = "filed"
	ClaimStatusScheduled  ClaimStatus = "scheduled"
	ClaimStatusApproved   ClaimStatus = "approved"
	ClaimStatusDenied     ClaimStatus = "denied"
	ClaimStatusSupplement ClaimStatus = "supplement"
)

// Project belongs to a customer and a company
type Project struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"company_id"`
	CustomerID uuid.UUID     `gorm:"type:uuid;not null;index" json:"customer_id"`
	Name       string        `gorm:"size:255;not null" json:"name"`
	Status     ProjectStatus `gorm:"size:20;not null;default:'lead';index" json:"status"`
	Address    string        `gorm:"size:500" json:"address"`
	Lat        *float64      `json:"lat,omitempty"`
	Lng        *float64      `json:"lng,omitempty"`

	// Insurance claim sub-record
	InsuranceClaimNumber *string      `gorm:"size:100" json:"insurance_claim_number,omitempty"`
	InsuranceCompany     *string      `gorm:"size:255" json:"insurance_company,omitempty"`
	AdjusterName         *string      `gorm:"size:255" json:"adjuster_name,omitempty"`
	AdjusterPhone        *string      `gorm:"size:20" json:"adjuster_phone,omitempty"`
	AdjusterEmail        *string      `gorm:"size:255" json:"adjuster_email,omitempty"`
	AdjusterMeeting      *time.Time   `json:"adjuster_meeting,omitempty"`
	ClaimStatus          *ClaimStatus `gorm:"size:20" json:"claim_status,omitempty"`
	RCV                  *float64     `gorm:"type:decimal(12,2)" json:"rcv,omitempty"`
	ACV                  *float64     `gorm:"type:decimal(12,2)" json:"acv,omitempty"`
	Deductible           *float64     `gorm:"type:decimal(12,2)" json:"deductible,omitempty"`

	// AI enrichment
	AISummary   *string `gorm:"type:text" json:"ai_summary,omitempty"`
	HealthScore *int    `json:"health_score,omitempty"`

	// Gates the unauthenticated read-only page
	IsPublic bool `gorm:"default:false;index" json:"is_public"`

	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID     `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Customer     *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Photos       []Photo       `gorm:"foreignKey:ProjectID" json:"photos,omitempty"`
	Measurements []Measurement `gorm:"foreignKey:ProjectID" json:"measurements,omitempty"`
	Estimates    []Estimate    `gorm:"foreignKey:ProjectID" json:"estimates,omitempty"`
	Contracts    []Contract    `gorm:"foreignKey:ProjectID" json:"contracts,omitempty"`
}

// TableName specifies the table name
func (Project) TableName() string {
	return "crm_projects"
}

// HasInsuranceClaim reports whether the project carries a claim sub-record
func (p *Project) HasInsuranceClaim() bool {
	return p.InsuranceClaimNumber != nil && *p.InsuranceClaimNumber != ""
}
