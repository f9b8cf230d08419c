package models

import (
	"time"

	"github.com/google/uuid"
)

// CommunicationType identifies the channel of a customer interaction
type CommunicationType string

const (
	CommunicationTypeCall   CommunicationType = "call"
	CommunicationTypeSMS    CommunicationType = "sms"
	CommunicationTypeEmail  CommunicationType = "email"
	CommunicationTypeAICall CommunicationType = "ai_call"
)

// CommunicationDirection is inbound or outbound
type CommunicationDirection string

const (
	DirectionInbound  CommunicationDirection = "inbound"
	DirectionOutbound CommunicationDirection = "outbound"
)

// Communication records one customer interaction. Rows are written by
// server actions or webhook handlers and are never user-edited afterwards;
// the only later write is the summary/recording enrichment when an
// asynchronous transcript arrives.
type Communication struct {
	ID              uuid.UUID              `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID       uuid.UUID              `gorm:"type:uuid;not null;index" json:"company_id"`
	CustomerID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"customer_id"`
	ProjectID       *uuid.UUID             `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Type            CommunicationType      `gorm:"size:20;not null" json:"type"`
	Direction       CommunicationDirection `gorm:"size:10;not null" json:"direction"`
	Content         string                 `gorm:"type:text" json:"content,omitempty"`
	RecordingURL    *string                `gorm:"size:500" json:"recording_url,omitempty"`
	DurationSeconds *int                   `json:"duration_seconds,omitempty"`
	AISummary       JSONMap                `gorm:"type:jsonb" json:"ai_summary,omitempty"`
	ProviderSID     *string                `gorm:"size:100;index" json:"provider_sid,omitempty"`
	CreatedBy       *uuid.UUID             `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Project  *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name
func (Communication) TableName() string {
	return "crm_communications"
}
