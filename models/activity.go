package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction is the verb recorded in the audit trail
type ActivityAction string

const (
	ActionProjectCreated       ActivityAction = "project.created"
	ActionProjectUpdated       ActivityAction = "project.updated"
	ActionProjectStatusChanged ActivityAction = "project.status_changed"
	ActionCustomerCreated      ActivityAction = "customer.created"
	ActionCustomerUpdated      ActivityAction = "customer.updated"
	ActionPhotoUploaded        ActivityAction = "photo.uploaded"
	ActionSMSSent              ActivityAction = "sms.sent"
	ActionCallInitiated        ActivityAction = "call.initiated"
	ActionCallCompleted        ActivityAction = "call.completed"
	ActionAICallInitiated      ActivityAction = "ai_call.initiated"
	ActionAICallCompleted      ActivityAction = "ai_call.completed"
	ActionEstimateCreated      ActivityAction = "estimate.created"
	ActionEstimateSent         ActivityAction = "estimate.sent"
	ActionContractCreated      ActivityAction = "contract.created"
	ActionContractSigned       ActivityAction = "contract.signed"
	ActionCommunicationLogged  ActivityAction = "communication.logged"
	ActionNoteAdded            ActivityAction = "note.added"
)

// ActivityLog is the append-only audit trail. Rows are immutable once
// written; no update or delete path exists anywhere in the codebase.
type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	ProjectID  *uuid.UUID     `gorm:"type:uuid;index" json:"project_id,omitempty"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Action     ActivityAction `gorm:"size:50;not null" json:"action"`
	EntityType *string        `gorm:"size:50" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID     `gorm:"type:uuid" json:"entity_id,omitempty"`
	Details    JSONMap        `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`

	User *Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name
func (ActivityLog) TableName() string {
	return "crm_activity_logs"
}
