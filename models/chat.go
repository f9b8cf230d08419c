package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole is who produced an AI chat message
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the per-project AI assistant conversation.
// Context holds the serialized project context the assistant answered with,
// so past answers stay explainable after the project moves on.
type ChatMessage struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Role      ChatRole   `gorm:"size:10;not null" json:"role"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Context   JSONMap    `gorm:"type:jsonb" json:"context,omitempty"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name
func (ChatMessage) TableName() string {
	return "crm_chat_messages"
}
