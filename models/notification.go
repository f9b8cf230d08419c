package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType defines the delivery channel
type NotificationType string

const (
	NotificationTypeSMS   NotificationType = "sms"
	NotificationTypeEmail NotificationType = "email"
)

// NotificationStatus defines the status of a notification
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusCancelled NotificationStatus = "cancelled"
)

// Notification is a scheduled or immediate outbound message record
type Notification struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID       *uuid.UUID         `gorm:"type:uuid" json:"user_id,omitempty"`
	ProjectID    *uuid.UUID         `gorm:"type:uuid;index" json:"project_id,omitempty"`
	CustomerID   *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Type         NotificationType   `gorm:"size:10;not null" json:"type"`
	Title        string             `gorm:"size:255;not null" json:"title"`
	Message      string             `gorm:"type:text;not null" json:"message"`
	Status       NotificationStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ScheduledFor *time.Time         `gorm:"index" json:"scheduled_for,omitempty"`
	SentAt       *time.Time         `json:"sent_at,omitempty"`
	Error        *string            `gorm:"size:500" json:"error,omitempty"`
	CreatedBy    *uuid.UUID         `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "crm_notifications"
}
