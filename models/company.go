package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier defines the billing plan of a company
type SubscriptionTier string

const (
	SubscriptionTierPro        SubscriptionTier = "pro"
	SubscriptionTierEnterprise SubscriptionTier = "enterprise"
)

// Company is the tenant root. Every CRM row carries a CompanyID and must
// never be visible to another company.
type Company struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Subdomain        string           `gorm:"size:100;uniqueIndex;not null" json:"subdomain"`
	LogoURL          *string          `gorm:"size:500" json:"logo_url,omitempty"`
	Theme            JSONMap          `gorm:"type:jsonb;default:'{}'" json:"theme,omitempty"`
	Settings         JSONMap          `gorm:"type:jsonb;default:'{}'" json:"settings,omitempty"`
	SubscriptionTier SubscriptionTier `gorm:"size:20;not null;default:'pro'" json:"subscription_tier"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	Profiles []Profile `gorm:"foreignKey:CompanyID" json:"profiles,omitempty"`
}

// TableName specifies the table name
func (Company) TableName() string {
	return "crm_companies"
}

// UserRole defines the role of a profile within its company
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleGM           UserRole = "gm"
	RolePM           UserRole = "pm"
	RoleSalesManager UserRole = "sales_manager"
	RoleSalesRep     UserRole = "sales_rep"
	RoleFieldWorker  UserRole = "field_worker"
)

// ValidRole reports whether r is one of the fixed role set
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleGM, RolePM, RoleSalesManager, RoleSalesRep, RoleFieldWorker:
		return true
	}
	return false
}

// Profile is a user belonging to exactly one company
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:255" json:"name"`
	Phone        string    `gorm:"size:20" json:"phone,omitempty"`
	Role         UserRole  `gorm:"size:30;not null;default:'sales_rep'" json:"role"`
	AvatarURL    *string   `gorm:"size:500" json:"avatar_url,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName specifies the table name
func (Profile) TableName() string {
	return "crm_profiles"
}
