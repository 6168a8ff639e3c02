package models

import (
	"time"

	"github.com/google/uuid"
)

// School is a registered university; its email domain gates registration.
type School struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	EmailDomain string    `gorm:"column:email_domain;not null;uniqueIndex" json:"email_domain"`
	Address     *string   `gorm:"column:address" json:"address,omitempty"`
	LogoURL     *string   `gorm:"column:logo_url" json:"logo_url,omitempty"`
	Active      bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
