package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/educart-ph/educart-backend/pkg/enums"
)

// User is a verified member of one university's marketplace.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolID     uuid.UUID      `gorm:"column:school_id;type:uuid;not null" json:"school_id"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	FullName     string         `gorm:"column:full_name;not null" json:"full_name"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'student'" json:"role"`
	AvatarURL    *string        `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	Verified     bool           `gorm:"column:verified;not null;default:false" json:"verified"`
	School       *School        `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
