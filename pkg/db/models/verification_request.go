package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/educart-ph/educart-backend/pkg/enums"
)

// VerificationRequest is a student's proof-of-enrollment submission
// reviewed in the admin back office.
type VerificationRequest struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	SchoolID    uuid.UUID           `gorm:"column:school_id;type:uuid;not null" json:"school_id"`
	DocumentURL string              `gorm:"column:document_url;not null" json:"document_url"`
	Status      enums.RequestStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	ReviewerID  *uuid.UUID          `gorm:"column:reviewer_id;type:uuid" json:"reviewer_id,omitempty"`
	Notes       *string             `gorm:"column:notes" json:"notes,omitempty"`
	User        *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ReviewedAt  *time.Time          `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
