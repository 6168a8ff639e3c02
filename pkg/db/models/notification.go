package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/educart-ph/educart-backend/pkg/enums"
)

// Notification is the per-user materialization of a domain event.
// EventID keeps the fan-out idempotent under at-least-once delivery.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_notifications_event_user" json:"user_id"`
	EventID   string                 `gorm:"column:event_id;not null;uniqueIndex:idx_notifications_event_user" json:"-"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null" json:"type"`
	Title     string                 `gorm:"column:title;not null" json:"title"`
	Body      string                 `gorm:"column:body" json:"body"`
	Data      json.RawMessage        `gorm:"column:data;type:jsonb" json:"data,omitempty"`
	ReadAt    *time.Time             `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
