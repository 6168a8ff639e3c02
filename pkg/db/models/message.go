package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/educart-ph/educart-backend/pkg/enums"
)

// Conversation pairs a buyer and seller around one post.
type Conversation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;not null" json:"post_id"`
	BuyerID   uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID  uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	Post      *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Message is one chat entry. System messages embed a transaction
// snapshot that clients render as a live status card.
type Message struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ConversationID uuid.UUID         `gorm:"column:conversation_id;type:uuid;not null;index" json:"conversation_id"`
	SenderID       *uuid.UUID        `gorm:"column:sender_id;type:uuid" json:"sender_id,omitempty"`
	Type           enums.MessageType `gorm:"column:type;type:text;not null;default:'text'" json:"type"`
	Body           string            `gorm:"column:body" json:"body"`
	Snapshot       json.RawMessage   `gorm:"column:snapshot;type:jsonb" json:"snapshot,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
