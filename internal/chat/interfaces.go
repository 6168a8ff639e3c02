package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

// Repository defines persistence operations for conversations and
// messages.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateConversation(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error)
	FindConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	FindConversationByPostAndBuyer(ctx context.Context, postID, buyerID uuid.UUID) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ConversationList, error)
	CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID, params pagination.Params) (*MessageList, error)
	FindPostByID(ctx context.Context, postID uuid.UUID) (*models.Post, error)
}

// ConversationList is a cursor page of conversations.
type ConversationList struct {
	Items      []models.Conversation `json:"items"`
	NextCursor string                `json:"next_cursor,omitempty"`
	HasMore    bool                  `json:"has_more"`
}

// MessageList is a cursor page of messages, newest first.
type MessageList struct {
	Items      []models.Message `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}
