package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a chat repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateConversation(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error) {
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

func (r *repository) FindConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Post").
		Where("id = ?", id).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *repository) FindConversationByPostAndBuyer(ctx context.Context, postID, buyerID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND buyer_id = ?", postID, buyerID).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *repository) ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ConversationList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Preload("Post").
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(updated_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var items []models.Conversation
	err = query.
		Order("updated_at DESC, id DESC").
		Limit(limit + 1).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	list := &ConversationList{Items: items}
	if len(items) > limit {
		list.Items = items[:limit]
		list.HasMore = true
		last := list.Items[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.UpdatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	// Bump the conversation so it sorts to the top of the inbox.
	err := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", message.ConversationID).
		Update("updated_at", message.CreatedAt).Error
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (r *repository) ListMessages(ctx context.Context, conversationID uuid.UUID, params pagination.Params) (*MessageList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", conversationID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var items []models.Message
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	list := &MessageList{Items: items}
	if len(items) > limit {
		list.Items = items[:limit]
		list.HasMore = true
		last := list.Items[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) FindPostByID(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("id = ?", postID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}
