// Package chat pairs buyers and sellers in per-post conversations.
// System messages are sender-less entries the transaction flow drops in
// as the status machine moves.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/outbox/payloads"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

const (
	maxMessageLength = 2000
	previewLength    = 120
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// OpenInput starts (or returns) the conversation between the caller and
// the post owner.
type OpenInput struct {
	PostID  uuid.UUID
	BuyerID uuid.UUID
}

// SendInput posts a text message into a conversation.
type SendInput struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Body           string
}

// Service defines chat operations.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*models.Conversation, error)
	Get(ctx context.Context, conversationID, viewerID uuid.UUID) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ConversationList, error)
	Send(ctx context.Context, input SendInput) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID, viewerID uuid.UUID, params pagination.Params) (*MessageList, error)

	// PostSystemMessage drops a sender-less status line inside the
	// caller's transaction.
	PostSystemMessage(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, body string) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds a chat service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("chat repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

func (s *service) Open(ctx context.Context, input OpenInput) (*models.Conversation, error) {
	if input.PostID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	if existing, err := s.repo.FindConversationByPostAndBuyer(ctx, input.PostID, input.BuyerID); err == nil {
		return existing, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load conversation")
	}

	post, err := s.repo.FindPostByID(ctx, input.PostID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post.UserID == input.BuyerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot open a conversation on your own post")
	}

	conversation, err := s.repo.CreateConversation(ctx, &models.Conversation{
		PostID:   post.ID,
		BuyerID:  input.BuyerID,
		SellerID: post.UserID,
	})
	if err != nil {
		// Lost the race against a concurrent open; read the winner.
		if existing, findErr := s.repo.FindConversationByPostAndBuyer(ctx, input.PostID, input.BuyerID); findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create conversation")
	}
	return conversation, nil
}

func (s *service) Get(ctx context.Context, conversationID, viewerID uuid.UUID) (*models.Conversation, error) {
	return s.loadParticipant(ctx, conversationID, viewerID)
}

func (s *service) ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ConversationList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListConversations(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}
	return list, nil
}

func (s *service) Send(ctx context.Context, input SendInput) (*models.Message, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body required")
	}
	if len(body) > maxMessageLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message too long")
	}
	conversation, err := s.loadParticipant(ctx, input.ConversationID, input.SenderID)
	if err != nil {
		return nil, err
	}

	recipientID := conversation.SellerID
	if input.SenderID == conversation.SellerID {
		recipientID = conversation.BuyerID
	}

	var message *models.Message
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateMessage(ctx, &models.Message{
			ConversationID: conversation.ID,
			SenderID:       &input.SenderID,
			Type:           enums.MessageTypeText,
			Body:           body,
			CreatedAt:      time.Now(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}
		message = created

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMessagePosted,
			AggregateType: enums.AggregateMessage,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: input.SenderID},
			Data: payloads.MessagePostedEvent{
				MessageID:      created.ID,
				ConversationID: conversation.ID,
				SenderID:       input.SenderID,
				RecipientID:    recipientID,
				Type:           enums.MessageTypeText,
				Preview:        preview(body),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (s *service) ListMessages(ctx context.Context, conversationID, viewerID uuid.UUID, params pagination.Params) (*MessageList, error) {
	if _, err := s.loadParticipant(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListMessages(ctx, conversationID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return list, nil
}

func (s *service) PostSystemMessage(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, body string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if conversationID == uuid.Nil || strings.TrimSpace(body) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "conversation and body required")
	}
	repo := s.repo.WithTx(tx)
	snapshot, _ := json.Marshal(map[string]string{"body": body, "at": time.Now().UTC().Format(time.RFC3339)})
	_, err := repo.CreateMessage(ctx, &models.Message{
		ConversationID: conversationID,
		Type:           enums.MessageTypeSystem,
		Body:           body,
		Snapshot:       snapshot,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create system message")
	}
	return nil
}

func (s *service) loadParticipant(ctx context.Context, conversationID, userID uuid.UUID) (*models.Conversation, error) {
	if conversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	conversation, err := s.repo.FindConversation(ctx, conversationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load conversation")
	}
	if conversation.BuyerID != userID && conversation.SellerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this conversation")
	}
	return conversation, nil
}

func preview(body string) string {
	if len(body) <= previewLength {
		return body
	}
	return body[:previewLength]
}
