package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

type stubChatRepo struct {
	post         *models.Post
	conversation *models.Conversation
	messages     []models.Message
	createdErr   error
}

func (s *stubChatRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubChatRepo) CreateConversation(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error) {
	if s.createdErr != nil {
		return nil, s.createdErr
	}
	if conversation.ID == uuid.Nil {
		conversation.ID = uuid.New()
	}
	s.conversation = conversation
	return conversation, nil
}

func (s *stubChatRepo) FindConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	if s.conversation == nil || s.conversation.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.conversation, nil
}

func (s *stubChatRepo) FindConversationByPostAndBuyer(ctx context.Context, postID, buyerID uuid.UUID) (*models.Conversation, error) {
	if s.conversation != nil && s.conversation.PostID == postID && s.conversation.BuyerID == buyerID {
		return s.conversation, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubChatRepo) ListConversations(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ConversationList, error) {
	return &ConversationList{}, nil
}

func (s *stubChatRepo) CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	s.messages = append(s.messages, *message)
	return message, nil
}

func (s *stubChatRepo) ListMessages(ctx context.Context, conversationID uuid.UUID, params pagination.Params) (*MessageList, error) {
	return &MessageList{Items: s.messages}, nil
}

func (s *stubChatRepo) FindPostByID(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	if s.post == nil || s.post.ID != postID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.post, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo *stubChatRepo, publisher *stubOutboxPublisher) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, publisher)
	require.NoError(t, err)
	return svc
}

func TestOpenCreatesConversationOnce(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()
	post := &models.Post{ID: uuid.New(), UserID: seller}
	repo := &stubChatRepo{post: post}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	first, err := svc.Open(context.Background(), OpenInput{PostID: post.ID, BuyerID: buyer})
	require.NoError(t, err)
	require.Equal(t, seller, first.SellerID)

	second, err := svc.Open(context.Background(), OpenInput{PostID: post.ID, BuyerID: buyer})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestOpenRejectsOwnPost(t *testing.T) {
	seller := uuid.New()
	post := &models.Post{ID: uuid.New(), UserID: seller}
	repo := &stubChatRepo{post: post}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	_, err := svc.Open(context.Background(), OpenInput{PostID: post.ID, BuyerID: seller})
	require.Error(t, err)
}

func TestSendEmitsMessagePostedEvent(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()
	conversation := &models.Conversation{
		ID:       uuid.New(),
		PostID:   uuid.New(),
		BuyerID:  buyer,
		SellerID: seller,
	}
	repo := &stubChatRepo{conversation: conversation}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher)

	message, err := svc.Send(context.Background(), SendInput{
		ConversationID: conversation.ID,
		SenderID:       buyer,
		Body:           "Is this still available?",
	})
	require.NoError(t, err)
	require.Equal(t, enums.MessageTypeText, message.Type)
	require.Len(t, publisher.events, 1)
	require.Equal(t, enums.EventMessagePosted, publisher.events[0].EventType)
}

func TestSendRejectsOutsider(t *testing.T) {
	conversation := &models.Conversation{
		ID:       uuid.New(),
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}
	repo := &stubChatRepo{conversation: conversation}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	_, err := svc.Send(context.Background(), SendInput{
		ConversationID: conversation.ID,
		SenderID:       uuid.New(),
		Body:           "hello",
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestSendRejectsOversizedBody(t *testing.T) {
	conversation := &models.Conversation{
		ID:       uuid.New(),
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}
	repo := &stubChatRepo{conversation: conversation}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	_, err := svc.Send(context.Background(), SendInput{
		ConversationID: conversation.ID,
		SenderID:       conversation.BuyerID,
		Body:           strings.Repeat("a", maxMessageLength+1),
	})
	require.Error(t, err)
}

func TestPostSystemMessageHasNoSender(t *testing.T) {
	conversation := &models.Conversation{
		ID:       uuid.New(),
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}
	repo := &stubChatRepo{conversation: conversation}
	svc := newTestService(t, repo, &stubOutboxPublisher{})

	err := svc.PostSystemMessage(context.Background(), &gorm.DB{}, conversation.ID, "Status updated to Paid")
	require.NoError(t, err)
	require.Len(t, repo.messages, 1)
	require.Equal(t, enums.MessageTypeSystem, repo.messages[0].Type)
	require.Nil(t, repo.messages[0].SenderID)
	require.NotEmpty(t, repo.messages[0].Snapshot)
}
