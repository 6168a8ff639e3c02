package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/outbox/payloads"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

type stubNotificationRepo struct {
	rows    []*models.Notification
	markErr error
}

func (s *stubNotificationRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	for _, existing := range s.rows {
		if existing.EventID == notification.EventID && existing.UserID == notification.UserID {
			return nil
		}
	}
	notification.ID = uuid.New()
	s.rows = append(s.rows, notification)
	return nil
}

func (s *stubNotificationRepo) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	var out []models.Notification
	for _, row := range s.rows {
		if row.UserID != params.UserID {
			continue
		}
		if params.UnreadOnly && row.ReadAt != nil {
			continue
		}
		out = append(out, *row)
	}
	return out, nil, nil
}

func (s *stubNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range s.rows {
		if row.UserID == userID && row.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if s.markErr != nil {
		return notificationMarkResult{}, s.markErr
	}
	for _, row := range s.rows {
		if row.ID == notificationID && row.UserID == userID {
			if row.ReadAt == nil {
				row.ReadAt = &now
				return notificationMarkResult{Found: true, Updated: true}, nil
			}
			return notificationMarkResult{Found: true}, nil
		}
	}
	return notificationMarkResult{}, nil
}

func (s *stubNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var updated int64
	for _, row := range s.rows {
		if row.UserID == userID && row.ReadAt == nil {
			row.ReadAt = &now
			updated++
		}
	}
	return updated, nil
}

func TestServiceListScopesToUser(t *testing.T) {
	repo := &stubNotificationRepo{}
	userID := uuid.New()
	otherID := uuid.New()
	repo.rows = []*models.Notification{
		{ID: uuid.New(), UserID: userID, EventID: "e1", Type: enums.NotificationNewMessage},
		{ID: uuid.New(), UserID: otherID, EventID: "e2", Type: enums.NotificationNewMessage},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	result, err := svc.List(context.Background(), ListParams{UserID: userID})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, userID, result.Items[0].UserID)
}

func TestServiceMarkReadUnknownNotification(t *testing.T) {
	svc, err := NewService(&stubNotificationRepo{})
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceMarkAllRead(t *testing.T) {
	repo := &stubNotificationRepo{}
	userID := uuid.New()
	repo.rows = []*models.Notification{
		{ID: uuid.New(), UserID: userID, EventID: "e1"},
		{ID: uuid.New(), UserID: userID, EventID: "e2"},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	count, err := svc.MarkAllRead(context.Background(), userID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	unread, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	require.Zero(t, unread)
}

func envelopeWith(t *testing.T, payload any) outbox.PayloadEnvelope {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

func TestRowsForEventTransactionCreatedTargetsSeller(t *testing.T) {
	consumer := &Consumer{}
	sellerID := uuid.New()
	envelope := envelopeWith(t, payloads.TransactionCreatedEvent{
		TransactionID: uuid.New(),
		PostType:      enums.PostTypeSale,
		BuyerID:       uuid.New(),
		SellerID:      sellerID,
		Total:         decimal.NewFromInt(250),
	})

	rows, err := consumer.rowsForEvent(enums.EventTransactionCreated, envelope)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, sellerID, rows[0].UserID)
	require.Equal(t, enums.NotificationTransactionUpdate, rows[0].Type)
}

func TestRowsForEventStatusChangeTargetsCounterparty(t *testing.T) {
	consumer := &Consumer{}
	buyerID := uuid.New()
	sellerID := uuid.New()
	envelope := envelopeWith(t, payloads.TransactionStatusChangedEvent{
		TransactionID: uuid.New(),
		BuyerID:       buyerID,
		SellerID:      sellerID,
		OldStatus:     enums.TransactionStatusAccepted,
		NewStatus:     enums.TransactionStatusPickedUp,
		ActorID:       sellerID,
	})

	rows, err := consumer.rowsForEvent(enums.EventTransactionStatus, envelope)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, buyerID, rows[0].UserID)
}

func TestRowsForEventPaidTargetsSeller(t *testing.T) {
	consumer := &Consumer{}
	sellerID := uuid.New()
	envelope := envelopeWith(t, payloads.TransactionPaidEvent{
		TransactionID: uuid.New(),
		BuyerID:       uuid.New(),
		SellerID:      sellerID,
		Amount:        decimal.NewFromInt(550),
		PaymentMethod: enums.PaymentMethodOnline,
	})

	rows, err := consumer.rowsForEvent(enums.EventTransactionPaid, envelope)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, sellerID, rows[0].UserID)
	require.Equal(t, enums.NotificationPaymentReceived, rows[0].Type)
	require.Contains(t, rows[0].Body, "550.00")
}

func TestRowsForEventCancelledSkipsActor(t *testing.T) {
	consumer := &Consumer{}
	buyerID := uuid.New()
	sellerID := uuid.New()
	envelope := envelopeWith(t, payloads.TransactionCancelledEvent{
		TransactionID: uuid.New(),
		BuyerID:       buyerID,
		SellerID:      sellerID,
		CancelledAt:   time.Now().UTC(),
	})
	envelope.Actor = &outbox.ActorRef{UserID: buyerID}

	rows, err := consumer.rowsForEvent(enums.EventTransactionCancelled, envelope)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, sellerID, rows[0].UserID)
}

func TestRowsForEventMessageTargetsRecipient(t *testing.T) {
	consumer := &Consumer{}
	recipientID := uuid.New()
	envelope := envelopeWith(t, payloads.MessagePostedEvent{
		MessageID:      uuid.New(),
		ConversationID: uuid.New(),
		SenderID:       uuid.New(),
		RecipientID:    recipientID,
		Type:           enums.MessageTypeText,
		Preview:        "is this still available?",
	})

	rows, err := consumer.rowsForEvent(enums.EventMessagePosted, envelope)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, recipientID, rows[0].UserID)
	require.Equal(t, "is this still available?", rows[0].Body)
}

func TestRowsForEventVerificationApproved(t *testing.T) {
	consumer := &Consumer{}
	userID := uuid.New()
	envelope := envelopeWith(t, payloads.VerificationReviewedEvent{
		RequestID:  uuid.New(),
		UserID:     userID,
		Status:     enums.RequestStatusApproved,
		ReviewerID: uuid.New(),
	})

	rows, err := consumer.rowsForEvent(enums.EventVerificationReviewed, envelope)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, userID, rows[0].UserID)
	require.Equal(t, enums.NotificationRequestReviewed, rows[0].Type)
	require.Equal(t, "You are verified", rows[0].Title)
}

func TestRowsForEventUnhandledType(t *testing.T) {
	consumer := &Consumer{}
	envelope := envelopeWith(t, payloads.WalletTopUpEvent{
		WalletID: uuid.New(),
		UserID:   uuid.New(),
		Amount:   decimal.NewFromInt(100),
	})

	rows, err := consumer.rowsForEvent(enums.EventWalletTopUp, envelope)
	require.NoError(t, err)
	require.Empty(t, rows)
}
