package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/logger"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/outbox/idempotency"
	"github.com/educart-ph/educart-backend/pkg/outbox/payloads"
)

const notificationConsumer = "notification-worker"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and materializes per-user notification rows.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a notification fan-out consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	})

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, notificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	rows, err := c.rowsForEvent(eventType, envelope)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, notificationConsumer, eventID)
		return processResult{nack: true}
	}
	if len(rows) == 0 {
		c.logg.Info(logCtx, "event type not handled")
		return processResult{ack: true}
	}

	for _, row := range rows {
		row.EventID = envelope.EventID
		row.Data = envelope.Data
		if err := c.repo.Create(ctx, row); err != nil {
			c.logg.Error(logCtx, "failed to store notification", err)
			_ = c.idempotency.Delete(ctx, notificationConsumer, eventID)
			return processResult{nack: true}
		}
	}
	c.logg.Info(logCtx, "notifications fanned out")
	return processResult{ack: true}
}

// rowsForEvent maps one domain event to the users who should hear about it.
func (c *Consumer) rowsForEvent(eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) ([]*models.Notification, error) {
	switch eventType {
	case enums.EventTransactionCreated:
		var payload payloads.TransactionCreatedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return []*models.Notification{{
			UserID: payload.SellerID,
			Type:   enums.NotificationTransactionUpdate,
			Title:  "New request on your listing",
			Body:   fmt.Sprintf("A buyer started a %s transaction.", payload.PostType),
		}}, nil

	case enums.EventTransactionAccepted:
		var payload payloads.TransactionAcceptedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return []*models.Notification{{
			UserID: payload.BuyerID,
			Type:   enums.NotificationTransactionUpdate,
			Title:  "Request accepted",
			Body:   "The seller accepted your request.",
		}}, nil

	case enums.EventTransactionStatus:
		var payload payloads.TransactionStatusChangedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		recipient := payload.SellerID
		if payload.ActorID == payload.SellerID {
			recipient = payload.BuyerID
		}
		return []*models.Notification{{
			UserID: recipient,
			Type:   enums.NotificationTransactionUpdate,
			Title:  "Transaction updated",
			Body:   fmt.Sprintf("Status moved to %s.", payload.NewStatus),
		}}, nil

	case enums.EventTransactionPaid:
		var payload payloads.TransactionPaidEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return []*models.Notification{{
			UserID: payload.SellerID,
			Type:   enums.NotificationPaymentReceived,
			Title:  "Payment received",
			Body:   fmt.Sprintf("PHP %s is held in escrow for your sale.", payload.Amount.StringFixed(2)),
		}}, nil

	case enums.EventTransactionCompleted:
		var payload payloads.TransactionCompletedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return []*models.Notification{
			{
				UserID: payload.BuyerID,
				Type:   enums.NotificationTransactionUpdate,
				Title:  "Transaction completed",
				Body:   "Your transaction is complete.",
			},
			{
				UserID: payload.SellerID,
				Type:   enums.NotificationTransactionUpdate,
				Title:  "Transaction completed",
				Body:   "Your transaction is complete.",
			},
		}, nil

	case enums.EventTransactionCancelled:
		var payload payloads.TransactionCancelledEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		rows := make([]*models.Notification, 0, 2)
		for _, userID := range []uuid.UUID{payload.BuyerID, payload.SellerID} {
			if envelope.Actor != nil && envelope.Actor.UserID == userID {
				continue
			}
			rows = append(rows, &models.Notification{
				UserID: userID,
				Type:   enums.NotificationTransactionUpdate,
				Title:  "Transaction cancelled",
				Body:   "The transaction was cancelled.",
			})
		}
		return rows, nil

	case enums.EventMessagePosted:
		var payload payloads.MessagePostedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		body := "You have a new message."
		if payload.Preview != "" {
			body = payload.Preview
		}
		return []*models.Notification{{
			UserID: payload.RecipientID,
			Type:   enums.NotificationNewMessage,
			Title:  "New message",
			Body:   body,
		}}, nil

	case enums.EventVerificationReviewed:
		var payload payloads.VerificationReviewedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		title := "Verification rejected"
		body := "Your verification request was rejected."
		if payload.Status == enums.RequestStatusApproved {
			title = "You are verified"
			body = "Your student verification was approved."
		}
		return []*models.Notification{{
			UserID: payload.UserID,
			Type:   enums.NotificationRequestReviewed,
			Title:  title,
			Body:   body,
		}}, nil
	}

	return nil, nil
}
