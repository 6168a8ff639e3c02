// Package analytics turns domain events into BigQuery rows and serves
// the admin dashboard from the resulting table.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/educart-ph/educart-backend/internal/analytics/types"
	"github.com/educart-ph/educart-backend/internal/analytics/worker"
	"github.com/educart-ph/educart-backend/internal/analytics/writer"
	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/outbox/payloads"
)

type rowInserter interface {
	Insert(ctx context.Context, row types.TransactionEventRow) error
}

// NewTransactionEventHandler maps transaction lifecycle events onto the
// transaction_events table. Events on other aggregates are skipped.
func NewTransactionEventHandler(sink rowInserter) (worker.Handler, error) {
	if sink == nil {
		return nil, fmt.Errorf("row inserter required")
	}
	return worker.HandlerFunc(func(ctx context.Context, envelope types.Envelope) error {
		if envelope.AggregateType != enums.AggregateTransaction {
			return nil
		}
		row, err := rowForEnvelope(envelope)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		return sink.Insert(ctx, *row)
	}), nil
}

func rowForEnvelope(envelope types.Envelope) (*types.TransactionEventRow, error) {
	row := &types.TransactionEventRow{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OccurredAt: envelope.OccurredAt,
	}
	payload, err := writer.EncodeJSON(envelope.Payload)
	if err != nil {
		return nil, err
	}
	row.Payload = payload

	switch envelope.EventType {
	case enums.EventTransactionCreated:
		var event payloads.TransactionCreatedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return nil, err
		}
		fillParties(row, event.TransactionID, event.PostID, event.PostType, event.BuyerID, event.SellerID)
		row.AmountCentavos = centavos(event.Total)

	case enums.EventTransactionAccepted:
		var event payloads.TransactionAcceptedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return nil, err
		}
		fillParties(row, event.TransactionID, event.PostID, event.PostType, event.BuyerID, event.SellerID)

	case enums.EventTransactionStatus:
		var event payloads.TransactionStatusChangedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return nil, err
		}
		fillParties(row, event.TransactionID, event.PostID, event.PostType, event.BuyerID, event.SellerID)
		row.Status = strPtr(string(event.NewStatus))

	case enums.EventTransactionPaid:
		var event payloads.TransactionPaidEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return nil, err
		}
		fillParties(row, event.TransactionID, event.PostID, event.PostType, event.BuyerID, event.SellerID)
		row.AmountCentavos = centavos(event.Amount)
		row.PaymentMethod = strPtr(string(event.PaymentMethod))

	case enums.EventTransactionCompleted:
		var event payloads.TransactionCompletedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return nil, err
		}
		fillParties(row, event.TransactionID, event.PostID, event.PostType, event.BuyerID, event.SellerID)
		row.Status = strPtr(string(enums.TransactionStatusCompleted))

	case enums.EventTransactionCancelled:
		var event payloads.TransactionCancelledEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return nil, err
		}
		fillParties(row, event.TransactionID, event.PostID, event.PostType, event.BuyerID, event.SellerID)
		row.Status = strPtr(string(enums.TransactionStatusCancelled))

	default:
		return nil, nil
	}

	return row, nil
}

func fillParties(row *types.TransactionEventRow, transactionID, postID uuid.UUID, postType enums.PostType, buyerID, sellerID uuid.UUID) {
	row.TransactionID = strPtr(transactionID.String())
	if postID != uuid.Nil {
		row.PostID = strPtr(postID.String())
	}
	if postType != "" {
		row.PostType = strPtr(string(postType))
	}
	row.BuyerID = strPtr(buyerID.String())
	row.SellerID = strPtr(sellerID.String())
}

func centavos(amount decimal.Decimal) *int64 {
	value := amount.Mul(decimal.NewFromInt(100)).IntPart()
	return &value
}

func strPtr(value string) *string {
	return &value
}
