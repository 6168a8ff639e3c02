package payloads

import (
	"time"

	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCreatedEvent signals a buyer started a transaction on a post.
type TransactionCreatedEvent struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	PostID        uuid.UUID       `json:"post_id"`
	PostType      enums.PostType  `json:"post_type"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	SellerID      uuid.UUID       `json:"seller_id"`
	Total         decimal.Decimal `json:"total"`
}

// TransactionAcceptedEvent is emitted when a seller accepts a pending request.
type TransactionAcceptedEvent struct {
	TransactionID uuid.UUID      `json:"transaction_id"`
	PostID        uuid.UUID      `json:"post_id"`
	PostType      enums.PostType `json:"post_type"`
	BuyerID       uuid.UUID      `json:"buyer_id"`
	SellerID      uuid.UUID      `json:"seller_id"`
}

// TransactionStatusChangedEvent carries every workflow step both parties see live.
type TransactionStatusChangedEvent struct {
	TransactionID uuid.UUID               `json:"transaction_id"`
	PostID        uuid.UUID               `json:"post_id"`
	PostType      enums.PostType          `json:"post_type"`
	BuyerID       uuid.UUID               `json:"buyer_id"`
	SellerID      uuid.UUID               `json:"seller_id"`
	OldStatus     enums.TransactionStatus `json:"old_status"`
	NewStatus     enums.TransactionStatus `json:"new_status"`
	ActorID       uuid.UUID               `json:"actor_id"`
}

// TransactionPaidEvent is emitted when payment settles, whether wallet or GCash.
type TransactionPaidEvent struct {
	TransactionID uuid.UUID           `json:"transaction_id"`
	PostID        uuid.UUID           `json:"post_id"`
	PostType      enums.PostType      `json:"post_type"`
	BuyerID       uuid.UUID           `json:"buyer_id"`
	SellerID      uuid.UUID           `json:"seller_id"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CheckoutID    string              `json:"checkout_id,omitempty"`
}

// TransactionCompletedEvent marks the terminal happy path.
type TransactionCompletedEvent struct {
	TransactionID uuid.UUID      `json:"transaction_id"`
	PostID        uuid.UUID      `json:"post_id"`
	PostType      enums.PostType `json:"post_type"`
	BuyerID       uuid.UUID      `json:"buyer_id"`
	SellerID      uuid.UUID      `json:"seller_id"`
	CompletedAt   time.Time      `json:"completed_at"`
}

// TransactionCancelledEvent is emitted when either party cancels before completion.
type TransactionCancelledEvent struct {
	TransactionID uuid.UUID      `json:"transaction_id"`
	PostID        uuid.UUID      `json:"post_id"`
	PostType      enums.PostType `json:"post_type"`
	BuyerID       uuid.UUID      `json:"buyer_id"`
	SellerID      uuid.UUID      `json:"seller_id"`
	CancelledAt   time.Time      `json:"cancelled_at"`
	Reason        string         `json:"reason,omitempty"`
}

// WalletTopUpEvent reports a settled GCash top-up.
type WalletTopUpEvent struct {
	WalletID     uuid.UUID       `json:"wallet_id"`
	UserID       uuid.UUID       `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// EscrowReleasedEvent reports escrowed funds moving to the seller on completion.
type EscrowReleasedEvent struct {
	WalletID      uuid.UUID       `json:"wallet_id"`
	UserID        uuid.UUID       `json:"user_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// MessagePostedEvent fans a new chat message out to the other participant.
type MessagePostedEvent struct {
	MessageID      uuid.UUID         `json:"message_id"`
	ConversationID uuid.UUID         `json:"conversation_id"`
	SenderID       uuid.UUID         `json:"sender_id"`
	RecipientID    uuid.UUID         `json:"recipient_id"`
	Type           enums.MessageType `json:"type"`
	Preview        string            `json:"preview,omitempty"`
}

// VerificationReviewedEvent notifies a student their request was decided.
type VerificationReviewedEvent struct {
	RequestID  uuid.UUID           `json:"request_id"`
	UserID     uuid.UUID           `json:"user_id"`
	Status     enums.RequestStatus `json:"status"`
	ReviewerID uuid.UUID           `json:"reviewer_id"`
}
