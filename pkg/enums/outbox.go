package enums

import "fmt"

// OutboxEventType names the domain events stored in outbox_events.
type OutboxEventType string

const (
	EventTransactionCreated    OutboxEventType = "transaction.created"
	EventTransactionAccepted   OutboxEventType = "transaction.accepted"
	EventTransactionStatus     OutboxEventType = "transaction.status_changed"
	EventTransactionPaid       OutboxEventType = "transaction.paid"
	EventTransactionCompleted  OutboxEventType = "transaction.completed"
	EventTransactionCancelled  OutboxEventType = "transaction.cancelled"
	EventWalletTopUp           OutboxEventType = "wallet.topup"
	EventEscrowReleased        OutboxEventType = "wallet.escrow_released"
	EventMessagePosted         OutboxEventType = "chat.message_posted"
	EventVerificationReviewed  OutboxEventType = "request.reviewed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventTransactionCreated,
	EventTransactionAccepted,
	EventTransactionStatus,
	EventTransactionPaid,
	EventTransactionCompleted,
	EventTransactionCancelled,
	EventWalletTopUp,
	EventEscrowReleased,
	EventMessagePosted,
	EventVerificationReviewed,
}

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxAggregateType names the aggregate an event belongs to.
type OutboxAggregateType string

const (
	AggregateTransaction OutboxAggregateType = "transaction"
	AggregateWallet      OutboxAggregateType = "wallet"
	AggregateMessage     OutboxAggregateType = "message"
	AggregateRequest     OutboxAggregateType = "verification_request"
)

var validOutboxAggregateTypes = []OutboxAggregateType{
	AggregateTransaction,
	AggregateWallet,
	AggregateMessage,
	AggregateRequest,
}

// IsValid reports whether the value is a known OutboxAggregateType.
func (o OutboxAggregateType) IsValid() bool {
	for _, candidate := range validOutboxAggregateTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into an OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validOutboxAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox aggregate type %q", value)
}
