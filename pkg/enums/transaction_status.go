package enums

import "fmt"

// TransactionStatus tracks the lifecycle of a marketplace transaction.
// The label casing mirrors what the status-update endpoints accept and
// what the mobile/web clients render.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusAccepted  TransactionStatus = "Accepted"
	TransactionStatusPaid      TransactionStatus = "Paid"
	TransactionStatusPickedUp  TransactionStatus = "PickedUp"
	TransactionStatusShipped   TransactionStatus = "Shipped"
	TransactionStatusReceived  TransactionStatus = "Received"
	TransactionStatusReturned  TransactionStatus = "Returned"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusCancelled TransactionStatus = "Cancelled"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusAccepted,
	TransactionStatusPaid,
	TransactionStatusPickedUp,
	TransactionStatusShipped,
	TransactionStatusReceived,
	TransactionStatusReturned,
	TransactionStatusCompleted,
	TransactionStatusCancelled,
}

// String implements fmt.Stringer.
func (t TransactionStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionStatus.
func (t TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (t TransactionStatus) IsTerminal() bool {
	return t == TransactionStatusCompleted || t == TransactionStatusCancelled
}

// ParseTransactionStatus converts raw input into a TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	for _, candidate := range validTransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}
