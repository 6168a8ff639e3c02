package actions

import "github.com/educart-ph/educart-backend/pkg/enums"

// PayNowLabel is the one action that never advances status directly; it
// is settled through the payments flow, which marks the transaction Paid.
const PayNowLabel = "Pay Now"

// transitionTargets maps each actionable label to the status the
// transaction moves to when its owner presses the button. Waiting and
// on-hold labels are absent because they carry no transition.
var transitionTargets = map[string]enums.TransactionStatus{
	"Order Picked Up":       enums.TransactionStatusPickedUp,
	"Item PickedUp":         enums.TransactionStatusPickedUp,
	"Items PickedUp":        enums.TransactionStatusPickedUp,
	"Shipped":               enums.TransactionStatusShipped,
	"Hand Over Item":        enums.TransactionStatusReceived,
	"Hand Over Item & Cash": enums.TransactionStatusReceived,
	"Return Item":           enums.TransactionStatusReturned,
	"Order Received":        enums.TransactionStatusCompleted,
	"Received":              enums.TransactionStatusCompleted,
	"Confirm Return":        enums.TransactionStatusCompleted,
	"Confirm Item Received": enums.TransactionStatusCompleted,
}

// TargetStatus returns the status a label transitions to. The second
// return is false for waiting labels, the pay action, and the empty
// label, none of which move the transaction on their own.
func TargetStatus(label string) (enums.TransactionStatus, bool) {
	target, ok := transitionTargets[label]
	return target, ok
}

// IsPaymentAction reports whether the label is settled through a payment
// rather than a direct status update.
func IsPaymentAction(label string) bool {
	return label == PayNowLabel
}
