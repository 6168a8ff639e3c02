package actions

import "github.com/educart-ph/educart-backend/pkg/enums"

// lendingAction covers emergency lending. Loans are always free and
// always meetup based, so payment and fulfillment never branch the flow.
func lendingAction(input Input) string {
	buyer := input.Role == enums.RolePurchases

	switch input.Status {
	case enums.TransactionStatusPending:
		if buyer {
			return "Waiting for Lender"
		}
	case enums.TransactionStatusAccepted:
		if buyer {
			return "Item PickedUp"
		}
		return "Waiting for Pickup"
	case enums.TransactionStatusPickedUp:
		if buyer {
			return "Return Item"
		}
		return "Waiting for Return"
	case enums.TransactionStatusReturned:
		if buyer {
			return "Waiting for Confirmation"
		}
		return "Confirm Return"
	}
	return ""
}
