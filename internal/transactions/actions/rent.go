package actions

import "github.com/educart-ph/educart-backend/pkg/enums"

// rentAction covers rentals. Online payment inserts a Paid step between
// acceptance and pickup; cash rentals go straight to pickup. Both flows
// converge on the return and confirmation steps.
func rentAction(input Input) string {
	buyer := input.Role == enums.RolePurchases

	switch input.Status {
	case enums.TransactionStatusPending:
		if buyer {
			return "Waiting for Seller"
		}
	case enums.TransactionStatusAccepted:
		if input.Payment == enums.PaymentMethodOnline {
			if buyer {
				return "Pay Now"
			}
			return "Waiting for Payment"
		}
		if input.Payment == enums.PaymentMethodCash {
			if buyer {
				return "Waiting for Pickup"
			}
			return "Item PickedUp"
		}
	case enums.TransactionStatusPaid:
		if input.Payment == enums.PaymentMethodOnline {
			if buyer {
				return "Waiting for Pickup"
			}
			return "Item PickedUp"
		}
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
