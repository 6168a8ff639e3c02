package actions

import "github.com/educart-ph/educart-backend/pkg/enums"

// saleAction covers direct sales. The seller's accept and reject choices
// on a pending request are rendered by the client, so Pending resolves to
// a waiting label for the buyer only.
func saleAction(input Input) string {
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
			return "Order Picked Up"
		}
	case enums.TransactionStatusPaid:
		if buyer {
			return "Waiting for Delivery"
		}
		return "Order Picked Up"
	case enums.TransactionStatusPickedUp:
		if buyer {
			return "Order Received"
		}
		return "On Hold"
	}
	return ""
}
