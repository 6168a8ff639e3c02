package actions

import "github.com/educart-ph/educart-backend/pkg/enums"

// tradeAction covers item trades. A trade may involve no money at all,
// a cash top-up handed over at meetup, or an online top-up paid before
// the swap. The buyer hands the item over and the seller confirms
// receipt to close the trade.
func tradeAction(input Input) string {
	buyer := input.Role == enums.RolePurchases

	switch input.Status {
	case enums.TransactionStatusPending:
		if buyer {
			return "Waiting for Seller"
		}
	case enums.TransactionStatusAccepted:
		switch input.Payment {
		case enums.PaymentMethodNone:
			if buyer {
				return "Hand Over Item"
			}
			return "Waiting for Buyer"
		case enums.PaymentMethodCash:
			if buyer {
				return "Hand Over Item & Cash"
			}
			return "Waiting for Buyer"
		case enums.PaymentMethodOnline:
			if buyer {
				return "Pay Now"
			}
			return "Waiting for Payment"
		}
	case enums.TransactionStatusPaid:
		if input.Payment == enums.PaymentMethodOnline {
			if buyer {
				return "Hand Over Item"
			}
			return "Waiting for Buyer"
		}
	case enums.TransactionStatusReceived:
		if buyer {
			return "Waiting for Confirmation"
		}
		return "Confirm Item Received"
	}
	return ""
}
