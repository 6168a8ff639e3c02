package actions

import "github.com/educart-ph/educart-backend/pkg/enums"

// pasabuyAction covers pasabuy runs, where the seller buys items on the
// buyer's behalf. The flow branches on the payment and fulfillment pair:
// online payment adds a Paid step, and meetup versus delivery changes the
// waiting label the buyer sees after acceptance or payment.
func pasabuyAction(input Input) string {
	buyer := input.Role == enums.RolePurchases
	online := input.Payment == enums.PaymentMethodOnline
	cash := input.Payment == enums.PaymentMethodCash
	meetup := input.Fulfillment == enums.FulfillmentMeetup
	delivery := input.Fulfillment == enums.FulfillmentDelivery

	switch input.Status {
	case enums.TransactionStatusPending:
		if buyer {
			return "Waiting for Seller"
		}
	case enums.TransactionStatusAccepted:
		if online && (delivery || meetup) {
			if buyer {
				return "Pay Now"
			}
			return "Waiting for Payment"
		}
		if cash && meetup {
			if buyer {
				return "Waiting for Meetup"
			}
			return "Items PickedUp"
		}
	case enums.TransactionStatusPaid:
		if online && delivery {
			if buyer {
				return "Waiting for Delivery"
			}
			return "Items PickedUp"
		}
		if online && meetup {
			if buyer {
				return "Waiting for Meetup"
			}
			return "Items PickedUp"
		}
	case enums.TransactionStatusPickedUp:
		if buyer {
			return "Order Received"
		}
		return "On Hold"
	}
	return ""
}
