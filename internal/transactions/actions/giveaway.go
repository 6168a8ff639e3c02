package actions

import "github.com/educart-ph/educart-backend/pkg/enums"

// giveawayAction covers giveaways. The giver moves the item out either
// by meetup pickup or by shipping it, and the claimant confirms receipt.
func giveawayAction(input Input) string {
	buyer := input.Role == enums.RolePurchases

	switch input.Status {
	case enums.TransactionStatusPending:
		if buyer {
			return "Waiting for Giver"
		}
	case enums.TransactionStatusAccepted:
		if input.Fulfillment == enums.FulfillmentMeetup {
			if buyer {
				return "Waiting for Meetup"
			}
			return "Item PickedUp"
		}
		if input.Fulfillment == enums.FulfillmentDelivery {
			if buyer {
				return "Waiting for Delivery"
			}
			return "Shipped"
		}
	case enums.TransactionStatusPickedUp, enums.TransactionStatusShipped:
		if buyer {
			return "Received"
		}
		return "On Hold"
	}
	return ""
}
