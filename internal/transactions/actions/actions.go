// Package actions resolves the call-to-action label shown on a
// transaction card. The label depends on the listing type, the current
// transaction status, the viewer's side of the deal, and the agreed
// payment and fulfillment methods. Resolution is a pure lookup with no
// side effects; tuples with no defined action resolve to an empty label.
package actions

import (
	"github.com/educart-ph/educart-backend/pkg/enums"
)

// Input carries the full tuple needed to resolve an action label.
type Input struct {
	PostType    enums.PostType
	Status      enums.TransactionStatus
	Role        enums.TransactionRole
	Payment     enums.PaymentMethod
	Fulfillment enums.FulfillmentMethod
}

// Resolve returns the action label for the given tuple. An empty string
// means the viewer has no button for this state.
func Resolve(input Input) string {
	switch input.PostType {
	case enums.PostTypeSale:
		return saleAction(input)
	case enums.PostTypeRent:
		return rentAction(input)
	case enums.PostTypeTrade:
		return tradeAction(input)
	case enums.PostTypeEmergencyLending:
		return lendingAction(input)
	case enums.PostTypePasaBuy:
		return pasabuyAction(input)
	case enums.PostTypeGiveaway:
		return giveawayAction(input)
	default:
		return ""
	}
}
