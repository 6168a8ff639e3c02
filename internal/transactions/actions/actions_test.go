package actions

import (
	"fmt"
	"testing"

	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/stretchr/testify/require"
)

type resolveCase struct {
	status      enums.TransactionStatus
	role        enums.TransactionRole
	payment     enums.PaymentMethod
	fulfillment enums.FulfillmentMethod
	want        string
}

func runResolveCases(t *testing.T, postType enums.PostType, cases []resolveCase) {
	t.Helper()
	for _, tc := range cases {
		name := fmt.Sprintf("%s/%s/%s/%s/%s", postType, tc.status, tc.role, tc.payment, tc.fulfillment)
		t.Run(name, func(t *testing.T) {
			got := Resolve(Input{
				PostType:    postType,
				Status:      tc.status,
				Role:        tc.role,
				Payment:     tc.payment,
				Fulfillment: tc.fulfillment,
			})
			require.Equal(t, tc.want, got)
		})
	}
}

func TestResolveSale(t *testing.T) {
	runResolveCases(t, enums.PostTypeSale, []resolveCase{
		{enums.TransactionStatusPending, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Waiting for Seller"},
		{enums.TransactionStatusPending, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentDelivery, ""},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Pay Now"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Waiting for Payment"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Waiting for Pickup"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Order Picked Up"},
		{enums.TransactionStatusPaid, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Order Picked Up"},
		{enums.TransactionStatusPaid, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Waiting for Delivery"},
		{enums.TransactionStatusPickedUp, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "On Hold"},
		{enums.TransactionStatusPickedUp, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Order Received"},
		{enums.TransactionStatusPickedUp, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Order Received"},
		{enums.TransactionStatusCompleted, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, ""},
		{enums.TransactionStatusCancelled, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusReturned, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, ""},
	})
}

func TestResolveRent(t *testing.T) {
	runResolveCases(t, enums.PostTypeRent, []resolveCase{
		{enums.TransactionStatusPending, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Waiting for Seller"},
		{enums.TransactionStatusPending, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Waiting for Pickup"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Item PickedUp"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Pay Now"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Waiting for Payment"},
		{enums.TransactionStatusPaid, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Waiting for Pickup"},
		{enums.TransactionStatusPaid, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Item PickedUp"},
		{enums.TransactionStatusPaid, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusPickedUp, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Return Item"},
		{enums.TransactionStatusPickedUp, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Waiting for Return"},
		{enums.TransactionStatusReturned, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Confirm Return"},
		{enums.TransactionStatusReturned, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Waiting for Confirmation"},
		{enums.TransactionStatusCompleted, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, ""},
	})
}

func TestResolveTrade(t *testing.T) {
	runResolveCases(t, enums.PostTypeTrade, []resolveCase{
		{enums.TransactionStatusPending, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Waiting for Seller"},
		{enums.TransactionStatusPending, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Hand Over Item"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Waiting for Buyer"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Hand Over Item & Cash"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Waiting for Buyer"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Pay Now"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Waiting for Payment"},
		{enums.TransactionStatusPaid, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Hand Over Item"},
		{enums.TransactionStatusPaid, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Waiting for Buyer"},
		{enums.TransactionStatusPaid, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusReceived, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Confirm Item Received"},
		{enums.TransactionStatusReceived, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Waiting for Confirmation"},
		{enums.TransactionStatusReceived, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Confirm Item Received"},
		{enums.TransactionStatusCompleted, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, ""},
	})
}

func TestResolveEmergencyLending(t *testing.T) {
	runResolveCases(t, enums.PostTypeEmergencyLending, []resolveCase{
		{enums.TransactionStatusPending, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Waiting for Lender"},
		{enums.TransactionStatusPending, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Item PickedUp"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Waiting for Pickup"},
		{enums.TransactionStatusPickedUp, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Return Item"},
		{enums.TransactionStatusPickedUp, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Waiting for Return"},
		{enums.TransactionStatusReturned, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Confirm Return"},
		{enums.TransactionStatusReturned, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Waiting for Confirmation"},
		{enums.TransactionStatusPaid, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusCompleted, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, ""},
	})
}

func TestResolvePasaBuy(t *testing.T) {
	runResolveCases(t, enums.PostTypePasaBuy, []resolveCase{
		{enums.TransactionStatusPending, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Waiting for Seller"},
		{enums.TransactionStatusPending, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Pay Now"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Waiting for Payment"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Pay Now"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Waiting for Payment"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Waiting for Meetup"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Items PickedUp"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentDelivery, ""},
		{enums.TransactionStatusPaid, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Items PickedUp"},
		{enums.TransactionStatusPaid, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Waiting for Delivery"},
		{enums.TransactionStatusPaid, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Items PickedUp"},
		{enums.TransactionStatusPaid, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentMeetup, "Waiting for Meetup"},
		{enums.TransactionStatusPaid, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusPickedUp, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "Order Received"},
		{enums.TransactionStatusPickedUp, enums.RoleSales, enums.PaymentMethodOnline, enums.FulfillmentDelivery, "On Hold"},
		{enums.TransactionStatusPickedUp, enums.RolePurchases, enums.PaymentMethodCash, enums.FulfillmentMeetup, "Order Received"},
		{enums.TransactionStatusPickedUp, enums.RoleSales, enums.PaymentMethodCash, enums.FulfillmentMeetup, "On Hold"},
		{enums.TransactionStatusCompleted, enums.RolePurchases, enums.PaymentMethodOnline, enums.FulfillmentDelivery, ""},
	})
}

func TestResolveGiveaway(t *testing.T) {
	runResolveCases(t, enums.PostTypeGiveaway, []resolveCase{
		{enums.TransactionStatusPending, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Waiting for Giver"},
		{enums.TransactionStatusPending, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, ""},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Item PickedUp"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Waiting for Meetup"},
		{enums.TransactionStatusAccepted, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentDelivery, "Shipped"},
		{enums.TransactionStatusAccepted, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentDelivery, "Waiting for Delivery"},
		{enums.TransactionStatusPickedUp, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentMeetup, "Received"},
		{enums.TransactionStatusPickedUp, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentMeetup, "On Hold"},
		{enums.TransactionStatusShipped, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentDelivery, "Received"},
		{enums.TransactionStatusShipped, enums.RoleSales, enums.PaymentMethodNone, enums.FulfillmentDelivery, "On Hold"},
		{enums.TransactionStatusCompleted, enums.RolePurchases, enums.PaymentMethodNone, enums.FulfillmentDelivery, ""},
	})
}

func TestResolveUnknownPostType(t *testing.T) {
	got := Resolve(Input{
		PostType: enums.PostType("Barter"),
		Status:   enums.TransactionStatusPending,
		Role:     enums.RolePurchases,
	})
	require.Empty(t, got)
}
