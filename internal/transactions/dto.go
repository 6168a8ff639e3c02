package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/pagination"

	"github.com/educart-ph/educart-backend/internal/transactions/actions"
)

// CreateInput carries everything needed to open a transaction against a
// listed post. BuyerSchoolID comes from the authenticated session, not
// the request body.
type CreateInput struct {
	PostID            uuid.UUID
	BuyerID           uuid.UUID
	BuyerSchoolID     uuid.UUID
	PaymentMethod     enums.PaymentMethod
	FulfillmentMethod enums.FulfillmentMethod
	CashAdded         decimal.Decimal
	ServiceFee        decimal.Decimal
	RentStart         *time.Time
	RentEnd           *time.Time
	DropoffLat        *float64
	DropoffLng        *float64
}

// DecisionInput is the seller's accept or reject call on a pending
// transaction.
type DecisionInput struct {
	TransactionID uuid.UUID
	ActorID       uuid.UUID
	Accept        bool
}

// ActionInput asks the service to perform the button action the actor
// currently sees on the transaction card.
type ActionInput struct {
	TransactionID uuid.UUID
	ActorID       uuid.UUID
	Label         string
}

// CancelInput withdraws a non-terminal transaction.
type CancelInput struct {
	TransactionID uuid.UUID
	ActorID       uuid.UUID
	Reason        string
}

// MarkPaidInput settles a transaction after a successful payment.
type MarkPaidInput struct {
	TransactionID uuid.UUID
	CheckoutID    *string
}

// View is a transaction as seen by one participant, with the action
// label resolved for their side.
type View struct {
	Transaction *models.Transaction   `json:"transaction"`
	Role        enums.TransactionRole `json:"role"`
	Action      string                `json:"action"`
}

// ListRow is one entry of a purchases or sales listing.
type ListRow struct {
	Transaction models.Transaction `json:"transaction"`
	Action      string             `json:"action"`
}

// TransactionList is a cursor page of transactions for one side.
type TransactionList struct {
	Items      []models.Transaction `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
	HasMore    bool                 `json:"has_more"`
}

// ViewList pairs each listed transaction with its resolved action.
type ViewList struct {
	Items      []ListRow `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
	HasMore    bool      `json:"has_more"`
}

func resolveAction(txn *models.Transaction, role enums.TransactionRole) string {
	return actions.Resolve(actions.Input{
		PostType:    txn.PostType,
		Status:      txn.Status,
		Role:        role,
		Payment:     txn.PaymentMethod,
		Fulfillment: txn.FulfillmentMethod,
	})
}

// ListParams bundles the inputs of a purchases or sales listing.
type ListParams struct {
	UserID  uuid.UUID
	Role    enums.TransactionRole
	Page    pagination.Params
	Filters ListFilters
}
