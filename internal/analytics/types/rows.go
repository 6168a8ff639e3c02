package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// TransactionEventRow mirrors the transaction_events BigQuery schema.
// Amounts are stored in centavos so SUMs stay integral.
type TransactionEventRow struct {
	EventID        string             `bigquery:"event_id"`
	EventType      string             `bigquery:"event_type"`
	OccurredAt     time.Time          `bigquery:"occurred_at"`
	TransactionID  *string            `bigquery:"transaction_id"`
	PostID         *string            `bigquery:"post_id"`
	PostType       *string            `bigquery:"post_type"`
	BuyerID        *string            `bigquery:"buyer_id"`
	SellerID       *string            `bigquery:"seller_id"`
	Status         *string            `bigquery:"status"`
	PaymentMethod  *string            `bigquery:"payment_method"`
	AmountCentavos *int64             `bigquery:"amount_centavos"`
	Payload        cbigquery.NullJSON `bigquery:"payload"`
}
