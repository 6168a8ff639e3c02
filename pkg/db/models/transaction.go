package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/educart-ph/educart-backend/pkg/enums"
)

// Transaction is one agreed exchange between a buyer and a seller for
// one post. Valid next states depend jointly on post_type,
// payment_method, and fulfillment_method; once the status reaches a
// terminal state the row is immutable.
type Transaction struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID            uuid.UUID               `gorm:"column:post_id;type:uuid;not null" json:"post_id"`
	BuyerID           uuid.UUID               `gorm:"column:buyer_id;type:uuid;not null" json:"buyer_id"`
	SellerID          uuid.UUID               `gorm:"column:seller_id;type:uuid;not null" json:"seller_id"`
	ConversationID    *uuid.UUID              `gorm:"column:conversation_id;type:uuid" json:"conversation_id,omitempty"`
	PostType          enums.PostType          `gorm:"column:post_type;type:text;not null" json:"post_type"`
	Status            enums.TransactionStatus `gorm:"column:status;type:text;not null;default:'Pending'" json:"status"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;type:text" json:"payment_method"`
	FulfillmentMethod enums.FulfillmentMethod `gorm:"column:fulfillment_method;type:text;not null;default:'Meetup'" json:"fulfillment_method"`
	Price             decimal.Decimal         `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	CashAdded         decimal.Decimal         `gorm:"column:cash_added;type:numeric(12,2);not null;default:0" json:"cash_added"`
	ServiceFee        decimal.Decimal         `gorm:"column:service_fee;type:numeric(12,2);not null;default:0" json:"service_fee"`
	DeliveryFee       decimal.Decimal         `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0" json:"delivery_fee"`
	Total             decimal.Decimal         `gorm:"column:total;type:numeric(12,2);not null;default:0" json:"total"`
	RentStart         *time.Time              `gorm:"column:rent_start" json:"rent_start,omitempty"`
	RentEnd           *time.Time              `gorm:"column:rent_end" json:"rent_end,omitempty"`
	PickupLat         *float64                `gorm:"column:pickup_lat" json:"pickup_lat,omitempty"`
	PickupLng         *float64                `gorm:"column:pickup_lng" json:"pickup_lng,omitempty"`
	DropoffLat        *float64                `gorm:"column:dropoff_lat" json:"dropoff_lat,omitempty"`
	DropoffLng        *float64                `gorm:"column:dropoff_lng" json:"dropoff_lng,omitempty"`
	CheckoutID        *string                 `gorm:"column:checkout_id" json:"checkout_id,omitempty"`
	CompletedAt       *time.Time              `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CancelledAt       *time.Time              `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	Post              *Post                   `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Buyer             *User                   `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Seller            *User                   `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
