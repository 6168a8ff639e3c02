package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/educart-ph/educart-backend/pkg/enums"
)

// Wallet holds one user's spendable and escrowed PHP balances.
type Wallet struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentBalance decimal.Decimal `gorm:"column:current_balance;type:numeric(12,2);not null;default:0" json:"current_balance"`
	EscrowBalance  decimal.Decimal `gorm:"column:escrow_balance;type:numeric(12,2);not null;default:0" json:"escrow_balance"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// WalletEntry records one immutable balance movement on a wallet.
type WalletEntry struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletID      uuid.UUID             `gorm:"column:wallet_id;type:uuid;not null;index" json:"wallet_id"`
	TransactionID *uuid.UUID            `gorm:"column:transaction_id;type:uuid" json:"transaction_id,omitempty"`
	Type          enums.WalletEntryType `gorm:"column:type;type:text;not null" json:"type"`
	Amount        decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	BalanceAfter  decimal.Decimal       `gorm:"column:balance_after;type:numeric(12,2);not null" json:"balance_after"`
	Metadata      json.RawMessage       `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
