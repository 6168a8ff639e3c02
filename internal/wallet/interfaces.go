package wallet

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

// Repository defines persistence operations for wallets and their
// ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	UpdateBalances(ctx context.Context, walletID uuid.UUID, updates map[string]any) error
	CreateEntry(ctx context.Context, entry *models.WalletEntry) (*models.WalletEntry, error)
	FindEntryByTransactionAndType(ctx context.Context, transactionID uuid.UUID, entryType enums.WalletEntryType) (*models.WalletEntry, error)
	ListEntries(ctx context.Context, walletID uuid.UUID, params pagination.Params) (*EntryList, error)
}

// EntryList is a cursor page of wallet ledger entries.
type EntryList struct {
	Items      []models.WalletEntry `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
	HasMore    bool                 `json:"has_more"`
}
