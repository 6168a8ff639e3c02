// Package wallet manages user balances. Online payments move money in
// two steps: the buyer's funds are held in escrow at payment time and
// released to the seller when the transaction completes, or refunded
// when it is cancelled.
package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/outbox/payloads"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// TopUpInput credits a wallet from a settled GCash checkout.
type TopUpInput struct {
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Reference string
}

// Service defines wallet operations.
type Service interface {
	EnsureWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	TopUp(ctx context.Context, input TopUpInput) (*models.Wallet, error)
	ListEntries(ctx context.Context, userID uuid.UUID, params ListEntriesParams) (*EntryList, error)

	// Hold debits the buyer inside the caller's transaction and parks
	// the amount in escrow.
	Hold(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error
	// Release pays the held amount out to the seller. No-op when no
	// hold exists or the hold was already settled.
	Release(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error
	// Refund returns the held amount to the buyer. Same idempotency
	// rules as Release.
	Refund(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error
}

// ListEntriesParams bundles ledger listing inputs.
type ListEntriesParams struct {
	Limit  int
	Cursor string
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds a wallet service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

func (s *service) EnsureWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	wallet, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	created, err := s.repo.Create(ctx, &models.Wallet{UserID: userID})
	if err != nil {
		// Lost the race against a concurrent ensure; read the winner.
		if existing, findErr := s.repo.FindByUserID(ctx, userID); findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wallet")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return s.EnsureWallet(ctx, userID)
}

func (s *service) TopUp(ctx context.Context, input TopUpInput) (*models.Wallet, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "top up amount must be positive")
	}

	if _, err := s.EnsureWallet(ctx, input.UserID); err != nil {
		return nil, err
	}

	var result *models.Wallet
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := repo.FindByUserIDForUpdate(ctx, input.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wallet")
		}
		newBalance := locked.CurrentBalance.Add(input.Amount)
		if err := repo.UpdateBalances(ctx, locked.ID, map[string]any{"current_balance": newBalance}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit wallet")
		}
		if _, err := repo.CreateEntry(ctx, &models.WalletEntry{
			WalletID:     locked.ID,
			Type:         enums.WalletEntryTopUp,
			Amount:       input.Amount,
			BalanceAfter: newBalance,
			Metadata:     referenceMetadata(input.Reference),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record top up")
		}
		locked.CurrentBalance = newBalance
		result = locked

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventWalletTopUp,
			AggregateType: enums.AggregateWallet,
			AggregateID:   locked.ID,
			Actor:         &outbox.ActorRef{UserID: input.UserID},
			Data: payloads.WalletTopUpEvent{
				WalletID:     locked.ID,
				UserID:       input.UserID,
				Amount:       input.Amount,
				BalanceAfter: newBalance,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ListEntries(ctx context.Context, userID uuid.UUID, params ListEntriesParams) (*EntryList, error) {
	wallet, err := s.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListEntries(ctx, wallet.ID, pagination.Params{Limit: params.Limit, Cursor: params.Cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wallet entries")
	}
	return list, nil
}

func (s *service) Hold(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if !txn.Total.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "nothing to pay")
	}
	repo := s.repo.WithTx(tx)

	if existing, err := repo.FindEntryByTransactionAndType(ctx, txn.ID, enums.WalletEntryEscrowHold); err == nil && existing != nil {
		return nil
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check escrow hold")
	}

	wallet, err := repo.FindByUserIDForUpdate(ctx, txn.BuyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient wallet balance")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock buyer wallet")
	}
	if wallet.CurrentBalance.LessThan(txn.Total) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient wallet balance")
	}

	newBalance := wallet.CurrentBalance.Sub(txn.Total)
	newEscrow := wallet.EscrowBalance.Add(txn.Total)
	if err := repo.UpdateBalances(ctx, wallet.ID, map[string]any{
		"current_balance": newBalance,
		"escrow_balance":  newEscrow,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "hold escrow")
	}
	_, err = repo.CreateEntry(ctx, &models.WalletEntry{
		WalletID:      wallet.ID,
		TransactionID: &txn.ID,
		Type:          enums.WalletEntryEscrowHold,
		Amount:        txn.Total.Neg(),
		BalanceAfter:  newBalance,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record escrow hold")
	}
	return nil
}

func (s *service) Release(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error {
	return s.settleEscrow(ctx, tx, txn, enums.WalletEntryEscrowRelease)
}

func (s *service) Refund(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error {
	return s.settleEscrow(ctx, tx, txn, enums.WalletEntryEscrowRefund)
}

// settleEscrow moves a held amount out of the buyer's escrow, either to
// the seller's balance (release) or back to the buyer (refund).
func (s *service) settleEscrow(ctx context.Context, tx *gorm.DB, txn *models.Transaction, entryType enums.WalletEntryType) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	repo := s.repo.WithTx(tx)

	hold, err := repo.FindEntryByTransactionAndType(ctx, txn.ID, enums.WalletEntryEscrowHold)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check escrow hold")
	}
	for _, settled := range []enums.WalletEntryType{enums.WalletEntryEscrowRelease, enums.WalletEntryEscrowRefund} {
		if _, err := repo.FindEntryByTransactionAndType(ctx, txn.ID, settled); err == nil {
			return nil
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check escrow settlement")
		}
	}

	amount := hold.Amount.Abs()

	buyerWallet, err := repo.FindByUserIDForUpdate(ctx, txn.BuyerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock buyer wallet")
	}
	newEscrow := buyerWallet.EscrowBalance.Sub(amount)
	if newEscrow.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "escrow balance out of sync")
	}

	if entryType == enums.WalletEntryEscrowRefund {
		newBalance := buyerWallet.CurrentBalance.Add(amount)
		if err := repo.UpdateBalances(ctx, buyerWallet.ID, map[string]any{
			"current_balance": newBalance,
			"escrow_balance":  newEscrow,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund escrow")
		}
		_, err = repo.CreateEntry(ctx, &models.WalletEntry{
			WalletID:      buyerWallet.ID,
			TransactionID: &txn.ID,
			Type:          entryType,
			Amount:        amount,
			BalanceAfter:  newBalance,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record escrow refund")
		}
		return nil
	}

	if err := repo.UpdateBalances(ctx, buyerWallet.ID, map[string]any{
		"escrow_balance": newEscrow,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release escrow")
	}

	sellerWallet, err := s.ensureWalletTx(ctx, repo, txn.SellerID)
	if err != nil {
		return err
	}
	newSellerBalance := sellerWallet.CurrentBalance.Add(amount)
	if err := repo.UpdateBalances(ctx, sellerWallet.ID, map[string]any{
		"current_balance": newSellerBalance,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit seller wallet")
	}
	_, err = repo.CreateEntry(ctx, &models.WalletEntry{
		WalletID:      sellerWallet.ID,
		TransactionID: &txn.ID,
		Type:          entryType,
		Amount:        amount,
		BalanceAfter:  newSellerBalance,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record escrow release")
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventEscrowReleased,
		AggregateType: enums.AggregateWallet,
		AggregateID:   sellerWallet.ID,
		Data: payloads.EscrowReleasedEvent{
			WalletID:      sellerWallet.ID,
			UserID:        txn.SellerID,
			TransactionID: txn.ID,
			Amount:        amount,
		},
		Version: 1,
	})
}

func (s *service) ensureWalletTx(ctx context.Context, repo Repository, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := repo.FindByUserIDForUpdate(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wallet")
	}
	created, err := repo.Create(ctx, &models.Wallet{UserID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wallet")
	}
	return created, nil
}

func referenceMetadata(reference string) []byte {
	if reference == "" {
		return nil
	}
	return []byte(fmt.Sprintf(`{"reference":%q}`, reference))
}
