package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

type stubWalletRepo struct {
	wallets map[uuid.UUID]*models.Wallet
	entries []models.WalletEntry
}

func newStubWalletRepo() *stubWalletRepo {
	return &stubWalletRepo{wallets: make(map[uuid.UUID]*models.Wallet)}
}

func (s *stubWalletRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubWalletRepo) Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	s.wallets[wallet.UserID] = wallet
	return wallet, nil
}

func (s *stubWalletRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, ok := s.wallets[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return wallet, nil
}

func (s *stubWalletRepo) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return s.FindByUserID(ctx, userID)
}

func (s *stubWalletRepo) UpdateBalances(ctx context.Context, walletID uuid.UUID, updates map[string]any) error {
	for _, wallet := range s.wallets {
		if wallet.ID != walletID {
			continue
		}
		if v, ok := updates["current_balance"]; ok {
			wallet.CurrentBalance = v.(decimal.Decimal)
		}
		if v, ok := updates["escrow_balance"]; ok {
			wallet.EscrowBalance = v.(decimal.Decimal)
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (s *stubWalletRepo) CreateEntry(ctx context.Context, entry *models.WalletEntry) (*models.WalletEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.entries = append(s.entries, *entry)
	return entry, nil
}

func (s *stubWalletRepo) FindEntryByTransactionAndType(ctx context.Context, transactionID uuid.UUID, entryType enums.WalletEntryType) (*models.WalletEntry, error) {
	for i := range s.entries {
		entry := s.entries[i]
		if entry.TransactionID != nil && *entry.TransactionID == transactionID && entry.Type == entryType {
			return &entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubWalletRepo) ListEntries(ctx context.Context, walletID uuid.UUID, params pagination.Params) (*EntryList, error) {
	var items []models.WalletEntry
	for _, entry := range s.entries {
		if entry.WalletID == walletID {
			items = append(items, entry)
		}
	}
	return &EntryList{Items: items}, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo *stubWalletRepo, publisher *stubOutboxPublisher) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, publisher)
	require.NoError(t, err)
	return svc
}

func onlineTransaction(total int64) *models.Transaction {
	return &models.Transaction{
		ID:            uuid.New(),
		BuyerID:       uuid.New(),
		SellerID:      uuid.New(),
		PaymentMethod: enums.PaymentMethodOnline,
		Total:         decimal.NewFromInt(total),
	}
}

func TestEnsureWalletCreatesOnce(t *testing.T) {
	repo := newStubWalletRepo()
	svc := newTestService(t, repo, &stubOutboxPublisher{})
	userID := uuid.New()

	first, err := svc.EnsureWallet(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.EnsureWallet(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestTopUpCreditsBalanceAndEmits(t *testing.T) {
	repo := newStubWalletRepo()
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher)
	userID := uuid.New()

	wallet, err := svc.TopUp(context.Background(), TopUpInput{
		UserID:    userID,
		Amount:    decimal.NewFromInt(500),
		Reference: "chk_9",
	})
	require.NoError(t, err)
	require.True(t, wallet.CurrentBalance.Equal(decimal.NewFromInt(500)))
	require.Len(t, repo.entries, 1)
	require.Equal(t, enums.WalletEntryTopUp, repo.entries[0].Type)
	require.True(t, repo.entries[0].BalanceAfter.Equal(decimal.NewFromInt(500)))
	require.Len(t, publisher.events, 1)
	require.Equal(t, enums.EventWalletTopUp, publisher.events[0].EventType)
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t, newStubWalletRepo(), &stubOutboxPublisher{})

	_, err := svc.TopUp(context.Background(), TopUpInput{
		UserID: uuid.New(),
		Amount: decimal.Zero,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestHoldMovesFundsToEscrow(t *testing.T) {
	repo := newStubWalletRepo()
	svc := newTestService(t, repo, &stubOutboxPublisher{})
	txn := onlineTransaction(300)
	repo.wallets[txn.BuyerID] = &models.Wallet{
		ID:             uuid.New(),
		UserID:         txn.BuyerID,
		CurrentBalance: decimal.NewFromInt(500),
	}

	err := svc.Hold(context.Background(), &gorm.DB{}, txn)
	require.NoError(t, err)

	buyer := repo.wallets[txn.BuyerID]
	require.True(t, buyer.CurrentBalance.Equal(decimal.NewFromInt(200)))
	require.True(t, buyer.EscrowBalance.Equal(decimal.NewFromInt(300)))
	require.Len(t, repo.entries, 1)
	require.Equal(t, enums.WalletEntryEscrowHold, repo.entries[0].Type)

	// A second hold for the same transaction is absorbed.
	err = svc.Hold(context.Background(), &gorm.DB{}, txn)
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
}

func TestHoldInsufficientBalance(t *testing.T) {
	repo := newStubWalletRepo()
	svc := newTestService(t, repo, &stubOutboxPublisher{})
	txn := onlineTransaction(300)
	repo.wallets[txn.BuyerID] = &models.Wallet{
		ID:             uuid.New(),
		UserID:         txn.BuyerID,
		CurrentBalance: decimal.NewFromInt(100),
	}

	err := svc.Hold(context.Background(), &gorm.DB{}, txn)
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestReleasePaysSeller(t *testing.T) {
	repo := newStubWalletRepo()
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher)
	txn := onlineTransaction(300)
	repo.wallets[txn.BuyerID] = &models.Wallet{
		ID:             uuid.New(),
		UserID:         txn.BuyerID,
		CurrentBalance: decimal.NewFromInt(500),
	}

	require.NoError(t, svc.Hold(context.Background(), &gorm.DB{}, txn))
	require.NoError(t, svc.Release(context.Background(), &gorm.DB{}, txn))

	buyer := repo.wallets[txn.BuyerID]
	require.True(t, buyer.EscrowBalance.IsZero())
	seller := repo.wallets[txn.SellerID]
	require.NotNil(t, seller)
	require.True(t, seller.CurrentBalance.Equal(decimal.NewFromInt(300)))

	var sawRelease bool
	for _, event := range publisher.events {
		if event.EventType == enums.EventEscrowReleased {
			sawRelease = true
		}
	}
	require.True(t, sawRelease)

	// Releasing twice does not double-pay.
	require.NoError(t, svc.Release(context.Background(), &gorm.DB{}, txn))
	require.True(t, repo.wallets[txn.SellerID].CurrentBalance.Equal(decimal.NewFromInt(300)))
}

func TestRefundReturnsFundsToBuyer(t *testing.T) {
	repo := newStubWalletRepo()
	svc := newTestService(t, repo, &stubOutboxPublisher{})
	txn := onlineTransaction(300)
	repo.wallets[txn.BuyerID] = &models.Wallet{
		ID:             uuid.New(),
		UserID:         txn.BuyerID,
		CurrentBalance: decimal.NewFromInt(500),
	}

	require.NoError(t, svc.Hold(context.Background(), &gorm.DB{}, txn))
	require.NoError(t, svc.Refund(context.Background(), &gorm.DB{}, txn))

	buyer := repo.wallets[txn.BuyerID]
	require.True(t, buyer.CurrentBalance.Equal(decimal.NewFromInt(500)))
	require.True(t, buyer.EscrowBalance.IsZero())
	_, ok := repo.wallets[txn.SellerID]
	require.False(t, ok)
}

func TestReleaseWithoutHoldIsNoop(t *testing.T) {
	repo := newStubWalletRepo()
	svc := newTestService(t, repo, &stubOutboxPublisher{})
	txn := onlineTransaction(300)

	require.NoError(t, svc.Release(context.Background(), &gorm.DB{}, txn))
	require.Empty(t, repo.entries)
}
