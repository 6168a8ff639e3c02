// Package payments settles online payments. Buyers either spend their
// wallet balance or check out through GCash; both paths end with the
// transaction marked Paid and the amount held in escrow until the
// transaction completes.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/internal/transactions"
	"github.com/educart-ph/educart-backend/internal/wallet"
	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/gcash"
	"github.com/educart-ph/educart-backend/pkg/logger"
)

const (
	transactionReferencePrefix = "txn_"
	topUpReferencePrefix       = "topup_"

	webhookEventCheckoutPaid = "checkout.paid"

	webhookDedupeTTL = 24 * time.Hour
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type transactionSettler interface {
	MarkPaid(ctx context.Context, input transactions.MarkPaidInput) (*models.Transaction, error)
}

type walletService interface {
	Hold(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error
	TopUp(ctx context.Context, input wallet.TopUpInput) (*models.Wallet, error)
}

type checkoutClient interface {
	CreateCheckout(ctx context.Context, req gcash.CheckoutRequest) (*gcash.Checkout, error)
	VerifyWebhookSignature(body []byte, signature string) error
}

type dedupeStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(ctx context.Context, keys ...string) error
}

// PayInput settles a transaction from the buyer's wallet balance.
type PayInput struct {
	TransactionID uuid.UUID
	ActorID       uuid.UUID
}

// CheckoutInput starts a GCash checkout for a transaction.
type CheckoutInput struct {
	TransactionID uuid.UUID
	ActorID       uuid.UUID
}

// TopUpCheckoutInput starts a GCash checkout that tops up a wallet.
type TopUpCheckoutInput struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

// Service defines payment operations.
type Service interface {
	PayWithWallet(ctx context.Context, input PayInput) (*models.Transaction, error)
	CreateCheckout(ctx context.Context, input CheckoutInput) (*gcash.Checkout, error)
	CreateTopUpCheckout(ctx context.Context, input TopUpCheckoutInput) (*gcash.Checkout, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type service struct {
	repo    transactions.Repository
	settler transactionSettler
	wallet  walletService
	gcash   checkoutClient
	dedupe  dedupeStore
	tx      txRunner
	logg    *logger.Logger
}

// NewService builds a payments service with the required dependencies.
func NewService(repo transactions.Repository, settler transactionSettler, walletSvc walletService, gcashClient checkoutClient, dedupe dedupeStore, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if settler == nil {
		return nil, fmt.Errorf("transaction settler required")
	}
	if walletSvc == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if gcashClient == nil {
		return nil, fmt.Errorf("gcash client required")
	}
	if dedupe == nil {
		return nil, fmt.Errorf("dedupe store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		settler: settler,
		wallet:  walletSvc,
		gcash:   gcashClient,
		dedupe:  dedupe,
		tx:      tx,
		logg:    logg,
	}, nil
}

// loadPayable returns the transaction when the actor is its buyer and
// it is awaiting an online payment.
func (s *service) loadPayable(ctx context.Context, transactionID, actorID uuid.UUID) (*models.Transaction, error) {
	if transactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	txn, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	if txn.BuyerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the buyer can pay")
	}
	if txn.PaymentMethod != enums.PaymentMethodOnline {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "transaction is not paid online")
	}
	if txn.Status != enums.TransactionStatusAccepted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "transaction is not awaiting payment")
	}
	if !txn.Total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "nothing to pay")
	}
	return txn, nil
}

func (s *service) PayWithWallet(ctx context.Context, input PayInput) (*models.Transaction, error) {
	txn, err := s.loadPayable(ctx, input.TransactionID, input.ActorID)
	if err != nil {
		return nil, err
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.wallet.Hold(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}
	return s.settler.MarkPaid(ctx, transactions.MarkPaidInput{TransactionID: txn.ID})
}

func (s *service) CreateCheckout(ctx context.Context, input CheckoutInput) (*gcash.Checkout, error) {
	txn, err := s.loadPayable(ctx, input.TransactionID, input.ActorID)
	if err != nil {
		return nil, err
	}
	checkout, err := s.gcash.CreateCheckout(ctx, gcash.CheckoutRequest{
		ReferenceID: transactionReferencePrefix + txn.ID.String(),
		Amount:      txn.Total,
		Description: fmt.Sprintf("EduCart %s payment", strings.ToLower(string(txn.PostType))),
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, txn.ID, map[string]any{"checkout_id": checkout.CheckoutID}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store checkout id")
	}
	return checkout, nil
}

func (s *service) CreateTopUpCheckout(ctx context.Context, input TopUpCheckoutInput) (*gcash.Checkout, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "top up amount must be positive")
	}
	return s.gcash.CreateCheckout(ctx, gcash.CheckoutRequest{
		ReferenceID: topUpReferencePrefix + input.UserID.String(),
		Amount:      input.Amount,
		Description: "EduCart wallet top up",
	})
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		CheckoutID  string `json:"checkout_id"`
		ReferenceID string `json:"reference_id"`
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
	} `json:"data"`
}

func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if err := s.gcash.VerifyWebhookSignature(body, signature); err != nil {
		return err
	}
	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload")
	}
	if event.Event != webhookEventCheckoutPaid {
		s.logg.Info(s.logg.WithField(ctx, "event", event.Event), "ignoring gcash webhook event")
		return nil
	}
	if event.Data.CheckoutID == "" || event.Data.ReferenceID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "webhook payload missing identifiers")
	}

	key := s.dedupe.IdempotencyKey("gcash:webhook", event.Data.CheckoutID)
	fresh, err := s.dedupe.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), webhookDedupeTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "webhook dedupe")
	}
	if !fresh {
		return nil
	}

	if err := s.settleEvent(ctx, event); err != nil {
		// The key means the checkout settled. A failed settlement must
		// stay retryable, so release the key before surfacing the error.
		if delErr := s.dedupe.Del(ctx, key); delErr != nil {
			s.logg.Error(s.logg.WithField(ctx, "checkout_id", event.Data.CheckoutID), "release webhook dedupe key", delErr)
		}
		return err
	}
	return nil
}

func (s *service) settleEvent(ctx context.Context, event webhookEvent) error {
	amount, err := decimal.NewFromString(event.Data.Amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse webhook amount")
	}

	switch {
	case strings.HasPrefix(event.Data.ReferenceID, transactionReferencePrefix):
		return s.settleTransaction(ctx, strings.TrimPrefix(event.Data.ReferenceID, transactionReferencePrefix), event.Data.CheckoutID, amount)
	case strings.HasPrefix(event.Data.ReferenceID, topUpReferencePrefix):
		return s.settleTopUp(ctx, strings.TrimPrefix(event.Data.ReferenceID, topUpReferencePrefix), event.Data.CheckoutID, amount)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "unknown webhook reference")
}

// settleTransaction credits the paid amount into the buyer's wallet,
// holds it in escrow, and marks the transaction Paid.
func (s *service) settleTransaction(ctx context.Context, rawID, checkoutID string, amount decimal.Decimal) error {
	transactionID, err := uuid.Parse(rawID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse transaction reference")
	}
	txn, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	if txn.Status == enums.TransactionStatusPaid {
		return nil
	}
	if !amount.Equal(txn.Total) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "paid amount does not match transaction total")
	}

	if _, err := s.wallet.TopUp(ctx, wallet.TopUpInput{
		UserID:    txn.BuyerID,
		Amount:    amount,
		Reference: checkoutID,
	}); err != nil {
		return err
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.wallet.Hold(ctx, tx, txn)
	}); err != nil {
		return err
	}
	_, err = s.settler.MarkPaid(ctx, transactions.MarkPaidInput{
		TransactionID: txn.ID,
		CheckoutID:    &checkoutID,
	})
	return err
}

func (s *service) settleTopUp(ctx context.Context, rawID, checkoutID string, amount decimal.Decimal) error {
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse top up reference")
	}
	_, err = s.wallet.TopUp(ctx, wallet.TopUpInput{
		UserID:    userID,
		Amount:    amount,
		Reference: checkoutID,
	})
	return err
}
