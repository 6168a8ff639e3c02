package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/outbox/payloads"

	"github.com/educart-ph/educart-backend/internal/transactions/actions"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// EscrowManager moves held buyer funds when a transaction settles or
// unwinds. Implementations must be no-ops when no hold exists.
type EscrowManager interface {
	Release(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error
	Refund(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error
}

// SystemMessenger drops a system line into the transaction's conversation.
type SystemMessenger interface {
	PostSystemMessage(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, body string) error
}

// DeliveryQuoter prices a delivery leg between two coordinates.
type DeliveryQuoter interface {
	Fee(ctx context.Context, originLat, originLng, destLat, destLng float64) (decimal.Decimal, error)
}

// Service defines transaction lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Transaction, error)
	Decide(ctx context.Context, input DecisionInput) (*models.Transaction, error)
	PerformAction(ctx context.Context, input ActionInput) (*models.Transaction, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Transaction, error)
	MarkPaid(ctx context.Context, input MarkPaidInput) (*models.Transaction, error)
	Get(ctx context.Context, id, viewerID uuid.UUID) (*View, error)
	List(ctx context.Context, params ListParams) (*ViewList, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	escrow    EscrowManager
	messenger SystemMessenger
	quoter    DeliveryQuoter
}

// NewService builds a transactions service with the required dependencies.
// The messenger and quoter are optional; without a quoter, delivery
// transactions are rejected.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, escrow EscrowManager, messenger SystemMessenger, quoter DeliveryQuoter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if escrow == nil {
		return nil, fmt.Errorf("escrow manager required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		outbox:    outboxSvc,
		escrow:    escrow,
		messenger: messenger,
		quoter:    quoter,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Transaction, error) {
	if input.PostID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	post, err := s.repo.FindPostByID(ctx, input.PostID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post.Status != enums.PostStatusListed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "post is not listed")
	}
	if post.UserID == input.BuyerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot transact on your own post")
	}
	if input.BuyerSchoolID != uuid.Nil && post.SchoolID != input.BuyerSchoolID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "post belongs to another school")
	}

	txn := &models.Transaction{
		PostID:            post.ID,
		BuyerID:           input.BuyerID,
		SellerID:          post.UserID,
		PostType:          post.PostType,
		Status:            enums.TransactionStatusPending,
		PaymentMethod:     input.PaymentMethod,
		FulfillmentMethod: input.FulfillmentMethod,
		Price:             post.Price,
		CashAdded:         input.CashAdded,
		ServiceFee:        input.ServiceFee,
		RentStart:         input.RentStart,
		RentEnd:           input.RentEnd,
		PickupLat:         post.PickupLat,
		PickupLng:         post.PickupLng,
		DropoffLat:        input.DropoffLat,
		DropoffLng:        input.DropoffLng,
	}
	if err := s.validateByType(txn); err != nil {
		return nil, err
	}
	if err := s.priceTransaction(ctx, txn); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindActiveByPostAndBuyer(ctx, post.ID, input.BuyerID); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "an active transaction for this post already exists")
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing transaction")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, txn)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
		}
		txn = created

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransactionCreated,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   txn.ID,
			Actor:         &outbox.ActorRef{UserID: input.BuyerID, Role: string(enums.RolePurchases)},
			Data: payloads.TransactionCreatedEvent{
				TransactionID: txn.ID,
				PostID:        txn.PostID,
				PostType:      txn.PostType,
				BuyerID:       txn.BuyerID,
				SellerID:      txn.SellerID,
				Total:         txn.Total,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// validateByType enforces the per-listing-type request shape.
func (s *service) validateByType(txn *models.Transaction) error {
	switch txn.PostType {
	case enums.PostTypeSale:
		if txn.PaymentMethod != enums.PaymentMethodCash && txn.PaymentMethod != enums.PaymentMethodOnline {
			return pkgerrors.New(pkgerrors.CodeValidation, "payment method required for sales")
		}
		if !txn.FulfillmentMethod.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "fulfillment method required")
		}
	case enums.PostTypeRent:
		if txn.PaymentMethod != enums.PaymentMethodCash && txn.PaymentMethod != enums.PaymentMethodOnline {
			return pkgerrors.New(pkgerrors.CodeValidation, "payment method required for rentals")
		}
		if txn.FulfillmentMethod != enums.FulfillmentMeetup {
			return pkgerrors.New(pkgerrors.CodeValidation, "rentals are meetup only")
		}
		if txn.RentStart == nil || txn.RentEnd == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "rental period required")
		}
		if !txn.RentEnd.After(*txn.RentStart) {
			return pkgerrors.New(pkgerrors.CodeValidation, "rental end must be after start")
		}
	case enums.PostTypeTrade:
		if txn.CashAdded.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cash added cannot be negative")
		}
		if txn.CashAdded.IsZero() {
			if txn.PaymentMethod != enums.PaymentMethodNone {
				return pkgerrors.New(pkgerrors.CodeValidation, "payment method not allowed on even trades")
			}
		} else if txn.PaymentMethod != enums.PaymentMethodCash && txn.PaymentMethod != enums.PaymentMethodOnline {
			return pkgerrors.New(pkgerrors.CodeValidation, "payment method required when cash is added")
		}
		if txn.FulfillmentMethod != enums.FulfillmentMeetup {
			return pkgerrors.New(pkgerrors.CodeValidation, "trades are meetup only")
		}
	case enums.PostTypeEmergencyLending:
		if txn.PaymentMethod != enums.PaymentMethodNone {
			return pkgerrors.New(pkgerrors.CodeValidation, "emergency lending is always free")
		}
		if txn.FulfillmentMethod != enums.FulfillmentMeetup {
			return pkgerrors.New(pkgerrors.CodeValidation, "emergency lending is meetup only")
		}
	case enums.PostTypePasaBuy:
		if txn.PaymentMethod != enums.PaymentMethodCash && txn.PaymentMethod != enums.PaymentMethodOnline {
			return pkgerrors.New(pkgerrors.CodeValidation, "payment method required for pasabuy")
		}
		if !txn.FulfillmentMethod.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "fulfillment method required")
		}
		if txn.PaymentMethod == enums.PaymentMethodCash && txn.FulfillmentMethod == enums.FulfillmentDelivery {
			return pkgerrors.New(pkgerrors.CodeValidation, "pasabuy delivery requires online payment")
		}
		if txn.ServiceFee.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "service fee cannot be negative")
		}
	case enums.PostTypeGiveaway:
		if txn.PaymentMethod != enums.PaymentMethodNone {
			return pkgerrors.New(pkgerrors.CodeValidation, "giveaways are always free")
		}
		if !txn.FulfillmentMethod.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "fulfillment method required")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown post type")
	}
	return nil
}

// priceTransaction fixes the money columns at creation time. Delivery
// adds a road-distance fee on top of the agreed price.
func (s *service) priceTransaction(ctx context.Context, txn *models.Transaction) error {
	total := txn.Price

	switch txn.PostType {
	case enums.PostTypeTrade:
		total = txn.CashAdded
	case enums.PostTypeEmergencyLending, enums.PostTypeGiveaway:
		total = decimal.Zero
		txn.Price = decimal.Zero
	case enums.PostTypePasaBuy:
		total = total.Add(txn.ServiceFee)
	}

	if txn.FulfillmentMethod == enums.FulfillmentDelivery && txn.PostType != enums.PostTypeGiveaway {
		if s.quoter == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery is not available")
		}
		if txn.PickupLat == nil || txn.PickupLng == nil || txn.DropoffLat == nil || txn.DropoffLng == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "pickup and dropoff coordinates required for delivery")
		}
		fee, err := s.quoter.Fee(ctx, *txn.PickupLat, *txn.PickupLng, *txn.DropoffLat, *txn.DropoffLng)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "quote delivery fee")
		}
		txn.DeliveryFee = fee
		total = total.Add(fee)
	}

	txn.Total = total
	return nil
}

func (s *service) Decide(ctx context.Context, input DecisionInput) (*models.Transaction, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		txn, err := repo.FindByIDForUpdate(ctx, input.TransactionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}
		if txn.SellerID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the seller can decide a pending transaction")
		}
		if txn.Status != enums.TransactionStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transaction is no longer pending")
		}

		now := time.Now()
		if input.Accept {
			if err := repo.Update(ctx, txn.ID, map[string]any{"status": enums.TransactionStatusAccepted}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept transaction")
			}
			txn.Status = enums.TransactionStatusAccepted
			s.postSystemLine(ctx, tx, txn, "Request accepted by the seller")
			result = txn
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventTransactionAccepted,
				AggregateType: enums.AggregateTransaction,
				AggregateID:   txn.ID,
				Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: string(enums.RoleSales)},
				Data: payloads.TransactionAcceptedEvent{
					TransactionID: txn.ID,
					PostID:        txn.PostID,
					PostType:      txn.PostType,
					BuyerID:       txn.BuyerID,
					SellerID:      txn.SellerID,
				},
				Version: 1,
			})
		}

		updates := map[string]any{
			"status":       enums.TransactionStatusCancelled,
			"cancelled_at": now,
		}
		if err := repo.Update(ctx, txn.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject transaction")
		}
		txn.Status = enums.TransactionStatusCancelled
		txn.CancelledAt = &now
		s.postSystemLine(ctx, tx, txn, "Request declined by the seller")
		result = txn
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransactionCancelled,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   txn.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: string(enums.RoleSales)},
			Data: payloads.TransactionCancelledEvent{
				TransactionID: txn.ID,
				PostID:        txn.PostID,
				PostType:      txn.PostType,
				BuyerID:       txn.BuyerID,
				SellerID:      txn.SellerID,
				CancelledAt:   now,
				Reason:        "rejected by seller",
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) PerformAction(ctx context.Context, input ActionInput) (*models.Transaction, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action required")
	}

	var result *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		txn, err := repo.FindByIDForUpdate(ctx, input.TransactionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}

		role, err := participantRole(txn, input.ActorID)
		if err != nil {
			return err
		}

		expected := resolveAction(txn, role)
		if expected == "" || expected != input.Label {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "action not available in current state")
		}
		if actions.IsPaymentAction(input.Label) {
			return pkgerrors.New(pkgerrors.CodeValidation, "payment is settled through checkout")
		}
		target, ok := actions.TargetStatus(input.Label)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "action carries no transition")
		}

		old := txn.Status
		updates := map[string]any{"status": target}
		now := time.Now()
		if target == enums.TransactionStatusCompleted {
			updates["completed_at"] = now
		}
		if err := repo.Update(ctx, txn.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update transaction status")
		}
		txn.Status = target
		if target == enums.TransactionStatusCompleted {
			txn.CompletedAt = &now
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransactionStatus,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   txn.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: string(role)},
			Data: payloads.TransactionStatusChangedEvent{
				TransactionID: txn.ID,
				PostID:        txn.PostID,
				PostType:      txn.PostType,
				BuyerID:       txn.BuyerID,
				SellerID:      txn.SellerID,
				OldStatus:     old,
				NewStatus:     target,
				ActorID:       input.ActorID,
			},
			Version: 1,
		}); err != nil {
			return err
		}

		s.postSystemLine(ctx, tx, txn, fmt.Sprintf("Status updated to %s", target))

		if target == enums.TransactionStatusCompleted {
			if err := s.settleCompletion(ctx, tx, repo, txn, input.ActorID); err != nil {
				return err
			}
		}
		result = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settleCompletion runs the side effects of reaching Completed: escrow
// release for online payments, marking sale and giveaway posts off the
// board, and the completion event.
func (s *service) settleCompletion(ctx context.Context, tx *gorm.DB, repo Repository, txn *models.Transaction, actorID uuid.UUID) error {
	if txn.PaymentMethod == enums.PaymentMethodOnline {
		if err := s.escrow.Release(ctx, tx, txn); err != nil {
			return err
		}
	}
	if txn.PostType == enums.PostTypeSale || txn.PostType == enums.PostTypeGiveaway {
		if err := repo.UpdatePostStatus(ctx, txn.PostID, enums.PostStatusSold); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark post sold")
		}
	}

	completedAt := time.Now()
	if txn.CompletedAt != nil {
		completedAt = *txn.CompletedAt
	}
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventTransactionCompleted,
		AggregateType: enums.AggregateTransaction,
		AggregateID:   txn.ID,
		Actor:         &outbox.ActorRef{UserID: actorID},
		Data: payloads.TransactionCompletedEvent{
			TransactionID: txn.ID,
			PostID:        txn.PostID,
			PostType:      txn.PostType,
			BuyerID:       txn.BuyerID,
			SellerID:      txn.SellerID,
			CompletedAt:   completedAt,
		},
		Version: 1,
	})
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Transaction, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		txn, err := repo.FindByIDForUpdate(ctx, input.TransactionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}
		role, err := participantRole(txn, input.ActorID)
		if err != nil {
			return err
		}
		if txn.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transaction already closed")
		}

		now := time.Now()
		updates := map[string]any{
			"status":       enums.TransactionStatusCancelled,
			"cancelled_at": now,
		}
		if err := repo.Update(ctx, txn.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel transaction")
		}
		txn.Status = enums.TransactionStatusCancelled
		txn.CancelledAt = &now

		// A hold can exist before the row reaches Paid: wallet pay and
		// webhook settlement commit the hold first and mark Paid in a
		// separate step. Refund is a no-op when no hold exists, so run
		// it for every online-payment cancel.
		if txn.PaymentMethod == enums.PaymentMethodOnline {
			if err := s.escrow.Refund(ctx, tx, txn); err != nil {
				return err
			}
		}
		s.postSystemLine(ctx, tx, txn, "Transaction cancelled")
		result = txn
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransactionCancelled,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   txn.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: string(role)},
			Data: payloads.TransactionCancelledEvent{
				TransactionID: txn.ID,
				PostID:        txn.PostID,
				PostType:      txn.PostType,
				BuyerID:       txn.BuyerID,
				SellerID:      txn.SellerID,
				CancelledAt:   now,
				Reason:        input.Reason,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) MarkPaid(ctx context.Context, input MarkPaidInput) (*models.Transaction, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}

	var result *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		txn, err := repo.FindByIDForUpdate(ctx, input.TransactionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}
		if txn.Status == enums.TransactionStatusPaid {
			result = txn
			return nil
		}
		if txn.Status != enums.TransactionStatusAccepted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transaction is not awaiting payment")
		}
		if txn.PaymentMethod != enums.PaymentMethodOnline {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transaction is not paid online")
		}

		updates := map[string]any{"status": enums.TransactionStatusPaid}
		if input.CheckoutID != nil {
			updates["checkout_id"] = *input.CheckoutID
		}
		if err := repo.Update(ctx, txn.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark transaction paid")
		}
		txn.Status = enums.TransactionStatusPaid
		if input.CheckoutID != nil {
			txn.CheckoutID = input.CheckoutID
		}

		s.postSystemLine(ctx, tx, txn, "Payment received")
		result = txn

		var checkoutID string
		if input.CheckoutID != nil {
			checkoutID = *input.CheckoutID
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransactionPaid,
			AggregateType: enums.AggregateTransaction,
			AggregateID:   txn.ID,
			Actor:         &outbox.ActorRef{UserID: txn.BuyerID, Role: string(enums.RolePurchases)},
			Data: payloads.TransactionPaidEvent{
				TransactionID: txn.ID,
				PostID:        txn.PostID,
				PostType:      txn.PostType,
				BuyerID:       txn.BuyerID,
				SellerID:      txn.SellerID,
				Amount:        txn.Total,
				PaymentMethod: txn.PaymentMethod,
				CheckoutID:    checkoutID,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id, viewerID uuid.UUID) (*View, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	role, err := participantRole(txn, viewerID)
	if err != nil {
		return nil, err
	}
	return &View{
		Transaction: txn,
		Role:        role,
		Action:      resolveAction(txn, role),
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ViewList, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !params.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction role")
	}
	list, err := s.repo.List(ctx, params.UserID, params.Role, params.Page, params.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	out := &ViewList{
		Items:      make([]ListRow, 0, len(list.Items)),
		NextCursor: list.NextCursor,
		HasMore:    list.HasMore,
	}
	for i := range list.Items {
		txn := list.Items[i]
		out.Items = append(out.Items, ListRow{
			Transaction: txn,
			Action:      resolveAction(&txn, params.Role),
		})
	}
	return out, nil
}

// participantRole maps the actor to their side of the deal.
func participantRole(txn *models.Transaction, actorID uuid.UUID) (enums.TransactionRole, error) {
	switch actorID {
	case txn.BuyerID:
		return enums.RolePurchases, nil
	case txn.SellerID:
		return enums.RoleSales, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this transaction")
}

// postSystemLine is best effort; a missing conversation or messenger
// never fails the transaction update.
func (s *service) postSystemLine(ctx context.Context, tx *gorm.DB, txn *models.Transaction, body string) {
	if s.messenger == nil || txn.ConversationID == nil {
		return
	}
	_ = s.messenger.PostSystemMessage(ctx, tx, *txn.ConversationID, body)
}
