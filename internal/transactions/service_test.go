package transactions

import (
	"context"
	"testing"
	"time"

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

type stubRepo struct {
	post        *models.Post
	txn         *models.Transaction
	active      *models.Transaction
	created     *models.Transaction
	updates     map[string]any
	postStatus  enums.PostStatus
	postUpdated bool
	list        *TransactionList
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	s.created = txn
	return txn, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if s.txn == nil || s.txn.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.txn, nil
}

func (s *stubRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return s.FindByID(ctx, id)
}

func (s *stubRepo) FindByCheckoutID(ctx context.Context, checkoutID string) (*models.Transaction, error) {
	if s.txn == nil || s.txn.CheckoutID == nil || *s.txn.CheckoutID != checkoutID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.txn, nil
}

func (s *stubRepo) FindActiveByPostAndBuyer(ctx context.Context, postID, buyerID uuid.UUID) (*models.Transaction, error) {
	if s.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.active, nil
}

func (s *stubRepo) List(ctx context.Context, userID uuid.UUID, role enums.TransactionRole, params pagination.Params, filters ListFilters) (*TransactionList, error) {
	if s.list == nil {
		return &TransactionList{}, nil
	}
	return s.list, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubRepo) FindPostByID(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	if s.post == nil || s.post.ID != postID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.post, nil
}

func (s *stubRepo) UpdatePostStatus(ctx context.Context, postID uuid.UUID, status enums.PostStatus) error {
	s.postUpdated = true
	s.postStatus = status
	return nil
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

type stubEscrow struct {
	released bool
	refunded bool
}

func (s *stubEscrow) Release(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error {
	s.released = true
	return nil
}

func (s *stubEscrow) Refund(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error {
	s.refunded = true
	return nil
}

type stubQuoter struct {
	fee decimal.Decimal
}

func (s stubQuoter) Fee(ctx context.Context, originLat, originLng, destLat, destLng float64) (decimal.Decimal, error) {
	return s.fee, nil
}

func newTestService(t *testing.T, repo *stubRepo, publisher *stubOutboxPublisher, escrow *stubEscrow, quoter DeliveryQuoter) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, publisher, escrow, nil, quoter)
	require.NoError(t, err)
	return svc
}

func listedPost(sellerID uuid.UUID, postType enums.PostType, price string) *models.Post {
	lat, lng := 14.5995, 120.9842
	return &models.Post{
		ID:        uuid.New(),
		UserID:    sellerID,
		SchoolID:  uuid.New(),
		PostType:  postType,
		Status:    enums.PostStatusListed,
		Price:     decimal.RequireFromString(price),
		PickupLat: &lat,
		PickupLng: &lng,
	}
}

func TestCreateSaleWithDeliveryAddsFee(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()
	post := listedPost(seller, enums.PostTypeSale, "500")
	repo := &stubRepo{post: post}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher, &stubEscrow{}, stubQuoter{fee: decimal.NewFromInt(50)})

	dropLat, dropLng := 14.6091, 121.0223
	txn, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           buyer,
		BuyerSchoolID:     post.SchoolID,
		PaymentMethod:     enums.PaymentMethodOnline,
		FulfillmentMethod: enums.FulfillmentDelivery,
		DropoffLat:        &dropLat,
		DropoffLng:        &dropLng,
	})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusPending, txn.Status)
	require.True(t, txn.DeliveryFee.Equal(decimal.NewFromInt(50)))
	require.True(t, txn.Total.Equal(decimal.NewFromInt(550)))
	require.Len(t, publisher.events, 1)
	require.Equal(t, enums.EventTransactionCreated, publisher.events[0].EventType)
}

func TestCreateMeetupTotalEqualsPrice(t *testing.T) {
	seller := uuid.New()
	post := listedPost(seller, enums.PostTypeSale, "320")
	repo := &stubRepo{post: post}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	txn, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           uuid.New(),
		BuyerSchoolID:     post.SchoolID,
		PaymentMethod:     enums.PaymentMethodCash,
		FulfillmentMethod: enums.FulfillmentMeetup,
	})
	require.NoError(t, err)
	require.True(t, txn.Total.Equal(decimal.RequireFromString("320")))
	require.True(t, txn.DeliveryFee.IsZero())
}

func TestCreateRejectsOwnPost(t *testing.T) {
	seller := uuid.New()
	post := listedPost(seller, enums.PostTypeSale, "100")
	repo := &stubRepo{post: post}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           seller,
		BuyerSchoolID:     post.SchoolID,
		PaymentMethod:     enums.PaymentMethodCash,
		FulfillmentMethod: enums.FulfillmentMeetup,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateRejectsCrossSchool(t *testing.T) {
	post := listedPost(uuid.New(), enums.PostTypeSale, "100")
	repo := &stubRepo{post: post}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           uuid.New(),
		BuyerSchoolID:     uuid.New(),
		PaymentMethod:     enums.PaymentMethodCash,
		FulfillmentMethod: enums.FulfillmentMeetup,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestCreateRentRequiresPeriod(t *testing.T) {
	post := listedPost(uuid.New(), enums.PostTypeRent, "150")
	repo := &stubRepo{post: post}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           uuid.New(),
		BuyerSchoolID:     post.SchoolID,
		PaymentMethod:     enums.PaymentMethodCash,
		FulfillmentMethod: enums.FulfillmentMeetup,
	})
	require.Error(t, err)

	start := time.Now().Add(24 * time.Hour)
	end := start.Add(48 * time.Hour)
	txn, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           uuid.New(),
		BuyerSchoolID:     post.SchoolID,
		PaymentMethod:     enums.PaymentMethodCash,
		FulfillmentMethod: enums.FulfillmentMeetup,
		RentStart:         &start,
		RentEnd:           &end,
	})
	require.NoError(t, err)
	require.Equal(t, enums.PostTypeRent, txn.PostType)
}

func TestCreateEvenTradeRejectsPayment(t *testing.T) {
	post := listedPost(uuid.New(), enums.PostTypeTrade, "0")
	repo := &stubRepo{post: post}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           uuid.New(),
		BuyerSchoolID:     post.SchoolID,
		PaymentMethod:     enums.PaymentMethodCash,
		FulfillmentMethod: enums.FulfillmentMeetup,
	})
	require.Error(t, err)

	txn, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           uuid.New(),
		BuyerSchoolID:     post.SchoolID,
		FulfillmentMethod: enums.FulfillmentMeetup,
	})
	require.NoError(t, err)
	require.True(t, txn.Total.IsZero())
}

func TestCreatePasaBuyCashDeliveryRejected(t *testing.T) {
	post := listedPost(uuid.New(), enums.PostTypePasaBuy, "200")
	repo := &stubRepo{post: post}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, stubQuoter{fee: decimal.NewFromInt(30)})

	_, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           uuid.New(),
		BuyerSchoolID:     post.SchoolID,
		PaymentMethod:     enums.PaymentMethodCash,
		FulfillmentMethod: enums.FulfillmentDelivery,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateBlocksDuplicateActiveTransaction(t *testing.T) {
	post := listedPost(uuid.New(), enums.PostTypeSale, "100")
	repo := &stubRepo{post: post, active: &models.Transaction{ID: uuid.New()}}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		PostID:            post.ID,
		BuyerID:           uuid.New(),
		BuyerSchoolID:     post.SchoolID,
		PaymentMethod:     enums.PaymentMethodCash,
		FulfillmentMethod: enums.FulfillmentMeetup,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func pendingTransaction(postType enums.PostType, pm enums.PaymentMethod, fm enums.FulfillmentMethod) *models.Transaction {
	return &models.Transaction{
		ID:                uuid.New(),
		PostID:            uuid.New(),
		BuyerID:           uuid.New(),
		SellerID:          uuid.New(),
		PostType:          postType,
		Status:            enums.TransactionStatusPending,
		PaymentMethod:     pm,
		FulfillmentMethod: fm,
		Price:             decimal.NewFromInt(100),
		Total:             decimal.NewFromInt(100),
	}
}

func TestDecideAcceptEmitsEvent(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodCash, enums.FulfillmentMeetup)
	repo := &stubRepo{txn: txn}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher, &stubEscrow{}, nil)

	updated, err := svc.Decide(context.Background(), DecisionInput{
		TransactionID: txn.ID,
		ActorID:       txn.SellerID,
		Accept:        true,
	})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusAccepted, updated.Status)
	require.Len(t, publisher.events, 1)
	require.Equal(t, enums.EventTransactionAccepted, publisher.events[0].EventType)
}

func TestDecideRejectsNonSeller(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodCash, enums.FulfillmentMeetup)
	repo := &stubRepo{txn: txn}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.Decide(context.Background(), DecisionInput{
		TransactionID: txn.ID,
		ActorID:       txn.BuyerID,
		Accept:        true,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestPerformActionAdvancesStatus(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodCash, enums.FulfillmentMeetup)
	txn.Status = enums.TransactionStatusAccepted
	repo := &stubRepo{txn: txn}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher, &stubEscrow{}, nil)

	updated, err := svc.PerformAction(context.Background(), ActionInput{
		TransactionID: txn.ID,
		ActorID:       txn.SellerID,
		Label:         "Order Picked Up",
	})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusPickedUp, updated.Status)
}

func TestPerformActionRejectsStaleLabel(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodCash, enums.FulfillmentMeetup)
	repo := &stubRepo{txn: txn}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.PerformAction(context.Background(), ActionInput{
		TransactionID: txn.ID,
		ActorID:       txn.SellerID,
		Label:         "Order Picked Up",
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestPerformActionPayNowIsRejected(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodOnline, enums.FulfillmentDelivery)
	txn.Status = enums.TransactionStatusAccepted
	repo := &stubRepo{txn: txn}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.PerformAction(context.Background(), ActionInput{
		TransactionID: txn.ID,
		ActorID:       txn.BuyerID,
		Label:         "Pay Now",
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCompletionReleasesEscrowAndMarksSold(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodOnline, enums.FulfillmentDelivery)
	txn.Status = enums.TransactionStatusPickedUp
	repo := &stubRepo{txn: txn}
	publisher := &stubOutboxPublisher{}
	escrow := &stubEscrow{}
	svc := newTestService(t, repo, publisher, escrow, nil)

	updated, err := svc.PerformAction(context.Background(), ActionInput{
		TransactionID: txn.ID,
		ActorID:       txn.BuyerID,
		Label:         "Order Received",
	})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	require.True(t, escrow.released)
	require.True(t, repo.postUpdated)
	require.Equal(t, enums.PostStatusSold, repo.postStatus)

	var sawCompleted bool
	for _, event := range publisher.events {
		if event.EventType == enums.EventTransactionCompleted {
			sawCompleted = true
		}
	}
	require.True(t, sawCompleted)
}

func TestCancelAfterPaymentRefundsEscrow(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodOnline, enums.FulfillmentDelivery)
	txn.Status = enums.TransactionStatusPaid
	repo := &stubRepo{txn: txn}
	escrow := &stubEscrow{}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, escrow, nil)

	updated, err := svc.Cancel(context.Background(), CancelInput{
		TransactionID: txn.ID,
		ActorID:       txn.BuyerID,
		Reason:        "changed my mind",
	})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusCancelled, updated.Status)
	require.True(t, escrow.refunded)
}

func TestCancelBeforePaidRefundsEscrowHold(t *testing.T) {
	// Settlement commits the escrow hold before the row reaches Paid, so
	// an Accepted online transaction can already carry held funds.
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodOnline, enums.FulfillmentDelivery)
	txn.Status = enums.TransactionStatusAccepted
	repo := &stubRepo{txn: txn}
	escrow := &stubEscrow{}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, escrow, nil)

	updated, err := svc.Cancel(context.Background(), CancelInput{
		TransactionID: txn.ID,
		ActorID:       txn.BuyerID,
	})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusCancelled, updated.Status)
	require.True(t, escrow.refunded)
}

func TestCancelCashTransactionSkipsEscrow(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodCash, enums.FulfillmentMeetup)
	txn.Status = enums.TransactionStatusAccepted
	repo := &stubRepo{txn: txn}
	escrow := &stubEscrow{}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, escrow, nil)

	_, err := svc.Cancel(context.Background(), CancelInput{
		TransactionID: txn.ID,
		ActorID:       txn.SellerID,
	})
	require.NoError(t, err)
	require.False(t, escrow.refunded)
}

func TestCancelTerminalRejected(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodCash, enums.FulfillmentMeetup)
	txn.Status = enums.TransactionStatusCompleted
	repo := &stubRepo{txn: txn}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	_, err := svc.Cancel(context.Background(), CancelInput{
		TransactionID: txn.ID,
		ActorID:       txn.SellerID,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestMarkPaidFromAccepted(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodOnline, enums.FulfillmentDelivery)
	txn.Status = enums.TransactionStatusAccepted
	repo := &stubRepo{txn: txn}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher, &stubEscrow{}, nil)

	checkoutID := "chk_123"
	updated, err := svc.MarkPaid(context.Background(), MarkPaidInput{
		TransactionID: txn.ID,
		CheckoutID:    &checkoutID,
	})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusPaid, updated.Status)
	require.Len(t, publisher.events, 1)
	require.Equal(t, enums.EventTransactionPaid, publisher.events[0].EventType)
}

func TestMarkPaidIdempotent(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodOnline, enums.FulfillmentDelivery)
	txn.Status = enums.TransactionStatusPaid
	repo := &stubRepo{txn: txn}
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, publisher, &stubEscrow{}, nil)

	updated, err := svc.MarkPaid(context.Background(), MarkPaidInput{TransactionID: txn.ID})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionStatusPaid, updated.Status)
	require.Empty(t, publisher.events)
}

func TestGetResolvesViewerAction(t *testing.T) {
	txn := pendingTransaction(enums.PostTypeSale, enums.PaymentMethodOnline, enums.FulfillmentDelivery)
	txn.Status = enums.TransactionStatusAccepted
	repo := &stubRepo{txn: txn}
	svc := newTestService(t, repo, &stubOutboxPublisher{}, &stubEscrow{}, nil)

	view, err := svc.Get(context.Background(), txn.ID, txn.BuyerID)
	require.NoError(t, err)
	require.Equal(t, enums.RolePurchases, view.Role)
	require.Equal(t, "Pay Now", view.Action)

	view, err = svc.Get(context.Background(), txn.ID, txn.SellerID)
	require.NoError(t, err)
	require.Equal(t, enums.RoleSales, view.Role)
	require.Equal(t, "Waiting for Payment", view.Action)

	_, err = svc.Get(context.Background(), txn.ID, uuid.New())
	require.Error(t, err)
}
