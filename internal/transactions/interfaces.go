package transactions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

// Repository defines persistence operations for transactions and the
// post rows they settle against.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindByCheckoutID(ctx context.Context, checkoutID string) (*models.Transaction, error)
	FindActiveByPostAndBuyer(ctx context.Context, postID, buyerID uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, role enums.TransactionRole, params pagination.Params, filters ListFilters) (*TransactionList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindPostByID(ctx context.Context, postID uuid.UUID) (*models.Post, error)
	UpdatePostStatus(ctx context.Context, postID uuid.UUID, status enums.PostStatus) error
}

// ListFilters narrows transaction listings.
type ListFilters struct {
	Status   *enums.TransactionStatus
	PostType *enums.PostType
}
