// Package requests handles student verification. A student uploads a
// proof-of-enrollment document; an admin approves or rejects it, and an
// approval flips the user's verified flag.
package requests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

// Repository defines persistence operations for verification requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.VerificationRequest) (*models.VerificationRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.VerificationRequest, error)
	FindPendingByUser(ctx context.Context, userID uuid.UUID) (*models.VerificationRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.VerificationRequest, error)
	List(ctx context.Context, params pagination.Params, status *enums.RequestStatus) (*RequestList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// RequestList is a cursor page of verification requests.
type RequestList struct {
	Items      []models.VerificationRequest `json:"items"`
	NextCursor string                       `json:"next_cursor,omitempty"`
	HasMore    bool                         `json:"has_more"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to verification request operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.VerificationRequest) (*models.VerificationRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindPendingByUser(ctx context.Context, userID uuid.UUID) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.RequestStatusPending).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.VerificationRequest, error) {
	var requests []models.VerificationRequest
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, status *enums.RequestStatus) (*RequestList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.VerificationRequest{}).
		Preload("User")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var requests []models.VerificationRequest
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&requests).Error; err != nil {
		return nil, err
	}

	list := &RequestList{Items: requests}
	if len(requests) > limit {
		list.Items = requests[:limit]
		list.HasMore = true
		last := list.Items[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.VerificationRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
