package posts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

// Repository defines persistence operations for marketplace listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, schoolID uuid.UUID, params pagination.Params, filters ListFilters) (*PostList, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PostList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error)
}

// ListFilters narrows the school feed.
type ListFilters struct {
	PostType   *enums.PostType
	CategoryID *uuid.UUID
	Search     string
}

// PostList is a cursor page of listings.
type PostList struct {
	Items      []models.Post `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}
