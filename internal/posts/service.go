// Package posts manages marketplace listings. Listings are scoped to
// the owner's school; only Listed posts appear in the feed.
package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

const maxImages = 8

// CreateInput carries a new listing. UserID and SchoolID come from the
// authenticated session.
type CreateInput struct {
	UserID      uuid.UUID
	SchoolID    uuid.UUID
	CategoryID  uuid.UUID
	PostType    enums.PostType
	Title       string
	Description string
	Condition   *string
	Price       decimal.Decimal
	Images      []string
	PickupLat   *float64
	PickupLng   *float64
}

// UpdateInput carries the owner-editable listing fields. Nil fields are
// left untouched.
type UpdateInput struct {
	PostID      uuid.UUID
	ActorID     uuid.UUID
	Title       *string
	Description *string
	Condition   *string
	Price       *decimal.Decimal
	CategoryID  *uuid.UUID
	Images      []string
}

// StatusInput relists or unlists a post.
type StatusInput struct {
	PostID  uuid.UUID
	ActorID uuid.UUID
	Status  enums.PostStatus
}

// ListInput selects a school feed page.
type ListInput struct {
	SchoolID uuid.UUID
	Page     pagination.Params
	Filters  ListFilters
}

// Service defines listing operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, input ListInput) (*PostList, error)
	ListMine(ctx context.Context, userID uuid.UUID, page pagination.Params) (*PostList, error)
	Update(ctx context.Context, input UpdateInput) (*models.Post, error)
	SetStatus(ctx context.Context, input StatusInput) (*models.Post, error)
	Delete(ctx context.Context, postID, actorID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a posts service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("posts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Post, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SchoolID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "school context missing")
	}
	if !input.PostType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid post type")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}
	if len(input.Images) > maxImages {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many images")
	}
	if err := validatePrice(input.PostType, input.Price); err != nil {
		return nil, err
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
	}
	exists, err := s.repo.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}

	post := &models.Post{
		UserID:      input.UserID,
		SchoolID:    input.SchoolID,
		CategoryID:  input.CategoryID,
		PostType:    input.PostType,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Condition:   input.Condition,
		Price:       input.Price,
		Status:      enums.PostStatusListed,
		Images:      pq.StringArray(input.Images),
		PickupLat:   input.PickupLat,
		PickupLng:   input.PickupLng,
	}
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
	}
	return created, nil
}

// validatePrice rejects a price where the listing type forbids one.
func validatePrice(postType enums.PostType, price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	switch postType {
	case enums.PostTypeEmergencyLending, enums.PostTypeGiveaway:
		if !price.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, "free listings cannot carry a price")
		}
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return post, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*PostList, error) {
	if input.SchoolID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "school context missing")
	}
	list, err := s.repo.List(ctx, input.SchoolID, input.Page, input.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	return list, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, page pagination.Params) (*PostList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Post, error) {
	post, err := s.loadOwned(ctx, input.PostID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if post.Status == enums.PostStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "sold posts cannot be edited")
	}

	updates := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
		}
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Condition != nil {
		updates["condition"] = *input.Condition
	}
	if input.Price != nil {
		if err := validatePrice(post.PostType, *input.Price); err != nil {
			return nil, err
		}
		updates["price"] = *input.Price
	}
	if input.CategoryID != nil {
		exists, err := s.repo.CategoryExists(ctx, *input.CategoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.Images != nil {
		if len(input.Images) > maxImages {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many images")
		}
		updates["images"] = pq.StringArray(input.Images)
	}
	if len(updates) == 0 {
		return post, nil
	}
	if err := s.repo.Update(ctx, post.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
	}
	return s.repo.FindByID(ctx, post.ID)
}

func (s *service) SetStatus(ctx context.Context, input StatusInput) (*models.Post, error) {
	if input.Status != enums.PostStatusListed && input.Status != enums.PostStatusUnlisted {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be Listed or Unlisted")
	}
	post, err := s.loadOwned(ctx, input.PostID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if post.Status == enums.PostStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "sold posts cannot change status")
	}
	if post.Status == input.Status {
		return post, nil
	}
	if err := s.repo.Update(ctx, post.ID, map[string]any{"status": input.Status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post status")
	}
	post.Status = input.Status
	return post, nil
}

func (s *service) Delete(ctx context.Context, postID, actorID uuid.UUID) error {
	post, err := s.loadOwned(ctx, postID, actorID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, postID, actorID uuid.UUID) (*models.Post, error) {
	if postID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "post does not belong to user")
	}
	return post, nil
}
