package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
)

// CreateInput carries a new category.
type CreateInput struct {
	Name    string
	IconURL *string
}

// UpdateInput carries the editable category fields. Nil fields are left
// untouched.
type UpdateInput struct {
	CategoryID uuid.UUID
	Name       *string
	IconURL    *string
	Active     *bool
}

// Service defines category catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Category, error)
	List(ctx context.Context, includeInactive bool) ([]models.Category, error)
	Update(ctx context.Context, input UpdateInput) (*models.Category, error)
}

type service struct {
	repo Repository
}

// NewService builds a category catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
	}

	created, err := s.repo.Create(ctx, &models.Category{
		Name:    name,
		IconURL: input.IconURL,
		Active:  true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	categories, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Category, error) {
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := s.repo.FindByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
		}
		if !strings.EqualFold(name, category.Name) {
			if _, err := s.repo.FindByName(ctx, name); err == nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
			}
		}
		updates["name"] = name
	}
	if input.IconURL != nil {
		updates["icon_url"] = *input.IconURL
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return category, nil
	}
	if err := s.repo.Update(ctx, category.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return s.repo.FindByID(ctx, category.ID)
}
