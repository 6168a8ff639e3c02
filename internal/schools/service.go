package schools

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

// CreateInput carries a new school entry.
type CreateInput struct {
	Name        string
	EmailDomain string
	Address     *string
	LogoURL     *string
}

// UpdateInput carries the editable school fields. Nil fields are left
// untouched.
type UpdateInput struct {
	SchoolID    uuid.UUID
	Name        *string
	EmailDomain *string
	Address     *string
	LogoURL     *string
	Active      *bool
}

// Service defines school registry operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.School, error)
	Get(ctx context.Context, id uuid.UUID) (*models.School, error)
	List(ctx context.Context, includeInactive bool) ([]models.School, error)
	Update(ctx context.Context, input UpdateInput) (*models.School, error)
}

type service struct {
	repo Repository
}

// NewService builds a school registry service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("schools repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.School, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	domain, err := normalizeDomain(input.EmailDomain)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByEmailDomain(ctx, domain); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email domain already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email domain")
	}

	school := &models.School{
		Name:        name,
		EmailDomain: domain,
		Address:     input.Address,
		LogoURL:     input.LogoURL,
		Active:      true,
	}
	created, err := s.repo.Create(ctx, school)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create school")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.School, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "school id required")
	}
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "school not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load school")
	}
	return school, nil
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]models.School, error) {
	schools, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list schools")
	}
	return schools, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.School, error) {
	school, err := s.Get(ctx, input.SchoolID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
		}
		updates["name"] = name
	}
	if input.EmailDomain != nil {
		domain, err := normalizeDomain(*input.EmailDomain)
		if err != nil {
			return nil, err
		}
		if domain != school.EmailDomain {
			if _, err := s.repo.FindByEmailDomain(ctx, domain); err == nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "email domain already registered")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email domain")
			}
		}
		updates["email_domain"] = domain
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.LogoURL != nil {
		updates["logo_url"] = *input.LogoURL
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return school, nil
	}
	if err := s.repo.Update(ctx, school.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update school")
	}
	return s.repo.FindByID(ctx, school.ID)
}

func normalizeDomain(domain string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	normalized = strings.TrimPrefix(normalized, "@")
	if normalized == "" || !strings.Contains(normalized, ".") || strings.ContainsAny(normalized, " @/") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid email domain")
	}
	return normalized, nil
}
