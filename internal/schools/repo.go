// Package schools manages the university registry. A school's email
// domain gates student registration, and every marketplace surface is
// scoped to one school.
package schools

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
)

// Repository defines persistence operations for schools.
type Repository interface {
	Create(ctx context.Context, school *models.School) (*models.School, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.School, error)
	FindByEmailDomain(ctx context.Context, domain string) (*models.School, error)
	List(ctx context.Context, includeInactive bool) ([]models.School, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to school operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, school *models.School) (*models.School, error) {
	if err := r.db.WithContext(ctx).Create(school).Error; err != nil {
		return nil, err
	}
	return school, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).First(&school, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *repository) FindByEmailDomain(ctx context.Context, domain string) (*models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).
		First(&school, "email_domain = ?", strings.ToLower(domain)).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *repository) List(ctx context.Context, includeInactive bool) ([]models.School, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	var schools []models.School
	if err := query.Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.School{}).
		Where("id = ?", id).
		Updates(updates).Error
}
