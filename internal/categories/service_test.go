package categories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
)

type stubCategoryRepo struct {
	byID map[uuid.UUID]*models.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: map[uuid.UUID]*models.Category{}}
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.ID = uuid.New()
	s.byID[category.ID] = category
	return category, nil
}

func (s *stubCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if category, ok := s.byID[id]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoryRepo) FindByName(ctx context.Context, name string) (*models.Category, error) {
	for _, category := range s.byID {
		if category.Name == name {
			return category, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoryRepo) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	var out []models.Category
	for _, category := range s.byID {
		if !includeInactive && !category.Active {
			continue
		}
		out = append(out, *category)
	}
	return out, nil
}

func (s *stubCategoryRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	category, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		category.Name = name
	}
	if active, ok := updates["active"].(bool); ok {
		category.Active = active
	}
	return nil
}

func TestServiceCreateCategory(t *testing.T) {
	repo := newStubCategoryRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	category, err := svc.Create(context.Background(), CreateInput{Name: " Textbooks "})
	require.NoError(t, err)
	require.Equal(t, "Textbooks", category.Name)
	require.True(t, category.Active)
}

func TestServiceCreateDuplicateName(t *testing.T) {
	repo := newStubCategoryRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "Textbooks"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "Textbooks"})
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestServiceUpdateDeactivates(t *testing.T) {
	repo := newStubCategoryRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	category, err := svc.Create(context.Background(), CreateInput{Name: "Gadgets"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(context.Background(), UpdateInput{
		CategoryID: category.ID,
		Active:     &inactive,
	})
	require.NoError(t, err)
	require.False(t, updated.Active)

	visible, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Empty(t, visible)
}

func TestServiceUpdateUnknownCategory(t *testing.T) {
	repo := newStubCategoryRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(context.Background(), UpdateInput{
		CategoryID: uuid.New(),
		Name:       &name,
	})
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
