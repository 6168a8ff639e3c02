package schools

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

type stubSchoolRepo struct {
	byID     map[uuid.UUID]*models.School
	byDomain map[string]*models.School
}

func newStubSchoolRepo() *stubSchoolRepo {
	return &stubSchoolRepo{
		byID:     map[uuid.UUID]*models.School{},
		byDomain: map[string]*models.School{},
	}
}

func (s *stubSchoolRepo) Create(ctx context.Context, school *models.School) (*models.School, error) {
	school.ID = uuid.New()
	s.byID[school.ID] = school
	s.byDomain[school.EmailDomain] = school
	return school, nil
}

func (s *stubSchoolRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.School, error) {
	if school, ok := s.byID[id]; ok {
		return school, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSchoolRepo) FindByEmailDomain(ctx context.Context, domain string) (*models.School, error) {
	if school, ok := s.byDomain[domain]; ok {
		return school, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSchoolRepo) List(ctx context.Context, includeInactive bool) ([]models.School, error) {
	var out []models.School
	for _, school := range s.byID {
		if !includeInactive && !school.Active {
			continue
		}
		out = append(out, *school)
	}
	return out, nil
}

func (s *stubSchoolRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	school, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		school.Name = name
	}
	if domain, ok := updates["email_domain"].(string); ok {
		delete(s.byDomain, school.EmailDomain)
		school.EmailDomain = domain
		s.byDomain[domain] = school
	}
	if active, ok := updates["active"].(bool); ok {
		school.Active = active
	}
	return nil
}

func newTestService(t *testing.T) (Service, *stubSchoolRepo) {
	t.Helper()
	repo := newStubSchoolRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestServiceCreateNormalizesDomain(t *testing.T) {
	svc, _ := newTestService(t)

	school, err := svc.Create(context.Background(), CreateInput{
		Name:        " State University ",
		EmailDomain: " @SU.edu.ph ",
	})
	require.NoError(t, err)
	require.Equal(t, "State University", school.Name)
	require.Equal(t, "su.edu.ph", school.EmailDomain)
	require.True(t, school.Active)
}

func TestServiceCreateDuplicateDomain(t *testing.T) {
	svc, repo := newTestService(t)
	repo.byDomain["su.edu.ph"] = &models.School{ID: uuid.New(), EmailDomain: "su.edu.ph"}

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "Other University",
		EmailDomain: "su.edu.ph",
	})
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestServiceCreateRejectsBareWord(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "University",
		EmailDomain: "notadomain",
	})
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceUpdateTogglesActive(t *testing.T) {
	svc, repo := newTestService(t)
	school := &models.School{Name: "State University", EmailDomain: "su.edu.ph", Active: true}
	_, err := repo.Create(context.Background(), school)
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(context.Background(), UpdateInput{
		SchoolID: school.ID,
		Active:   &inactive,
	})
	require.NoError(t, err)
	require.False(t, updated.Active)
}

func TestServiceUpdateDomainConflict(t *testing.T) {
	svc, repo := newTestService(t)
	first := &models.School{Name: "First", EmailDomain: "first.edu.ph", Active: true}
	second := &models.School{Name: "Second", EmailDomain: "second.edu.ph", Active: true}
	_, err := repo.Create(context.Background(), first)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), second)
	require.NoError(t, err)

	domain := "first.edu.ph"
	_, err = svc.Update(context.Background(), UpdateInput{
		SchoolID:    second.ID,
		EmailDomain: &domain,
	})
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestServiceListFiltersInactive(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := repo.Create(context.Background(), &models.School{Name: "Active U", EmailDomain: "a.edu.ph", Active: true})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &models.School{Name: "Closed U", EmailDomain: "c.edu.ph", Active: false})
	require.NoError(t, err)

	active, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, active, 1)

	all, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
