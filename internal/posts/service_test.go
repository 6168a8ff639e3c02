package posts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

type stubPostsRepo struct {
	post          *models.Post
	created       *models.Post
	updates       map[string]any
	deleted       bool
	knownCategory uuid.UUID
}

func (s *stubPostsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPostsRepo) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	s.created = post
	return post, nil
}

func (s *stubPostsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if s.post == nil || s.post.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.post, nil
}

func (s *stubPostsRepo) List(ctx context.Context, schoolID uuid.UUID, params pagination.Params, filters ListFilters) (*PostList, error) {
	return &PostList{}, nil
}

func (s *stubPostsRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PostList, error) {
	return &PostList{}, nil
}

func (s *stubPostsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubPostsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = true
	return nil
}

func (s *stubPostsRepo) CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	return categoryID == s.knownCategory, nil
}

func newTestService(t *testing.T, repo *stubPostsRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func TestCreateListsPost(t *testing.T) {
	category := uuid.New()
	repo := &stubPostsRepo{knownCategory: category}
	svc := newTestService(t, repo)

	post, err := svc.Create(context.Background(), CreateInput{
		UserID:      uuid.New(),
		SchoolID:    uuid.New(),
		CategoryID:  category,
		PostType:    enums.PostTypeSale,
		Title:       "Calculus textbook",
		Description: "9th edition, barely used",
		Price:       decimal.NewFromInt(350),
	})
	require.NoError(t, err)
	require.Equal(t, enums.PostStatusListed, post.Status)
	require.Equal(t, "Calculus textbook", post.Title)
}

func TestCreateRejectsPricedGiveaway(t *testing.T) {
	category := uuid.New()
	repo := &stubPostsRepo{knownCategory: category}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:      uuid.New(),
		SchoolID:    uuid.New(),
		CategoryID:  category,
		PostType:    enums.PostTypeGiveaway,
		Title:       "Old notes",
		Description: "free to a good home",
		Price:       decimal.NewFromInt(10),
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	repo := &stubPostsRepo{knownCategory: uuid.New()}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:      uuid.New(),
		SchoolID:    uuid.New(),
		CategoryID:  uuid.New(),
		PostType:    enums.PostTypeSale,
		Title:       "Lamp",
		Description: "desk lamp",
		Price:       decimal.NewFromInt(100),
	})
	require.Error(t, err)
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	owner := uuid.New()
	repo := &stubPostsRepo{post: &models.Post{
		ID:       uuid.New(),
		UserID:   owner,
		PostType: enums.PostTypeSale,
		Status:   enums.PostStatusListed,
	}}
	svc := newTestService(t, repo)

	title := "New title"
	_, err := svc.Update(context.Background(), UpdateInput{
		PostID:  repo.post.ID,
		ActorID: uuid.New(),
		Title:   &title,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestSetStatusUnlistAndRelist(t *testing.T) {
	owner := uuid.New()
	repo := &stubPostsRepo{post: &models.Post{
		ID:       uuid.New(),
		UserID:   owner,
		PostType: enums.PostTypeSale,
		Status:   enums.PostStatusListed,
	}}
	svc := newTestService(t, repo)

	post, err := svc.SetStatus(context.Background(), StatusInput{
		PostID:  repo.post.ID,
		ActorID: owner,
		Status:  enums.PostStatusUnlisted,
	})
	require.NoError(t, err)
	require.Equal(t, enums.PostStatusUnlisted, post.Status)

	_, err = svc.SetStatus(context.Background(), StatusInput{
		PostID:  repo.post.ID,
		ActorID: owner,
		Status:  enums.PostStatusSold,
	})
	require.Error(t, err)
}

func TestSetStatusSoldPostLocked(t *testing.T) {
	owner := uuid.New()
	repo := &stubPostsRepo{post: &models.Post{
		ID:       uuid.New(),
		UserID:   owner,
		PostType: enums.PostTypeSale,
		Status:   enums.PostStatusSold,
	}}
	svc := newTestService(t, repo)

	_, err := svc.SetStatus(context.Background(), StatusInput{
		PostID:  repo.post.ID,
		ActorID: owner,
		Status:  enums.PostStatusListed,
	})
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestDeleteOwnPost(t *testing.T) {
	owner := uuid.New()
	repo := &stubPostsRepo{post: &models.Post{
		ID:     uuid.New(),
		UserID: owner,
		Status: enums.PostStatusListed,
	}}
	svc := newTestService(t, repo)

	require.NoError(t, svc.Delete(context.Background(), repo.post.ID, owner))
	require.True(t, repo.deleted)
}
