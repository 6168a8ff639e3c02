package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"

	pkgAuth "github.com/educart-ph/educart-backend/pkg/auth"
	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/security"
)

func TestServiceRegisterCreatesStudent(t *testing.T) {
	school := &models.School{ID: uuid.New(), Name: "State University", EmailDomain: "su.edu.ph", Active: true}
	cfg := testJWTConfig()
	svc, sessionMgr := buildTestService(t, nil, school, cfg)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "  Juan Dela Cruz ",
		Email:    "Juan@SU.edu.ph",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	repo := serviceUserRepo(t, svc)
	created := repo.created
	if created == nil {
		t.Fatal("expected a user to be created")
	}
	if created.Email != "juan@su.edu.ph" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.FullName != "Juan Dela Cruz" {
		t.Fatalf("expected trimmed full name, got %q", created.FullName)
	}
	if created.SchoolID != school.ID {
		t.Fatalf("expected user bound to school %s", school.ID)
	}
	if created.Role != enums.UserRoleStudent {
		t.Fatalf("expected student role, got %s", created.Role)
	}
	if created.Verified {
		t.Fatal("expected new users to start unverified")
	}

	valid, err := security.VerifyPassword("long-enough-password", created.PasswordHash)
	if err != nil || !valid {
		t.Fatalf("expected stored hash to verify, valid=%v err=%v", valid, err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatalf("expected token for new user")
	}
	if resp.RefreshToken != sessionMgr.refreshToken {
		t.Fatalf("expected a refresh token from the session manager")
	}
}

func TestServiceRegisterUnknownDomain(t *testing.T) {
	svc, _ := buildTestService(t, nil, nil, testJWTConfig())

	_, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Juan Dela Cruz",
		Email:    "juan@gmail.com",
		Password: "long-enough-password",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Message() != "invalid university domain" {
		t.Fatalf("unexpected message %q", appErr.Message())
	}
}

func TestServiceRegisterInactiveSchool(t *testing.T) {
	school := &models.School{ID: uuid.New(), EmailDomain: "old.edu.ph", Active: false}
	svc, _ := buildTestService(t, nil, school, testJWTConfig())

	_, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Juan Dela Cruz",
		Email:    "juan@old.edu.ph",
		Password: "long-enough-password",
	})
	if codeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inactive school, got %v", err)
	}
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	school := &models.School{ID: uuid.New(), EmailDomain: "su.edu.ph", Active: true}
	existing := &models.User{
		ID:       uuid.New(),
		SchoolID: school.ID,
		Email:    "juan@su.edu.ph",
		Role:     enums.UserRoleStudent,
	}
	svc, _ := buildTestService(t, existing, school, testJWTConfig())

	_, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Juan Dela Cruz",
		Email:    "juan@su.edu.ph",
		Password: "long-enough-password",
	})
	if codeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestServiceRegisterShortPassword(t *testing.T) {
	school := &models.School{ID: uuid.New(), EmailDomain: "su.edu.ph", Active: true}
	svc, _ := buildTestService(t, nil, school, testJWTConfig())

	_, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Juan Dela Cruz",
		Email:    "juan@su.edu.ph",
		Password: "short",
	})
	if codeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}

func serviceUserRepo(t *testing.T, svc Service) *stubUserRepo {
	t.Helper()
	impl, ok := svc.(*service)
	if !ok {
		t.Fatal("unexpected service implementation")
	}
	repo, ok := impl.users.(*stubUserRepo)
	if !ok {
		t.Fatal("unexpected user repository implementation")
	}
	return repo
}
