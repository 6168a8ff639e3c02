package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/educart-ph/educart-backend/internal/users"
	"github.com/educart-ph/educart-backend/pkg/db/models"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/outbox"
	"github.com/educart-ph/educart-backend/pkg/outbox/payloads"
	"github.com/educart-ph/educart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}


// SubmitInput carries a new verification request.
type SubmitInput struct {
	UserID      uuid.UUID
	SchoolID    uuid.UUID
	DocumentURL string
}

// ReviewInput carries an admin decision on a pending request.
type ReviewInput struct {
	RequestID  uuid.UUID
	ReviewerID uuid.UUID
	Approve    bool
	Notes      *string
}

// ListInput selects a page of requests for the back office.
type ListInput struct {
	Page   pagination.Params
	Status *enums.RequestStatus
}

// Service defines verification request operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.VerificationRequest, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.VerificationRequest, error)
	List(ctx context.Context, input ListInput) (*RequestList, error)
	Review(ctx context.Context, input ReviewInput) (*models.VerificationRequest, error)
}

type service struct {
	repo   Repository
	users  users.Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds a verification request service.
func NewService(repo Repository, userRepo users.Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, users: userRepo, tx: tx, outbox: outboxSvc}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.VerificationRequest, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.DocumentURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document url required")
	}
	if _, err := s.repo.FindPendingByUser(ctx, input.UserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a pending request already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending request")
	}

	request, err := s.repo.Create(ctx, &models.VerificationRequest{
		UserID:      input.UserID,
		SchoolID:    input.SchoolID,
		DocumentURL: strings.TrimSpace(input.DocumentURL),
		Status:      enums.RequestStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}
	return request, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.VerificationRequest, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	requests, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return requests, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*RequestList, error) {
	list, err := s.repo.List(ctx, input.Page, input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return list, nil
}

func (s *service) Review(ctx context.Context, input ReviewInput) (*models.VerificationRequest, error) {
	if input.ReviewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "reviewer identity missing")
	}
	request, err := s.repo.FindByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	if request.Status != enums.RequestStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already reviewed")
	}

	status := enums.RequestStatusRejected
	if input.Approve {
		status = enums.RequestStatusApproved
	}
	reviewedAt := time.Now().UTC()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updates := map[string]any{
			"status":      status,
			"reviewer_id": input.ReviewerID,
			"reviewed_at": reviewedAt,
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if err := repo.Update(ctx, request.ID, updates); err != nil {
			return err
		}
		if input.Approve {
			if err := s.users.WithTx(tx).Update(ctx, request.UserID, map[string]any{"verified": true}); err != nil {
				return err
			}
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventVerificationReviewed,
			AggregateType: enums.AggregateRequest,
			AggregateID:   request.ID,
			Actor:         &outbox.ActorRef{UserID: input.ReviewerID, Role: string(enums.UserRoleAdmin)},
			Data: payloads.VerificationReviewedEvent{
				RequestID:  request.ID,
				UserID:     request.UserID,
				Status:     status,
				ReviewerID: input.ReviewerID,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "review request")
	}

	request.Status = status
	request.ReviewerID = &input.ReviewerID
	request.Notes = input.Notes
	request.ReviewedAt = &reviewedAt
	return request, nil
}
