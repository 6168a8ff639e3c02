package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/educart-ph/educart-backend/api/responses"
	"github.com/educart-ph/educart-backend/api/validators"
	"github.com/educart-ph/educart-backend/internal/transactions"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/logger"
	"github.com/google/uuid"
)

type createTransactionRequest struct {
	PostID            string   `json:"post_id" validate:"required,uuid"`
	PaymentMethod     string   `json:"payment_method,omitempty"`
	FulfillmentMethod string   `json:"fulfillment_method" validate:"required"`
	CashAdded         string   `json:"cash_added,omitempty"`
	ServiceFee        string   `json:"service_fee,omitempty"`
	RentStart         *string  `json:"rent_start,omitempty"`
	RentEnd           *string  `json:"rent_end,omitempty"`
	DropoffLat        *float64 `json:"dropoff_lat,omitempty"`
	DropoffLng        *float64 `json:"dropoff_lng,omitempty"`
}

type transactionDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept reject"`
}

type transactionActionRequest struct {
	Action string `json:"action" validate:"required,max=64"`
}

type transactionCancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a decimal number")
	}
	return amount, nil
}

func parseRFC3339(raw *string, field string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be an RFC 3339 timestamp")
	}
	return &parsed, nil
}

// TransactionCreate submits a type-specific request on a listing.
func TransactionCreate(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		schoolID, err := actorSchoolID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createTransactionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		postID, err := uuid.Parse(body.PostID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid post_id"))
			return
		}

		paymentMethod := enums.PaymentMethodNone
		if raw := strings.TrimSpace(body.PaymentMethod); raw != "" {
			paymentMethod, err = enums.ParsePaymentMethod(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment_method"))
				return
			}
		}
		fulfillment, err := enums.ParseFulfillmentMethod(body.FulfillmentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment_method"))
			return
		}
		cashAdded, err := parseAmount(body.CashAdded, "cash_added")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		serviceFee, err := parseAmount(body.ServiceFee, "service_fee")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rentStart, err := parseRFC3339(body.RentStart, "rent_start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rentEnd, err := parseRFC3339(body.RentEnd, "rent_end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.Create(r.Context(), transactions.CreateInput{
			PostID:            postID,
			BuyerID:           buyerID,
			BuyerSchoolID:     schoolID,
			PaymentMethod:     paymentMethod,
			FulfillmentMethod: fulfillment,
			CashAdded:         cashAdded,
			ServiceFee:        serviceFee,
			RentStart:         rentStart,
			RentEnd:           rentEnd,
			DropoffLat:        body.DropoffLat,
			DropoffLng:        body.DropoffLng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// TransactionList serves the caller's purchases or sales side.
func TransactionList(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := pageFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.RolePurchases
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err = enums.ParseTransactionRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
				return
			}
		}

		filters := transactions.ListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseTransactionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("post_type")); raw != "" {
			postType, err := enums.ParsePostType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid post_type"))
				return
			}
			filters.PostType = &postType
		}

		list, err := svc.List(r.Context(), transactions.ListParams{
			UserID:  userID,
			Role:    role,
			Page:    page,
			Filters: filters,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// TransactionDetail serves one transaction from the caller's perspective.
func TransactionDetail(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txnID, err := validators.ParseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), txnID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// TransactionDecision records the seller's accept or reject call.
func TransactionDecision(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txnID, err := validators.ParseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body transactionDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.Decide(r.Context(), transactions.DecisionInput{
			TransactionID: txnID,
			ActorID:       userID,
			Accept:        body.Decision == "accept",
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, txn)
	}
}

// TransactionAction performs the button action the actor currently sees.
func TransactionAction(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txnID, err := validators.ParseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body transactionActionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.PerformAction(r.Context(), transactions.ActionInput{
			TransactionID: txnID,
			ActorID:       userID,
			Label:         strings.TrimSpace(body.Action),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, txn)
	}
}

// TransactionCancel withdraws a non-terminal transaction.
func TransactionCancel(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txnID, err := validators.ParseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body transactionCancelRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.Cancel(r.Context(), transactions.CancelInput{
			TransactionID: txnID,
			ActorID:       userID,
			Reason:        strings.TrimSpace(body.Reason),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, txn)
	}
}
