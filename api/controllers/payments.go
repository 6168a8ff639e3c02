package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/educart-ph/educart-backend/api/responses"
	"github.com/educart-ph/educart-backend/api/validators"
	"github.com/educart-ph/educart-backend/internal/delivery"
	"github.com/educart-ph/educart-backend/internal/payments"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/logger"
)

type deliveryQuoteRequest struct {
	Price       string  `json:"price" validate:"required"`
	Fulfillment string  `json:"fulfillment_method" validate:"required"`
	OriginLat   float64 `json:"origin_lat" validate:"required"`
	OriginLng   float64 `json:"origin_lng" validate:"required"`
	DestLat     float64 `json:"dest_lat" validate:"required"`
	DestLng     float64 `json:"dest_lng" validate:"required"`
}

// TransactionPay settles a transaction from the buyer's wallet.
func TransactionPay(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
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

		txn, err := svc.PayWithWallet(r.Context(), payments.PayInput{
			TransactionID: txnID,
			ActorID:       userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, txn)
	}
}

// TransactionCheckout starts a GCash checkout for a transaction.
func TransactionCheckout(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
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

		checkout, err := svc.CreateCheckout(r.Context(), payments.CheckoutInput{
			TransactionID: txnID,
			ActorID:       userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkout)
	}
}

// DeliveryQuote prices a delivery leg between two points.
func DeliveryQuote(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body deliveryQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(strings.TrimSpace(body.Price))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number"))
			return
		}
		fulfillment, err := enums.ParseFulfillmentMethod(body.Fulfillment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment_method"))
			return
		}

		quote, err := svc.Quote(r.Context(), delivery.QuoteInput{
			Price:       price,
			Fulfillment: fulfillment,
			OriginLat:   body.OriginLat,
			OriginLng:   body.OriginLng,
			DestLat:     body.DestLat,
			DestLng:     body.DestLng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
