package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/educart-ph/educart-backend/api/responses"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/logger"
)

// signatureHeader carries the HMAC-SHA256 of the raw request body.
const signatureHeader = "X-Gcash-Signature"

const maxWebhookBodyBytes = 1 << 20

// GCashWebhookService settles paid checkouts delivered by the provider.
type GCashWebhookService interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// GCashWebhook handles checkout payment callbacks. Signature verification
// and event dedupe live in the payments service.
func GCashWebhook(svc GCashWebhookService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		if err := svc.HandleWebhook(ctx, payload, r.Header.Get(signatureHeader)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "received"})
	}
}
