package controllers

import (
	"net/http"

	"github.com/educart-ph/educart-backend/api/responses"
	"github.com/educart-ph/educart-backend/api/validators"
	"github.com/educart-ph/educart-backend/internal/media"
	"github.com/educart-ph/educart-backend/pkg/logger"
)

type presignRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=post verification"`
	MimeType  string `json:"mime_type" validate:"required"`
	FileName  string `json:"file_name" validate:"required,max=255"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

// MediaPresign issues a signed upload URL for a listing image or
// verification document.
func MediaPresign(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body presignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.PresignUpload(r.Context(), userID, media.PresignInput{
			Kind:      media.Kind(body.Kind),
			MimeType:  body.MimeType,
			FileName:  body.FileName,
			SizeBytes: body.SizeBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}
