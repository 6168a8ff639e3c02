package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/educart-ph/educart-backend/api/responses"
	"github.com/educart-ph/educart-backend/api/validators"
	"github.com/educart-ph/educart-backend/internal/analytics"
	analyticstypes "github.com/educart-ph/educart-backend/internal/analytics/types"
	"github.com/educart-ph/educart-backend/internal/categories"
	"github.com/educart-ph/educart-backend/internal/requests"
	"github.com/educart-ph/educart-backend/internal/schools"
	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/logger"
)

type createSchoolRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=160"`
	EmailDomain string  `json:"email_domain" validate:"required,max=120"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url,max=1024"`
}

type updateSchoolRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=160"`
	EmailDomain *string `json:"email_domain" validate:"omitempty,max=120"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url,max=1024"`
	Active      *bool   `json:"active"`
}

type createCategoryRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=80"`
	IconURL *string `json:"icon_url" validate:"omitempty,url,max=1024"`
}

type updateCategoryRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=80"`
	IconURL *string `json:"icon_url" validate:"omitempty,url,max=1024"`
	Active  *bool   `json:"active"`
}

type reviewRequestBody struct {
	Decision string  `json:"decision" validate:"required,oneof=approve reject"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
}

// AdminSchoolCreate registers a new school with its email domain.
func AdminSchoolCreate(svc schools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createSchoolRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		school, err := svc.Create(r.Context(), schools.CreateInput{
			Name:        validators.SanitizeString(body.Name, 160),
			EmailDomain: body.EmailDomain,
			Address:     body.Address,
			LogoURL:     body.LogoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, school)
	}
}

// AdminSchoolList returns schools, inactive ones included on request.
func AdminSchoolList(svc schools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), validators.ParseQueryBool(r, "include_inactive"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// AdminSchoolDetail fetches one school by id.
func AdminSchoolDetail(svc schools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schoolID, err := validators.ParseUUIDParam(r, "schoolId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		school, err := svc.Get(r.Context(), schoolID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, school)
	}
}

// AdminSchoolUpdate edits school fields or toggles active state.
func AdminSchoolUpdate(svc schools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schoolID, err := validators.ParseUUIDParam(r, "schoolId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSchoolRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		school, err := svc.Update(r.Context(), schools.UpdateInput{
			SchoolID:    schoolID,
			Name:        body.Name,
			EmailDomain: body.EmailDomain,
			Address:     body.Address,
			LogoURL:     body.LogoURL,
			Active:      body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, school)
	}
}

// AdminCategoryCreate adds a listing category.
func AdminCategoryCreate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Create(r.Context(), categories.CreateInput{
			Name:    validators.SanitizeString(body.Name, 80),
			IconURL: body.IconURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// AdminCategoryList returns categories, inactive ones included on request.
func AdminCategoryList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), validators.ParseQueryBool(r, "include_inactive"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// AdminCategoryUpdate edits category fields or toggles active state.
func AdminCategoryUpdate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParseUUIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Update(r.Context(), categories.UpdateInput{
			CategoryID: categoryID,
			Name:       body.Name,
			IconURL:    body.IconURL,
			Active:     body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// AdminRequestList pages verification requests for review.
func AdminRequestList(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := requests.ListInput{Page: page}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseRequestStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			input.Status = &status
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminRequestReview approves or rejects a pending verification request.
func AdminRequestReview(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reviewRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Review(r.Context(), requests.ReviewInput{
			RequestID:  requestID,
			ReviewerID: reviewerID,
			Approve:    body.Decision == "approve",
			Notes:      body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// AdminDashboard serves marketplace KPIs for a reporting window. Without
// explicit bounds it covers the trailing 30 days.
func AdminDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "analytics unavailable"))
			return
		}

		end := time.Now().UTC()
		start := end.AddDate(0, 0, -30)

		if raw := strings.TrimSpace(r.URL.Query().Get("start")); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "start must be RFC3339").WithDetails(map[string]any{"field": "start"}))
				return
			}
			start = parsed
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("end")); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "end must be RFC3339").WithDetails(map[string]any{"field": "end"}))
				return
			}
			end = parsed
		}

		result, err := svc.Dashboard(r.Context(), analyticstypes.DashboardRequest{Start: start, End: end})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
