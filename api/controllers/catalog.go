package controllers

import (
	"net/http"

	"github.com/educart-ph/educart-backend/api/responses"
	"github.com/educart-ph/educart-backend/internal/categories"
	"github.com/educart-ph/educart-backend/internal/schools"
	"github.com/educart-ph/educart-backend/pkg/logger"
)

// SchoolList returns active schools for pickers and profile display.
func SchoolList(svc schools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// CategoryList returns active categories for listing forms and filters.
func CategoryList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
