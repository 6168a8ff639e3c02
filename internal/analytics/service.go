// Package analytics turns transaction events into BigQuery rows and
// serves the admin dashboard aggregations built on top of them.
package analytics

import (
	"context"
	"fmt"

	"github.com/educart-ph/educart-backend/internal/analytics/query"
	"github.com/educart-ph/educart-backend/internal/analytics/types"
	"github.com/educart-ph/educart-backend/pkg/bigquery"
)

// Service is the read-side entry point used by the admin API.
type Service interface {
	Dashboard(ctx context.Context, req types.DashboardRequest) (*types.DashboardResponse, error)
}

type service struct {
	dashboard query.DashboardService
}

// NewService wires the dashboard query service against the configured
// transaction events table.
func NewService(client *bigquery.Client, project, dataset, table string) (Service, error) {
	dashboard, err := query.NewDashboardService(client, project, dataset, table)
	if err != nil {
		return nil, fmt.Errorf("build dashboard service: %w", err)
	}
	return &service{dashboard: dashboard}, nil
}

func (s *service) Dashboard(ctx context.Context, req types.DashboardRequest) (*types.DashboardResponse, error) {
	return s.dashboard.Query(ctx, req)
}
