// Package query runs the admin dashboard aggregations against the
// transaction_events table.
package query

import (
	"context"
	"fmt"

	cloudbigquery "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/educart-ph/educart-backend/internal/analytics/types"
	"github.com/educart-ph/educart-backend/pkg/bigquery"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
)

const (
	transactionsSeriesSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  COUNTIF(event_type = 'transaction.created') AS value
FROM %s
WHERE event_type = 'transaction.created'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	gmvSeriesSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  SUM(COALESCE(amount_centavos, 0)) / 100 AS value
FROM %s
WHERE event_type = 'transaction.paid'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	completedSeriesSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  COUNT(1) AS value
FROM %s
WHERE event_type = 'transaction.completed'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	topPostTypesSQL = `
SELECT post_type AS label, COUNT(1) AS value
FROM %s
WHERE event_type = 'transaction.created'
  AND post_type IS NOT NULL
  AND occurred_at BETWEEN @start AND @end
GROUP BY post_type
ORDER BY value DESC
LIMIT 6
`

	aovSQL = `
SELECT SAFE_DIVIDE(SUM(COALESCE(amount_centavos, 0)) / 100, NULLIF(COUNT(DISTINCT transaction_id), 0)) AS value
FROM %s
WHERE event_type = 'transaction.paid'
  AND occurred_at BETWEEN @start AND @end
`

	cancellationRateSQL = `
SELECT SAFE_DIVIDE(
  COUNTIF(event_type = 'transaction.cancelled'),
  NULLIF(COUNTIF(event_type = 'transaction.created'), 0)
) AS value
FROM %s
WHERE occurred_at BETWEEN @start AND @end
`
)

// DashboardService provides admin KPIs from BigQuery transaction_events.
type DashboardService interface {
	Query(ctx context.Context, req types.DashboardRequest) (*types.DashboardResponse, error)
}

type dashboardService struct {
	client   *bigquery.Client
	tableRef string
}

// NewDashboardService builds a service backed by BigQuery.
func NewDashboardService(client *bigquery.Client, project, dataset, table string) (DashboardService, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}
	if project == "" || dataset == "" || table == "" {
		return nil, fmt.Errorf("project, dataset, and table are required")
	}
	return &dashboardService{
		client:   client,
		tableRef: fmt.Sprintf("`%s.%s.%s`", project, dataset, table),
	}, nil
}

func (s *dashboardService) Query(ctx context.Context, req types.DashboardRequest) (*types.DashboardResponse, error) {
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end are required")
	}
	if req.End.Before(req.Start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end must not precede start")
	}

	params := []cloudbigquery.QueryParameter{
		{Name: "start", Value: req.Start},
		{Name: "end", Value: req.End},
	}

	transactions, err := s.querySeries(ctx, fmt.Sprintf(transactionsSeriesSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}
	gmv, err := s.querySeries(ctx, fmt.Sprintf(gmvSeriesSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}
	completed, err := s.querySeries(ctx, fmt.Sprintf(completedSeriesSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}
	topPostTypes, err := s.queryTopLabels(ctx, fmt.Sprintf(topPostTypesSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}
	aov, err := s.queryScalar(ctx, fmt.Sprintf(aovSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}
	cancellationRate, err := s.queryScalar(ctx, fmt.Sprintf(cancellationRateSQL, s.tableRef), params)
	if err != nil {
		return nil, err
	}

	return &types.DashboardResponse{
		TransactionsSeries: transactions,
		GMVSeries:          gmv,
		CompletedSeries:    completed,
		TopPostTypes:       topPostTypes,
		AverageOrderValue:  aov,
		CancellationRate:   cancellationRate,
	}, nil
}

func (s *dashboardService) querySeries(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.SeriesPoint, error) {
	it, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "run dashboard query")
	}
	var points []types.SeriesPoint
	for {
		var row struct {
			Day   string  `bigquery:"day"`
			Value float64 `bigquery:"value"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read dashboard row")
		}
		points = append(points, types.SeriesPoint{Day: row.Day, Value: row.Value})
	}
	return points, nil
}

func (s *dashboardService) queryTopLabels(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.LabelValue, error) {
	it, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "run dashboard query")
	}
	var labels []types.LabelValue
	for {
		var row struct {
			Label string  `bigquery:"label"`
			Value float64 `bigquery:"value"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read dashboard row")
		}
		labels = append(labels, types.LabelValue{Label: row.Label, Value: row.Value})
	}
	return labels, nil
}

func (s *dashboardService) queryScalar(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (float64, error) {
	it, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "run dashboard query")
	}
	var row struct {
		Value cloudbigquery.NullFloat64 `bigquery:"value"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read dashboard row")
	}
	if !row.Value.Valid {
		return 0, nil
	}
	return row.Value.Float64, nil
}
