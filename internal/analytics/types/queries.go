package types

import "time"

// DashboardRequest selects the reporting window for the admin dashboard.
type DashboardRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SeriesPoint is one day of a time series.
type SeriesPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// LabelValue is a ranked aggregate, e.g. top listing types by volume.
type LabelValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DashboardResponse carries the admin back office KPIs.
type DashboardResponse struct {
	TransactionsSeries []SeriesPoint `json:"transactions_series"`
	GMVSeries          []SeriesPoint `json:"gmv_series"`
	CompletedSeries    []SeriesPoint `json:"completed_series"`
	TopPostTypes       []LabelValue  `json:"top_post_types"`
	AverageOrderValue  float64       `json:"average_order_value"`
	CancellationRate   float64       `json:"cancellation_rate"`
}
