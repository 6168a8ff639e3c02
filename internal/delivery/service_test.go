package delivery

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/educart-ph/educart-backend/pkg/enums"
	"github.com/educart-ph/educart-backend/pkg/logger"
	"github.com/educart-ph/educart-backend/pkg/maps"
)

type stubDistance struct {
	km  float64
	err error
}

func (s stubDistance) RoadDistanceKm(ctx context.Context, origin, destination maps.LatLng) (float64, error) {
	return s.km, s.err
}

func newTestService(t *testing.T, distance DistanceClient) Service {
	t.Helper()
	svc, err := NewService(distance, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return svc
}

func TestFeeForDistance(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0.2, "30"},
		{1.0, "30"},
		{1.4, "30"},
		{2.0, "40"},
		{3.2, "50"},
		{10.0, "120"},
	}
	for _, tc := range cases {
		got := FeeForDistance(tc.km)
		require.True(t, got.Equal(decimal.RequireFromString(tc.want)), "fee(%v) = %s, want %s", tc.km, got, tc.want)
	}
}

func TestQuoteDeliveryAddsFee(t *testing.T) {
	svc := newTestService(t, stubDistance{km: 3.2})

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Price:       decimal.NewFromInt(500),
		Fulfillment: enums.FulfillmentDelivery,
		OriginLat:   14.5995, OriginLng: 120.9842,
		DestLat: 14.6091, DestLng: 121.0223,
	})
	require.NoError(t, err)
	require.Equal(t, 3.2, quote.DistanceKm)
	require.True(t, quote.DeliveryFee.Equal(decimal.NewFromInt(50)))
	require.True(t, quote.Total.Equal(decimal.NewFromInt(550)))
}

func TestQuoteMeetupIsFree(t *testing.T) {
	svc := newTestService(t, stubDistance{km: 3.2})

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Price:       decimal.NewFromInt(500),
		Fulfillment: enums.FulfillmentMeetup,
	})
	require.NoError(t, err)
	require.True(t, quote.DeliveryFee.IsZero())
	require.True(t, quote.Total.Equal(decimal.NewFromInt(500)))
}

func TestQuoteFallsBackToHaversine(t *testing.T) {
	svc := newTestService(t, stubDistance{err: errors.New("no route")})

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Price:       decimal.NewFromInt(100),
		Fulfillment: enums.FulfillmentDelivery,
		OriginLat:   14.5995, OriginLng: 120.9842,
		DestLat: 14.6091, DestLng: 121.0223,
	})
	require.NoError(t, err)
	require.Greater(t, quote.DistanceKm, 0.0)
	require.True(t, quote.DeliveryFee.GreaterThanOrEqual(decimal.NewFromInt(30)))
}

func TestFeeUsesRoadDistance(t *testing.T) {
	svc := newTestService(t, stubDistance{km: 5.0})

	fee, err := svc.Fee(context.Background(), 14.5995, 120.9842, 14.6091, 121.0223)
	require.NoError(t, err)
	require.True(t, fee.Equal(decimal.NewFromInt(70)))
}
