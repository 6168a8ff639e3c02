// Package delivery prices the courier leg of a transaction from the
// road distance between pickup and dropoff.
package delivery

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/educart-ph/educart-backend/pkg/enums"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/educart-ph/educart-backend/pkg/logger"
	"github.com/educart-ph/educart-backend/pkg/maps"
)

var (
	baseFee     = decimal.NewFromInt(30)
	perKmFee    = decimal.NewFromInt(10)
	baseRangeKm = 1.0
)

// DistanceClient computes a drivable route between two points.
type DistanceClient interface {
	RoadDistanceKm(ctx context.Context, origin, destination maps.LatLng) (float64, error)
}

// Service quotes delivery fees and totals.
type Service interface {
	Fee(ctx context.Context, originLat, originLng, destLat, destLng float64) (decimal.Decimal, error)
	Quote(ctx context.Context, input QuoteInput) (*Quote, error)
}

// QuoteInput asks for the landed total of a priced item.
type QuoteInput struct {
	Price       decimal.Decimal
	Fulfillment enums.FulfillmentMethod
	OriginLat   float64
	OriginLng   float64
	DestLat     float64
	DestLng     float64
}

// Quote is the priced delivery leg.
type Quote struct {
	DistanceKm  float64         `json:"distance_km"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

type service struct {
	distance DistanceClient
	logg     *logger.Logger
}

// NewService builds a delivery service. The distance client is optional;
// without one, quotes fall back to straight-line distance.
func NewService(distance DistanceClient, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{distance: distance, logg: logg}, nil
}

// FeeForDistance applies the fee curve: a flat base fee covers the first
// kilometer, then every started kilometer past that adds the per-km rate.
func FeeForDistance(km float64) decimal.Decimal {
	if km <= baseRangeKm {
		return baseFee
	}
	extra := math.Floor(km - baseRangeKm)
	return baseFee.Add(perKmFee.Mul(decimal.NewFromFloat(extra)))
}

func (s *service) Fee(ctx context.Context, originLat, originLng, destLat, destLng float64) (decimal.Decimal, error) {
	km, err := s.distanceKm(ctx, originLat, originLng, destLat, destLng)
	if err != nil {
		return decimal.Zero, err
	}
	return FeeForDistance(km), nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*Quote, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Fulfillment == enums.FulfillmentMeetup {
		return &Quote{
			DeliveryFee: decimal.Zero,
			Total:       input.Price,
		}, nil
	}
	if input.Fulfillment != enums.FulfillmentDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment method")
	}

	km, err := s.distanceKm(ctx, input.OriginLat, input.OriginLng, input.DestLat, input.DestLng)
	if err != nil {
		return nil, err
	}
	fee := FeeForDistance(km)
	return &Quote{
		DistanceKm:  km,
		DeliveryFee: fee,
		Total:       input.Price.Add(fee),
	}, nil
}

// distanceKm prefers the routing provider and falls back to the
// straight-line distance when no provider is configured or the provider
// cannot find a route.
func (s *service) distanceKm(ctx context.Context, originLat, originLng, destLat, destLng float64) (float64, error) {
	if s.distance != nil {
		km, err := s.distance.RoadDistanceKm(ctx,
			maps.LatLng{Latitude: originLat, Longitude: originLng},
			maps.LatLng{Latitude: destLat, Longitude: destLng},
		)
		if err == nil {
			return km, nil
		}
		fields := map[string]any{"error": err.Error()}
		s.logg.Warn(s.logg.WithFields(ctx, fields), "road distance lookup failed, using straight-line fallback")
	}
	return haversineKm(originLat, originLng, destLat, destLng), nil
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
