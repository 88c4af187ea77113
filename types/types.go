package types

import (
	"context"

	"github.com/icodeforyou/barrywatch-go/hours"
)

type EnergyPrice struct {
	Hour  hours.DateHour
	Price float64 // Spot price in the area currency per kWh
}

type ConsumptionRecord struct {
	MPID string
	Hour hours.DateHour
	KWh  float64 // Consumption during the hour starting at Hour
}

type PriceQuote struct {
	Hour     hours.DateHour
	MPID     int64
	Price    float64 // Total price per kWh incl. grid fees, tariffs and subscription
	Currency string
}

type EnergyPriceProvider interface {
	GetEnergyPrices(ctx context.Context) ([]EnergyPrice, error)
}

type ConsumptionProvider interface {
	GetConsumption(ctx context.Context) ([]ConsumptionRecord, error)
}

type PriceQuoteProvider interface {
	GetPriceQuote(ctx context.Context) (PriceQuote, error)
}
