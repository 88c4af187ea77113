// Package provider adapts the barry client to the row-shaped interfaces the
// collector tasks consume.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/icodeforyou/barrywatch-go/barry"
	"github.com/icodeforyou/barrywatch-go/hours"
	"github.com/icodeforyou/barrywatch-go/types"
)

type Barry struct {
	client       *barry.Client
	area         barry.PriceArea
	mpid         int64
	lookbackDays int
}

func New(client *barry.Client, area barry.PriceArea, mpid int64, lookbackDays int) *Barry {
	return &Barry{client: client, area: area, mpid: mpid, lookbackDays: lookbackDays}
}

// GetEnergyPrices fetches spot prices from midnight of the current day up to
// two days ahead. Prices for tomorrow appear during the afternoon; hours the
// service has not published yet are simply absent from the result.
func (b *Barry) GetEnergyPrices(ctx context.Context) ([]types.EnergyPrice, error) {
	start := b.client.YesterdayStart()
	end := start.Add(2 * barry.OneDay)

	spot, err := b.client.SpotPrices(ctx, b.area, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spot prices for %s: %w", b.area, err)
	}

	prices := make([]types.EnergyPrice, 0, len(spot))
	for hour, price := range spot {
		prices = append(prices, types.EnergyPrice{
			Hour:  hours.FromTime(hour),
			Price: price,
		})
	}

	return prices, nil
}

// GetConsumption fetches the hourly consumption for all metering points on
// the contract over the configured lookback window.
func (b *Barry) GetConsumption(ctx context.Context) ([]types.ConsumptionRecord, error) {
	days := b.lookbackDays
	if days < 1 {
		days = 1
	}
	end := b.client.YesterdayEnd()
	start := end.Add(-barry.OneDay * time.Duration(days+1))

	points, err := b.client.Consumption(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consumption: %w", err)
	}

	var records []types.ConsumptionRecord
	for mpid, point := range points {
		for hour, kwh := range point {
			records = append(records, types.ConsumptionRecord{
				MPID: mpid,
				Hour: hours.FromTime(hour),
				KWh:  kwh,
			})
		}
	}

	return records, nil
}

// GetPriceQuote fetches the blended kWh price for the current hour on the
// configured metering point.
func (b *Barry) GetPriceQuote(ctx context.Context) (types.PriceQuote, error) {
	now := b.client.NowHour()
	quotes, err := b.client.TotalKWhPrice(ctx, now, now.Add(time.Hour), b.mpid)
	if err != nil {
		return types.PriceQuote{}, fmt.Errorf("failed to fetch kWh price: %w", err)
	}
	if len(quotes) == 0 {
		return types.PriceQuote{}, fmt.Errorf("empty kWh price result")
	}

	q := quotes[0]
	return types.PriceQuote{
		Hour:     hours.FromTime(q.Start),
		MPID:     b.mpid,
		Price:    q.Price,
		Currency: q.Currency,
	}, nil
}
