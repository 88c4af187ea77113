package barry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// PriceQuote is the blended per-kWh price (spot price plus grid fees, tariffs
// and subscription) for one hour on one metering point.
type PriceQuote struct {
	Start    time.Time
	Price    float64
	Currency string
}

type totalKWhPriceResult struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// TotalKWhPrice returns the total kWh price for a metering point.
//
// The remote endpoint sums per-hour prices instead of blending them when the
// window is wider than one hour, so the request window is always clamped:
// start is truncated down to the top of its hour and end is IGNORED entirely,
// the effective window is exactly the one hour containing start. Callers
// passing a wide end get a quote for that single hour, nothing else. The hour
// actually quoted is returned in the Start field.
func (c *Client) TotalKWhPrice(ctx context.Context, start, end time.Time, mpid int64) ([]PriceQuote, error) {
	_ = end // see above, the service cannot handle wider windows

	hour := start.UTC().Truncate(time.Hour)
	result, err := c.call(ctx, "getTotalKwHPrice",
		[]any{mpid, formatTime(hour), formatTime(hour.Add(time.Hour))})
	if err != nil {
		return nil, err
	}

	var quote totalKWhPriceResult
	if err := json.Unmarshal(result, &quote); err != nil {
		return nil, fmt.Errorf("%w: decoding price quote: %v", ErrTransport, err)
	}

	return []PriceQuote{{
		Start:    hour,
		Price:    quote.Value,
		Currency: quote.Currency,
	}}, nil
}
