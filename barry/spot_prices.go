package barry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type spotPriceRecord struct {
	Start string  `json:"start"`
	Value float64 `json:"value"`
}

// SpotPrices returns the hourly spot price on the given market zone between
// start and end, keyed by the UTC start of each hour.
//
// Both instants are assumed to already be in UTC; no timezone conversion is
// performed here, only formatting. If the response carries two records for
// the same hour the later one wins.
func (c *Client) SpotPrices(ctx context.Context, area PriceArea, start, end time.Time) (map[time.Time]float64, error) {
	if !area.Valid() {
		return nil, fmt.Errorf("%w: unknown price area %q", ErrValidation, string(area))
	}

	result, err := c.call(ctx, "getPrice", []any{string(area), formatTime(start), formatTime(end)})
	if err != nil {
		return nil, err
	}

	var records []spotPriceRecord
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, fmt.Errorf("%w: decoding price records: %v", ErrTransport, err)
	}

	prices := make(map[time.Time]float64, len(records))
	for _, rec := range records {
		hour, err := parseTime(rec.Start)
		if err != nil {
			return nil, err
		}
		prices[hour] = rec.Value
	}

	return prices, nil
}
