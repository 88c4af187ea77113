package barry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// meteringPointID keys the grouped consumption by the raw wire value. The
// API reports mpids as JSON strings on some contracts and as JSON numbers on
// others, both group under their string form.
type meteringPointID string

func (m *meteringPointID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = meteringPointID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = meteringPointID(n.String())
	return nil
}

type consumptionRecord struct {
	MPID     meteringPointID `json:"mpid"`
	Quantity float64         `json:"quantity"`
	Start    string          `json:"start"`
}

// Consumption returns the consumption in kWh per hour between start and end
// for every metering point on the contract, grouped as
// mpid -> hour start (UTC) -> kWh.
//
// The span between start and end must be at least one day, shorter spans fail
// with ErrValidation before any request is made.
func (c *Client) Consumption(ctx context.Context, start, end time.Time) (map[string]map[time.Time]float64, error) {
	span := end.Sub(start)
	if span < 0 {
		span = -span
	}
	if span < OneDay {
		return nil, fmt.Errorf("%w: date range must be at least one day", ErrValidation)
	}

	result, err := c.call(ctx, "getAggregatedConsumption", []any{formatTime(start), formatTime(end)})
	if err != nil {
		return nil, err
	}

	var records []consumptionRecord
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, fmt.Errorf("%w: decoding consumption records: %v", ErrTransport, err)
	}

	points := make(map[string]map[time.Time]float64)
	for _, rec := range records {
		hour, err := parseTime(rec.Start)
		if err != nil {
			return nil, err
		}
		mpid := string(rec.MPID)
		if _, ok := points[mpid]; !ok {
			points[mpid] = make(map[time.Time]float64)
		}
		points[mpid][hour] = rec.Quantity
	}

	return points, nil
}

// ConsumptionForPoint is Consumption narrowed to a single metering point. If
// the id does not occur in the response it fails with ErrNotFound.
func (c *Client) ConsumptionForPoint(ctx context.Context, start, end time.Time, mpid string) (map[time.Time]float64, error) {
	points, err := c.Consumption(ctx, start, end)
	if err != nil {
		return nil, err
	}

	point, ok := points[mpid]
	if !ok {
		return nil, fmt.Errorf("%w: metering point %q", ErrNotFound, mpid)
	}

	return point, nil
}
