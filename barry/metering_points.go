package barry

import (
	"context"
	"encoding/json"
	"fmt"
)

// MeteringPoints returns the metering point descriptors linked to the
// contract, exactly as the service sent them. The shape of the descriptors is
// not part of this client's contract, so each one is handed back undecoded.
func (c *Client) MeteringPoints(ctx context.Context) ([]json.RawMessage, error) {
	result, err := c.call(ctx, "getMeteringPoints", nil)
	if err != nil {
		return nil, err
	}

	var points []json.RawMessage
	if err := json.Unmarshal(result, &points); err != nil {
		return nil, fmt.Errorf("%w: decoding metering points: %v", ErrTransport, err)
	}

	return points, nil
}
