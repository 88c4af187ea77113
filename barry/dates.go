package barry

import "time"

// OneDay is the 24 hour span used as the minimum consumption query window.
const OneDay = 24 * time.Hour

// YesterdayStart returns midnight UTC of the current day.
//
// NOTE: despite the name no day is subtracted, this really is *today* at
// 00:00. The name is kept for compatibility with the API wrapper this client
// replaces; together with YesterdayEnd it still spans the 24 hours the
// consumption endpoint requires.
func (c *Client) YesterdayStart() time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// YesterdayEnd returns YesterdayStart plus 24 hours.
func (c *Client) YesterdayEnd() time.Time {
	return c.YesterdayStart().Add(OneDay)
}

// NowHour returns the current UTC instant truncated to the top of the hour.
func (c *Client) NowHour() time.Time {
	return c.Now().UTC().Truncate(time.Hour)
}
