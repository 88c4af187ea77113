// Package hours provides the DateHour bucket key used for everything the
// collector stores: a UTC calendar date plus an hour of day. Market data is
// hourly, so this is the natural primary key.
package hours

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Market hours for the DK price areas follow Copenhagen wall-clock time.
var copenhagenLoc *time.Location

func init() {
	var err error
	copenhagenLoc, err = time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		panic(fmt.Sprintf("failed to load Copenhagen location: %v", err))
	}
}

type DateHour struct {
	Date string
	Hour uint8
}

func (dh DateHour) String() string {
	return fmt.Sprintf("%s %02d", dh.Date, dh.Hour)
}

// IsoString renders the bucket as the start of the hour in the wire format
// the barry API uses.
func (dh DateHour) IsoString() string {
	return fmt.Sprintf("%sT%02d:00:00Z", dh.Date, dh.Hour)
}

// LocalizedString renders the bucket in Copenhagen wall-clock time. Falls
// back to the UTC rendering when the bucket is malformed.
func (dh DateHour) LocalizedString() string {
	t := dh.Time()
	if t.IsZero() {
		return dh.String()
	}
	local := t.In(copenhagenLoc)
	return fmt.Sprintf("%s %02d", local.Format(dateLayout), local.Hour())
}

// Time returns the UTC instant at the start of the bucket, or the zero time
// if the bucket is malformed.
func (dh DateHour) Time() time.Time {
	t, err := time.ParseInLocation(dateLayout, dh.Date, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.Add(time.Duration(dh.Hour) * time.Hour)
}

func (dh DateHour) Add(hours int) DateHour {
	t := dh.Time()
	if t.IsZero() {
		return dh
	}
	return FromTime(t.Add(time.Duration(hours) * time.Hour))
}

func (dh DateHour) Sub(hours int) DateHour {
	return dh.Add(-hours)
}

func (dh DateHour) Compare(other DateHour) int {
	if dh == other {
		return 0
	}
	if dh.Date != other.Date {
		if dh.Date < other.Date {
			return -1
		}
		return 1
	}
	if dh.Hour < other.Hour {
		return -1
	}
	return 1
}

func (dh DateHour) IsZero() bool {
	return dh.Date == "" && dh.Hour == 0
}

func FromTime(t time.Time) DateHour {
	if t.IsZero() {
		return DateHour{}
	}
	t = t.UTC()
	return DateHour{
		Date: t.Format(dateLayout),
		Hour: uint8(t.Hour()),
	}
}

func FromNow() DateHour {
	return FromTime(time.Now())
}

func FromMidnight() DateHour {
	dh := FromNow()
	dh.Hour = 0
	return dh
}

// FromIso parses an RFC3339 string into the bucket containing it, returning
// the zero value when the string is not a timestamp.
func FromIso(str string) DateHour {
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return DateHour{}
	}
	return FromTime(t)
}
