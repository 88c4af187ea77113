package barry

import "fmt"

// PriceArea is a market zone supported by the barry.energy API. The constant
// value is sent verbatim as the wire parameter of getPrice.
type PriceArea string

const (
	DKNordpoolSpotDK1 PriceArea = "DK_NORDPOOL_SPOT_DK1" // West Denmark
	DKNordpoolSpotDK2 PriceArea = "DK_NORDPOOL_SPOT_DK2" // East Denmark
	FREpexSpotFR      PriceArea = "FR_EPEX_SPOT_FR"      // France
)

// Valid reports whether the area is one of the supported market zones.
func (a PriceArea) Valid() bool {
	switch a {
	case DKNordpoolSpotDK1, DKNordpoolSpotDK2, FREpexSpotFR:
		return true
	}
	return false
}

func (a PriceArea) String() string { return string(a) }

// ParsePriceArea converts a zone code like "DK_NORDPOOL_SPOT_DK1" into a
// PriceArea, failing with ErrValidation for unknown codes.
func ParsePriceArea(code string) (PriceArea, error) {
	a := PriceArea(code)
	if !a.Valid() {
		return "", fmt.Errorf("%w: unknown price area %q", ErrValidation, code)
	}
	return a, nil
}
