package location

import (
	"math"
	"strings"

	"github.com/golang/geo/s2"
)

// Basic is updated only by active RMC sentences.
type Basic struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	SOG  float64 `json:"sog"`
	COG  float64 `json:"cog"`
	NS   string  `json:"ns"`
	EW   string  `json:"ew"`
	UTC  string  `json:"utc"`
	Mode string  `json:"mode"` // N<A<D<E
}

type Plus struct {
	Alt  float64 `json:"alt"`
	Sats int     `json:"sats"`
	Kmh  float64 `json:"kmh"`
}

// DOP holds positional, horizontal and vertical dilution of precision.
type DOP struct {
	P float64 `json:"p"`
	H float64 `json:"h"`
	V float64 `json:"v"`
}

type Location struct {
	Base Basic `json:"base"`
	Plus Plus  `json:"plus"`
	DOP  DOP   `json:"dop"`
}

// LatLng converts the NMEA ddmm.mmmm coordinates to a point.
func (b Basic) LatLng() s2.LatLng {
	lat := degrees(b.Lat)
	if strings.EqualFold(b.NS, "S") {
		lat = -lat
	}
	lng := degrees(b.Lng)
	if strings.EqualFold(b.EW, "W") {
		lng = -lng
	}
	return s2.LatLngFromDegrees(lat, lng)
}

func degrees(ddmm float64) float64 {
	deg := math.Trunc(ddmm / 100)
	return deg + (ddmm-deg*100)/60
}
