package report

import (
	"testing"

	"github.com/dumacp/go-gpsfeeder/internal/location"
)

func TestEncode(t *testing.T) {
	fix := location.Fix{
		Location: location.Location{
			Base: location.Basic{
				Lat: 3540.12345, Lng: 13945.6789, SOG: 12.5, COG: 271.3,
				NS: "N", EW: "E", UTC: "2026-9-17 8:45:12", Mode: "A",
			},
			Plus: location.Plus{Alt: 45.3, Sats: 8, Kmh: 23.2},
			DOP:  location.DOP{P: 2.5, H: 1.3, V: 2.1},
		},
		Counter: 9,
		At:      "2026-09-17 17:45:12",
	}
	r := New(3, "bus-17", true, fix)
	got, err := Encode(r)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{
  "counter": 3,
  "at": "2026-09-17 17:45:12",
  "status": true,
  "account": "bus-17",
  "location": {
    "base": {
      "lat": 3540.12345,
      "lng": 13945.6789,
      "sog": 12.5,
      "cog": 271.3,
      "ns": "N",
      "ew": "E",
      "utc": "2026-9-17 8:45:12",
      "mode": "A"
    },
    "plus": {
      "alt": 45.3,
      "sats": 8,
      "kmh": 23.2
    },
    "dop": {
      "p": 2.5,
      "h": 1.3,
      "v": 2.1
    }
  }
}`
	if string(got) != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestNewEmptyLocation(t *testing.T) {
	r := New(0, "acc", false, location.Fix{At: "2026-01-01 00:00:00"})
	got, err := Encode(r)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{
  "counter": 0,
  "at": "2026-01-01 00:00:00",
  "status": false,
  "account": "acc",
  "location": {
    "base": {
      "lat": 0,
      "lng": 0,
      "sog": 0,
      "cog": 0,
      "ns": "",
      "ew": "",
      "utc": "",
      "mode": ""
    },
    "plus": {
      "alt": 0,
      "sats": 0,
      "kmh": 0
    },
    "dop": {
      "p": 0,
      "h": 0,
      "v": 0
    }
  }
}`
	if string(got) != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}
