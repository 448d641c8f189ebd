package report

import (
	"encoding/json"

	"github.com/dumacp/go-gpsfeeder/internal/location"
)

// Report is the snapshot sent to the collector. It is never modified after
// New returns it.
type Report struct {
	Counter  int               `json:"counter"`
	At       string            `json:"at"`
	Status   bool              `json:"status"`
	Account  string            `json:"account"`
	Location location.Location `json:"location"`
}

func New(counter int, account string, status bool, fix location.Fix) *Report {
	return &Report{
		Counter:  counter,
		At:       fix.At,
		Status:   status,
		Account:  account,
		Location: fix.Location,
	}
}

// Encode serializes the report as indented JSON.
func Encode(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
