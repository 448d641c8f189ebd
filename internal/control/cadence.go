package control

// Cadence is one speed bucket: below Max km/h a report is sent every
// Interval ticks.
type Cadence struct {
	Max      int `yaml:"max"`
	Interval int `yaml:"interval"`
}

// Table is ordered by ascending Max.
type Table []Cadence

// DefaultInterval is used above the last bucket and while there is no fix.
const DefaultInterval = 1

var DefaultTable = Table{
	{Max: 5, Interval: 30},
	{Max: 10, Interval: 15},
	{Max: 25, Interval: 4},
	{Max: 50, Interval: 3},
	{Max: 75, Interval: 2},
}

// Interval returns the send interval for kmh. The first bucket whose Max is
// strictly greater than the truncated speed wins.
func (t Table) Interval(kmh float64) int {
	speed := int(kmh)
	for _, c := range t {
		if speed < c.Max {
			if c.Interval <= 0 {
				return DefaultInterval
			}
			return c.Interval
		}
	}
	return DefaultInterval
}
