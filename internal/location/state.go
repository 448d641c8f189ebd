package location

import (
	"fmt"
	"time"

	"github.com/dumacp/go-gpsfeeder/internal/nmea"
	"go.uber.org/atomic"
)

const (
	// TimeLayout is the layout of the local fix timestamp.
	TimeLayout = "2006-01-02 15:04:05"
	utcFormat  = "%d-%d-%d %d:%d:%d"
)

// Fix is an immutable snapshot of the latest known location.
type Fix struct {
	Location
	// Counter is the number of accepted active RMC sentences.
	Counter uint64
	// At is the local time of the last accepted RMC.
	At string
}

// State owns the working location. Apply must be called from a single
// goroutine; Fix may be called from any goroutine.
type State struct {
	loc  *time.Location
	work Fix
	last *atomic.Pointer[Fix]
}

// NewState creates a state stamped with the current time in loc.
func NewState(loc *time.Location) *State {
	if loc == nil {
		loc = time.Local
	}
	s := &State{loc: loc}
	s.work.At = time.Now().In(loc).Format(TimeLayout)
	first := s.work
	s.last = atomic.NewPointer(&first)
	return s
}

// Fix returns the last published snapshot.
func (s *State) Fix() Fix {
	return *s.last.Load()
}

// Counter returns the number of accepted active RMC sentences.
func (s *State) Counter() uint64 {
	return s.last.Load().Counter
}

// Apply updates the location with a decoded sentence and publishes a new
// snapshot. It reports whether anything changed.
func (s *State) Apply(sentence nmea.Sentence) bool {
	next := s.work
	switch v := sentence.(type) {
	case nmea.RMC:
		if !v.Active() {
			return false
		}
		t := v.Time
		next.Base = Basic{
			Lat:  v.Lat,
			Lng:  v.Lng,
			SOG:  v.SOG,
			COG:  v.COG,
			NS:   v.NS,
			EW:   v.EW,
			Mode: v.Mode,
			UTC: fmt.Sprintf(utcFormat, t.Year(), int(t.Month()), t.Day(),
				t.Hour(), t.Minute(), t.Second()),
		}
		next.At = t.In(s.loc).Format(TimeLayout)
		next.Counter++
	case nmea.GGA:
		if !v.Valid() {
			return false
		}
		next.Plus.Sats = v.Sats
		next.Plus.Alt = v.Alt
	case nmea.VTG:
		if !v.Valid() {
			return false
		}
		next.Plus.Kmh = v.Kmh
	case nmea.GSA:
		if !v.Valid() {
			return false
		}
		next.DOP = DOP{P: v.PDOP, H: v.HDOP, V: v.VDOP}
	default:
		return false
	}
	s.work = next
	published := next
	s.last.Store(&published)
	return true
}
