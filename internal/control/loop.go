package control

import (
	"github.com/dumacp/go-gpsfeeder/internal/location"
	"github.com/dumacp/go-gpsfeeder/internal/metrics"
	"github.com/dumacp/go-gpsfeeder/internal/report"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/golang/geo/s2"
	"github.com/looplab/fsm"
)

const earthRadiusMeters = 6371010.0

// Source is the published location read by the loop.
type Source interface {
	Fix() location.Fix
}

// Loop decides on every tick whether a report is due. It is driven by a
// single goroutine (the control actor).
type Loop struct {
	source   Source
	account  string
	table    Table
	fsm      *fsm.FSM
	tick     int
	last     uint64
	interval int
	counter  int
	losses   int
	prev     *s2.LatLng
}

func NewLoop(source Source, account string, table Table) *Loop {
	if len(table) == 0 {
		table = DefaultTable
	}
	l := &Loop{
		source:   source,
		account:  account,
		table:    table,
		interval: DefaultInterval,
	}
	l.initFSM()
	return l
}

// Interval returns the current cadence in ticks.
func (l *Loop) Interval() int {
	return l.interval
}

// HasFix reports whether the receiver advanced the fix counter on the last tick.
func (l *Loop) HasFix() bool {
	return l.fsm.Is(sHasFix)
}

func (l *Loop) setInterval(v int) {
	if v == l.interval {
		return
	}
	logs.LogInfo.Printf("send interval %d -> %d", l.interval, v)
	l.interval = v
}

// step runs one iteration and returns the report to send, if any.
func (l *Loop) step() *report.Report {
	defer func() { l.tick++ }()
	fix := l.source.Fix()
	if fix.Counter == l.last {
		if l.fsm.Is(sHasFix) {
			if err := l.fsm.Event(lostEvent); err != nil {
				logs.LogError.Println(err)
			}
			return nil
		}
		logs.LogBuild.Println("checking GPS ...")
		return nil
	}
	l.last = fix.Counter
	if l.fsm.Is(sNoFix) {
		if err := l.fsm.Event(fixEvent); err != nil {
			logs.LogError.Println(err)
		}
	}
	var r *report.Report
	if l.tick%l.interval == 0 {
		r = l.build(fix)
	}
	l.setInterval(l.table.Interval(fix.Plus.Kmh))
	return r
}

func (l *Loop) build(fix location.Fix) *report.Report {
	r := report.New(l.counter, l.account, true, fix)
	l.counter++
	metrics.ReportsBuilt.Inc()

	point := fix.Base.LatLng()
	if l.prev != nil {
		meters := l.prev.Distance(point).Radians() * earthRadiusMeters
		metrics.DistanceMeters.Add(meters)
		logs.LogBuild.Printf("report %d, distance %.1f m", r.Counter, meters)
	}
	l.prev = &point
	return r
}
