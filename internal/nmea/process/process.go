package process

import (
	"github.com/dumacp/go-gpsfeeder/internal/location"
	"github.com/dumacp/go-gpsfeeder/internal/metrics"
	"github.com/dumacp/go-gpsfeeder/internal/nmea"
)

// processor is the write side of the location state.
type processor struct {
	state   *location.State
	invalid int
	lastBad string
}

// process validates one raw line and applies it. Frames with unknown
// sentence types are accepted and ignored.
func (p *processor) process(line string) error {
	fields, err := nmea.Validate(line)
	if err != nil {
		metrics.FramesRejected.Inc()
		return p.bad(line, err)
	}
	sentence, err := nmea.Decode(fields)
	if err != nil {
		metrics.SentencesFailed.Inc()
		return p.bad(line, err)
	}
	if sentence == nil {
		return nil
	}
	if p.state.Apply(sentence) {
		metrics.SentencesApplied.WithLabelValues(sentence.Kind().String()).Inc()
	}
	return nil
}

func (p *processor) bad(line string, err error) error {
	p.invalid++
	p.lastBad = line
	return err
}

// rate returns the invalid lines per minute over window and restarts the count.
func (p *processor) rate(minutes float64) float64 {
	if minutes <= 0 {
		minutes = 1
	}
	v := float64(p.invalid) / minutes
	p.invalid = 0
	return v
}
