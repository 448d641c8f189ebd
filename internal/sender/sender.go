package sender

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dumacp/go-gpsfeeder/internal/metrics"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/tevino/abool/v2"
)

const (
	DefaultTimeout       = 5 * time.Second
	DefaultRetryInterval = 5 * time.Second
	DefaultRetryMax      = 10000
)

type Config struct {
	URL           string
	Timeout       time.Duration
	RetryInterval time.Duration
	// RetryMax bounds the retry store, the oldest report is evicted when
	// full. 0 disables the bound.
	RetryMax int
	Clock    clock.Clock
}

// Sender delivers serialized reports and keeps the failed ones for the
// retry cycle.
type Sender struct {
	client   *client
	store    *store
	online   *abool.AtomicBool
	clock    clock.Clock
	interval time.Duration
}

func New(cfg Config) *Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	s := &Sender{
		client:   newClient(cfg.URL, cfg.Timeout),
		store:    newStore(cfg.RetryMax),
		online:   abool.NewBool(true),
		clock:    cfg.Clock,
		interval: cfg.RetryInterval,
	}
	metrics.SetOnline(true)
	return s
}

func (s *Sender) setOnline(v bool) {
	s.online.SetTo(v)
	metrics.SetOnline(v)
}

// Online reports the connectivity flag set by the last delivery attempt.
func (s *Sender) Online() bool {
	return s.online.IsSet()
}

// Pending returns the number of reports waiting in the retry store.
func (s *Sender) Pending() int {
	return s.store.len()
}

// Send makes one delivery attempt. Content that could not reach the
// collector is appended to the retry store, never dropped.
func (s *Sender) Send(content []byte) error {
	err := s.client.post(content)
	if err == nil {
		s.setOnline(true)
		metrics.ReportsDelivered.Inc()
		logs.LogBuild.Println("send success")
		return nil
	}
	var serr *StatusError
	switch {
	case errors.As(err, &serr) && !serr.Temporary():
		s.setOnline(true)
		metrics.ReportsDropped.WithLabelValues("rejected").Inc()
		logs.LogError.Printf("report discarded: %s", err)
		return err
	case errors.As(err, &serr):
		s.setOnline(true)
	default:
		s.setOnline(false)
	}
	logs.LogError.Printf("send error: %s", err)
	s.buffer(content)
	return err
}

func (s *Sender) buffer(content []byte) {
	metrics.ReportsBuffered.Inc()
	if evicted := s.store.push(content); evicted != nil {
		metrics.ReportsDropped.WithLabelValues("evicted").Inc()
		logs.LogWarn.Printf("retry store full, oldest report evicted (%d bytes)", len(evicted))
	}
}

// deliver is the drain path: rejected content is consumed like a
// delivered one so it cannot block the head of the store. It reports
// whether the collector accepted the content.
func (s *Sender) deliver(content []byte) (bool, error) {
	err := s.client.post(content)
	var serr *StatusError
	switch {
	case err == nil:
		s.setOnline(true)
		metrics.ReportsDelivered.Inc()
		return true, nil
	case errors.As(err, &serr) && !serr.Temporary():
		s.setOnline(true)
		metrics.ReportsDropped.WithLabelValues("rejected").Inc()
		logs.LogError.Printf("buffered report discarded: %s", err)
		return false, nil
	case errors.As(err, &serr):
		s.setOnline(true)
	default:
		s.setOnline(false)
	}
	return false, err
}

// Retry runs one retry cycle and returns how many reports left the store,
// delivered or rejected by the collector.
func (s *Sender) Retry() int {
	if !s.online.IsSet() {
		return 0
	}
	if remain := s.store.len(); remain > 0 {
		logs.LogBuild.Printf("Remain %d", remain)
	}
	rejected := 0
	sent, err := s.store.drain(func(content []byte) error {
		ok, err := s.deliver(content)
		if err == nil && !ok {
			rejected++
		}
		return err
	})
	if err != nil {
		logs.LogWarn.Printf("retry stopped after %d reports (%d rejected): %s", sent, rejected, err)
	} else if sent > 0 {
		logs.LogInfo.Printf("retry delivered %d reports, %d rejected", sent-rejected, rejected)
	}
	return sent
}

func (s *Sender) retryCycle(quit <-chan int) {
	tick := s.clock.Ticker(s.interval)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			s.Retry()
		case <-quit:
			return
		}
	}
}
