package sender

import (
	"container/list"
	"sync"

	"github.com/dumacp/go-gpsfeeder/internal/metrics"
)

// store keeps undelivered reports oldest first. The same lock guards
// appends from the send path and the whole drain cycle.
type store struct {
	mux  sync.Mutex
	list *list.List
	max  int
}

// newStore creates a retry store holding at most max entries, 0 is unbounded.
func newStore(max int) *store {
	s := &store{}
	s.list = list.New()
	if max > 0 {
		s.max = max
	}
	return s
}

// push appends content at the tail and returns the evicted head, if any.
func (s *store) push(content []byte) []byte {
	if content == nil {
		return nil
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	var evicted []byte
	if s.max > 0 && s.list.Len() >= s.max {
		if e := s.list.Front(); e != nil {
			evicted = s.list.Remove(e).([]byte)
		}
	}
	s.list.PushBack(content)
	metrics.RetryDepth.Set(float64(s.list.Len()))
	return evicted
}

func (s *store) len() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.list.Len()
}

// drain delivers entries from the head until the store is empty or a
// delivery fails. The failing entry and everything behind it stay queued.
func (s *store) drain(deliver func([]byte) error) (int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	defer func() {
		metrics.RetryDepth.Set(float64(s.list.Len()))
	}()
	sent := 0
	for {
		e := s.list.Front()
		if e == nil {
			return sent, nil
		}
		if err := deliver(e.Value.([]byte)); err != nil {
			return sent, err
		}
		s.list.Remove(e)
		sent++
	}
}
