package sender

import (
	"errors"
	"reflect"
	"testing"
)

func TestStoreDrainOrder(t *testing.T) {
	s := newStore(0)
	for _, v := range []string{"A", "B", "C"} {
		s.push([]byte(v))
	}
	var got []string
	sent, err := s.drain(func(b []byte) error {
		got = append(got, string(b))
		return nil
	})
	if err != nil || sent != 3 {
		t.Fatalf("drain() = %d, %v, want 3, nil", sent, err)
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("drain order = %v, want %v", got, want)
	}
	if s.len() != 0 {
		t.Errorf("len() = %d, want 0", s.len())
	}
}

func TestStoreDrainStopsOnFailure(t *testing.T) {
	s := newStore(0)
	for _, v := range []string{"A", "B", "C"} {
		s.push([]byte(v))
	}
	errFail := errors.New("fail")
	var attempted []string
	sent, err := s.drain(func(b []byte) error {
		attempted = append(attempted, string(b))
		if string(b) == "B" {
			return errFail
		}
		return nil
	})
	if !errors.Is(err, errFail) || sent != 1 {
		t.Fatalf("drain() = %d, %v, want 1, %v", sent, err, errFail)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(attempted, want) {
		t.Errorf("attempted = %v, want %v", attempted, want)
	}

	var rest []string
	s.drain(func(b []byte) error {
		rest = append(rest, string(b))
		return nil
	})
	if want := []string{"B", "C"}; !reflect.DeepEqual(rest, want) {
		t.Errorf("next cycle = %v, want %v", rest, want)
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	s := newStore(2)
	if ev := s.push([]byte("A")); ev != nil {
		t.Errorf("push(A) evicted %q", ev)
	}
	s.push([]byte("B"))
	if ev := s.push([]byte("C")); string(ev) != "A" {
		t.Errorf("push(C) evicted %q, want A", ev)
	}
	var got []string
	s.drain(func(b []byte) error {
		got = append(got, string(b))
		return nil
	})
	if want := []string{"B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("drain = %v, want %v", got, want)
	}
}

func TestStoreIgnoresNil(t *testing.T) {
	s := newStore(0)
	s.push(nil)
	if s.len() != 0 {
		t.Errorf("len() = %d, want 0", s.len())
	}
}
