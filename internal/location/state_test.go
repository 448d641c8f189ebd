package location

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/dumacp/go-gpsfeeder/internal/nmea"
	"github.com/google/go-cmp/cmp"
)

var jst = time.FixedZone("JST", 9*60*60)

const (
	rmcActive = "$GPRMC,084512.00,A,3540.12345,N,13945.67890,E,12.5,271.3,170926,,,A*67"
	rmcVoid   = "$GPRMC,084512.00,V,,,,,,,170926,,,N*7C"
	rmcNext   = "$GPRMC,084513.00,A,3540.12400,N,13945.67900,E,0.5,10.0,170926,,,D*68"
	gga       = "$GPGGA,084512.00,3540.12345,N,13945.67890,E,1,08,1.01,45.3,M,39.5,M,,*6A"
	ggaNoFix  = "$GPGGA,084512.00,,,,,0,00,99.99,,,,,,*6C"
	vtg       = "$GPVTG,271.3,T,,M,12.5,N,23.2,K,A*0F"
	vtgNoData = "$GPVTG,,T,,M,,N,,K,N*2C"
	gsa       = "$GPGSA,A,3,04,2.5,1.3,2.1*1C"
	gsaNoFix  = "$GNGSA,A,1,,,,*2C"
	corrupted = "$GPRMC,084512.00,A,3540.12345,N,13945.67890,E,12.5,271.3,170926,,,A*66"
)

func decode(t *testing.T, line string) nmea.Sentence {
	t.Helper()
	fields, err := nmea.Validate(line)
	if err != nil {
		t.Fatalf("Validate(%q) error = %v", line, err)
	}
	s, err := nmea.Decode(fields)
	if err != nil {
		t.Fatalf("Decode(%q) error = %v", line, err)
	}
	return s
}

func TestApplyActiveRMC(t *testing.T) {
	st := NewState(jst)
	before := st.Fix()
	if !st.Apply(decode(t, rmcActive)) {
		t.Fatal("Apply() = false, want true")
	}
	got := st.Fix()
	if got.Counter != before.Counter+1 {
		t.Errorf("Counter = %d, want %d", got.Counter, before.Counter+1)
	}
	want := Basic{
		Lat:  3540.12345,
		Lng:  13945.67890,
		SOG:  12.5,
		COG:  271.3,
		NS:   "N",
		EW:   "E",
		UTC:  "2026-9-17 8:45:12",
		Mode: "A",
	}
	if diff := cmp.Diff(want, got.Base); diff != "" {
		t.Errorf("Base mismatch (-want +got):\n%s", diff)
	}
	if got.At != "2026-09-17 17:45:12" {
		t.Errorf("At = %q, want %q", got.At, "2026-09-17 17:45:12")
	}
	if st.Counter() != 1 {
		t.Errorf("Counter() = %d, want 1", st.Counter())
	}
}

func TestApplyIgnoresInvalid(t *testing.T) {
	st := NewState(jst)
	st.Apply(decode(t, rmcActive))
	st.Apply(decode(t, gga))
	st.Apply(decode(t, vtg))
	st.Apply(decode(t, gsa))
	want := st.Fix()

	for _, line := range []string{rmcVoid, ggaNoFix, vtgNoData, gsaNoFix} {
		if st.Apply(decode(t, line)) {
			t.Errorf("Apply(%q) = true, want false", line)
		}
	}
	if diff := cmp.Diff(want, st.Fix()); diff != "" {
		t.Errorf("Fix changed (-want +got):\n%s", diff)
	}
}

func TestCorruptedFrameLeavesStateUnchanged(t *testing.T) {
	st := NewState(jst)
	st.Apply(decode(t, rmcActive))
	want := st.Fix()
	if fields, err := nmea.Validate(corrupted); err == nil {
		t.Fatalf("Validate() accepted corrupted frame: %q", fields)
	}
	if diff := cmp.Diff(want, st.Fix()); diff != "" {
		t.Errorf("Fix changed (-want +got):\n%s", diff)
	}
}

func TestApplyPlusAndDOP(t *testing.T) {
	st := NewState(jst)
	st.Apply(decode(t, gga))
	st.Apply(decode(t, vtg))
	st.Apply(decode(t, gsa))
	got := st.Fix()
	if got.Counter != 0 {
		t.Errorf("Counter = %d, want 0", got.Counter)
	}
	if diff := cmp.Diff(Plus{Alt: 45.3, Sats: 8, Kmh: 23.2}, got.Plus); diff != "" {
		t.Errorf("Plus mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(DOP{P: 2.5, H: 1.3, V: 2.1}, got.DOP); diff != "" {
		t.Errorf("DOP mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Basic{}, got.Base); diff != "" {
		t.Errorf("Base mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	st := NewState(jst)
	st.Apply(decode(t, rmcActive))
	first := st.Fix()
	st.Apply(decode(t, rmcNext))
	if first.Counter != 1 || first.Base.SOG != 12.5 {
		t.Errorf("earlier snapshot mutated: %+v", first)
	}
	if got := st.Fix(); got.Counter != 2 || got.Base.Mode != "D" {
		t.Errorf("Fix() = %+v, want counter 2 mode D", got)
	}
}

func TestConcurrentReaders(t *testing.T) {
	st := NewState(jst)
	rmc := decode(t, rmcActive)
	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			f := st.Fix()
			if f.Counter > 0 && f.Base.Mode != "A" {
				t.Errorf("torn snapshot %+v", f)
				return
			}
		}
	}()
	for i := 0; i < 1000; i++ {
		st.Apply(rmc)
	}
	close(done)
	wg.Wait()
	if st.Counter() != 1000 {
		t.Errorf("Counter() = %d, want 1000", st.Counter())
	}
}

func TestLatLng(t *testing.T) {
	tests := []struct {
		name    string
		base    Basic
		wantLat float64
		wantLng float64
	}{
		{"north east", Basic{Lat: 3540.5, NS: "N", Lng: 13945.25, EW: "E"}, 35.675, 139.75416666},
		{"south west", Basic{Lat: 3330.0, NS: "S", Lng: 7036.0, EW: "W"}, -33.5, -70.6},
		{"zero", Basic{}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base.LatLng()
			if math.Abs(got.Lat.Degrees()-tt.wantLat) > 1e-6 {
				t.Errorf("lat = %v, want %v", got.Lat.Degrees(), tt.wantLat)
			}
			if math.Abs(got.Lng.Degrees()-tt.wantLng) > 1e-6 {
				t.Errorf("lng = %v, want %v", got.Lng.Degrees(), tt.wantLng)
			}
		})
	}
}
