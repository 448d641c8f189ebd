package nmea

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrSentence is wrapped by every failure decoding a recognized sentence.
var ErrSentence = errors.New("invalid nmea sentence")

type Kind int

const (
	KindUnknown Kind = iota
	KindRMC
	KindGGA
	KindVTG
	KindGSA
)

func (k Kind) Value() string {
	switch k {
	case KindRMC:
		return "RMC"
	case KindGGA:
		return "GGA"
	case KindVTG:
		return "VTG"
	case KindGSA:
		return "GSA"
	default:
		return ""
	}
}

func (k Kind) String() string {
	if v := k.Value(); len(v) > 0 {
		return v
	}
	return "unknown"
}

// KindOf classifies a talker+type code by its last three characters.
func KindOf(code string) Kind {
	if len(code) < 3 {
		return KindUnknown
	}
	switch code[len(code)-3:] {
	case "RMC":
		return KindRMC
	case "GGA":
		return KindGGA
	case "VTG":
		return KindVTG
	case "GSA":
		return KindGSA
	}
	return KindUnknown
}

// Sentence is a fully decoded RMC, GGA, VTG or GSA sentence.
type Sentence interface {
	Kind() Kind
}

const (
	statusActive   = "A"
	qualityNoFix   = "0"
	modeNoData     = "N"
	fixTypeNoFix   = "1"
	rmcMinFields   = 13
	ggaMinFields   = 10
	vtgMinFields   = 10
	gsaMinFields   = 7
	rmcTimeWidth   = 6
	rmcDateWidth   = 6
	rmcCenturyBase = 2000
)

// RMC: recommended minimum data.
//
//	[1] time HHMMSS  [2] status A/V  [3] lat  [4] N/S  [5] lng  [6] E/W
//	[7] sog  [8] cog  [9] date DDMMYY  [12] mode
type RMC struct {
	Status string
	Time   time.Time
	Lat    float64
	NS     string
	Lng    float64
	EW     string
	SOG    float64
	COG    float64
	Mode   string
}

func (RMC) Kind() Kind { return KindRMC }

// Active reports whether the receiver flagged the fix as valid.
func (s RMC) Active() bool { return s.Status == statusActive }

// GGA: fix data. [6] quality  [7] satellites  [9] altitude
type GGA struct {
	Quality string
	Sats    int
	Alt     float64
}

func (GGA) Kind() Kind { return KindGGA }

func (s GGA) Valid() bool { return s.Quality != qualityNoFix }

// VTG: track and ground speed. [7] km/h  [9] mode
type VTG struct {
	Kmh  float64
	Mode string
}

func (VTG) Kind() Kind { return KindVTG }

func (s VTG) Valid() bool { return s.Mode != modeNoData }

// GSA: DOP and active satellites. [2] fix type  [4] PDOP  [5] HDOP  [6] VDOP
type GSA struct {
	FixType string
	PDOP    float64
	HDOP    float64
	VDOP    float64
}

func (GSA) Kind() Kind { return KindGSA }

func (s GSA) Valid() bool { return s.FixType != fixTypeNoFix }

// Decode turns a validated field sequence into a typed sentence. Unknown
// sentence types return a nil Sentence and a nil error.
func Decode(fields []string) (Sentence, error) {
	if len(fields) <= 0 {
		return nil, fmt.Errorf("%w: empty", ErrSentence)
	}
	kind := KindOf(fields[0])
	var (
		s   Sentence
		err error
	)
	switch kind {
	case KindRMC:
		s, err = decodeRMC(fields)
	case KindGGA:
		s, err = decodeGGA(fields)
	case KindVTG:
		s, err = decodeVTG(fields)
	case KindGSA:
		s, err = decodeGSA(fields)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %s", ErrSentence, fields[0], err)
	}
	return s, nil
}

func decodeRMC(f []string) (Sentence, error) {
	s := RMC{
		Status: field(f, 2),
		NS:     field(f, 4),
		EW:     field(f, 6),
		Mode:   field(f, 12),
	}
	if len(f) > 2 && !s.Active() {
		return s, nil
	}
	if len(f) < rmcMinFields {
		return nil, fmt.Errorf("want %d fields, got %d", rmcMinFields, len(f))
	}
	var err error
	if s.Time, err = parseUTC(f[9], f[1]); err != nil {
		return nil, err
	}
	if s.Lat, err = parseFloat(f[3]); err != nil {
		return nil, err
	}
	if s.Lng, err = parseFloat(f[5]); err != nil {
		return nil, err
	}
	if s.SOG, err = parseFloat(f[7]); err != nil {
		return nil, err
	}
	if s.COG, err = parseFloat(f[8]); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeGGA(f []string) (Sentence, error) {
	s := GGA{Quality: field(f, 6)}
	if len(f) > 6 && !s.Valid() {
		return s, nil
	}
	if len(f) < ggaMinFields {
		return nil, fmt.Errorf("want %d fields, got %d", ggaMinFields, len(f))
	}
	var err error
	if s.Sats, err = parseInt(f[7]); err != nil {
		return nil, err
	}
	if s.Alt, err = parseFloat(f[9]); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeVTG(f []string) (Sentence, error) {
	s := VTG{Mode: field(f, 9)}
	if len(f) > 9 && !s.Valid() {
		return s, nil
	}
	if len(f) < vtgMinFields {
		return nil, fmt.Errorf("want %d fields, got %d", vtgMinFields, len(f))
	}
	var err error
	if s.Kmh, err = parseFloat(f[7]); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeGSA(f []string) (Sentence, error) {
	s := GSA{FixType: field(f, 2)}
	if len(f) > 2 && !s.Valid() {
		return s, nil
	}
	if len(f) < gsaMinFields {
		return nil, fmt.Errorf("want %d fields, got %d", gsaMinFields, len(f))
	}
	var err error
	if s.PDOP, err = parseFloat(f[4]); err != nil {
		return nil, err
	}
	if s.HDOP, err = parseFloat(f[5]); err != nil {
		return nil, err
	}
	if s.VDOP, err = parseFloat(f[6]); err != nil {
		return nil, err
	}
	return s, nil
}

// field returns "" past the end of f.
func field(f []string, i int) string {
	if i < len(f) {
		return f[i]
	}
	return ""
}

// empty sub-fields decode to zero
func parseFloat(v string) (float64, error) {
	if len(v) <= 0 {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

func parseInt(v string) (int, error) {
	if len(v) <= 0 {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func parseUTC(ddmmyy, hhmmss string) (time.Time, error) {
	if len(ddmmyy) < rmcDateWidth || len(hhmmss) < rmcTimeWidth {
		return time.Time{}, fmt.Errorf("short date/time %q %q", ddmmyy, hhmmss)
	}
	var (
		parts [6]int
		err   error
	)
	for i, v := range []string{
		ddmmyy[4:6], ddmmyy[2:4], ddmmyy[0:2],
		hhmmss[0:2], hhmmss[2:4], hhmmss[4:6],
	} {
		if parts[i], err = strconv.Atoi(v); err != nil {
			return time.Time{}, err
		}
	}
	t := time.Date(parts[0]+rmcCenturyBase, time.Month(parts[1]), parts[2],
		parts[3], parts[4], parts[5], 0, time.UTC)
	if int(t.Month()) != parts[1] || t.Day() != parts[2] ||
		t.Hour() != parts[3] || t.Minute() != parts[4] || t.Second() != parts[5] {
		return time.Time{}, fmt.Errorf("out of range date/time %q %q", ddmmyy, hhmmss)
	}
	return t, nil
}
