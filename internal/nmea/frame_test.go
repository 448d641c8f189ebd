package nmea

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"testing"

	gonmea "github.com/adrianmo/go-nmea"
)

func TestValidate(t *testing.T) {
	type args struct {
		line string
	}
	tests := []struct {
		name    string
		args    args
		want    []string
		wantErr error
	}{
		{
			name: "classic rmc",
			args: args{line: "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"},
			want: []string{"GPRMC", "123519", "A", "4807.038", "N", "01131.000", "E",
				"022.4", "084.4", "230394", "003.1", "W"},
		},
		{
			name: "lower case checksum",
			args: args{line: "$GPVTG,,T,,M,,N,,K,N*2c"},
			want: []string{"GPVTG", "", "T", "", "M", "", "N", "", "K", "N"},
		},
		{
			name: "line ending left over",
			args: args{line: "$GPGSA,A,3,04,2.5,1.3,2.1*1C\r\n"},
			want: []string{"GPGSA", "A", "3", "04", "2.5", "1.3", "2.1"},
		},
		{
			name:    "mismatch",
			args:    args{line: "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6B"},
			wantErr: ErrFrameMismatch,
		},
		{
			name:    "no checksum",
			args:    args{line: "$GPRMC,123519,A,4807.038,N"},
			wantErr: ErrFrameFormat,
		},
		{
			name:    "two separators",
			args:    args{line: "$GPRMC,1*23*6A"},
			wantErr: ErrFrameFormat,
		},
		{
			name:    "checksum not hex",
			args:    args{line: "$GPVTG,,T,,M,,N,,K,N*ZZ"},
			wantErr: ErrFrameChecksum,
		},
		{
			name:    "checksum too wide",
			args:    args{line: "$GPVTG,,T,,M,,N,,K,N*12C"},
			wantErr: ErrFrameChecksum,
		},
		{
			name:    "empty body",
			args:    args{line: "$*00"},
			wantErr: ErrFrameFormat,
		},
		{
			name:    "empty line",
			args:    args{line: ""},
			wantErr: ErrFrameFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.args.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrFrame) {
					t.Errorf("Validate() error = %v does not wrap ErrFrame", err)
				}
				if got != nil {
					t.Errorf("Validate() = %v, want nil", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChecksumMatchesReference(t *testing.T) {
	bodies := []string{
		"GPRMC,084512.00,A,3540.12345,N,13945.67890,E,12.5,271.3,170926,,,A",
		"GPGGA,084512.00,3540.12345,N,13945.67890,E,1,08,1.01,45.3,M,39.5,M,,",
		"GPVTG,271.3,T,,M,12.5,N,23.2,K,A",
		"GNGSA,A,1,,,,",
		"X",
	}
	for _, body := range bodies {
		want, err := strconv.ParseUint(gonmea.Checksum(body), 16, 8)
		if err != nil {
			t.Fatal(err)
		}
		if got := Checksum(body); got != byte(want) {
			t.Errorf("Checksum(%q) = %02X, want %02X", body, got, want)
		}
		line := fmt.Sprintf("$%s*%02X", body, want)
		if _, err := Validate(line); err != nil {
			t.Errorf("Validate(%q) error = %v", line, err)
		}
	}
}

func TestValidateSingleBitCorruption(t *testing.T) {
	body := "GPGGA,084512.00,3540.12345,N,13945.67890,E,1,08,1.01,45.3,M,39.5,M,,"
	sum := Checksum(body)
	for i := 0; i < len(body); i++ {
		for bit := 0; bit < 8; bit++ {
			corrupt := []byte(body)
			corrupt[i] ^= 1 << bit
			line := fmt.Sprintf("$%s*%02X", corrupt, sum)
			if _, err := Validate(line); err == nil {
				t.Fatalf("Validate() accepted corruption at byte %d bit %d: %q", i, bit, line)
			}
		}
	}
}
