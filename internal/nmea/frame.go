package nmea

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	frameStart     = '$'
	frameChecksum  = "*"
	fieldSeparator = ","
)

// ErrFrame is wrapped by every frame integrity failure.
var ErrFrame = errors.New("invalid nmea frame")

var (
	ErrFrameFormat   = fmt.Errorf("%w: bad format", ErrFrame)
	ErrFrameChecksum = fmt.Errorf("%w: bad checksum", ErrFrame)
	ErrFrameMismatch = fmt.Errorf("%w: checksum mismatch", ErrFrame)
)

// Checksum returns the xor fold of every byte in body.
func Checksum(body string) byte {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return sum
}

// Validate verifies the checksum of a raw line and returns the comma
// separated fields of its body.
func Validate(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	part := strings.Split(line, frameChecksum)
	if len(part) != 2 {
		return nil, fmt.Errorf("%w %q", ErrFrameFormat, line)
	}
	body := strings.TrimPrefix(part[0], string(frameStart))
	if len(body) <= 0 {
		return nil, fmt.Errorf("%w %q", ErrFrameFormat, line)
	}
	your, err := strconv.ParseUint(part[1], 16, 8)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrFrameChecksum, line)
	}
	if mine := Checksum(body); mine != byte(your) {
		return nil, fmt.Errorf("%w %q (want %02X, got %02X)", ErrFrameMismatch, line, your, mine)
	}
	return strings.Split(body, fieldSeparator), nil
}
