package device

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tarm/serial"
)

const portReadTimeout = 3 * time.Second

// Opener opens the receiver port.
type Opener func(name string, baud int) (io.ReadCloser, error)

// Open opens the serial port of the receiver.
func Open(name string, baud int) (io.ReadCloser, error) {
	config := &serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: portReadTimeout,
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("nmea serial open %s: %w", name, err)
	}
	return port, nil
}

// listen returns the next line without its terminator. An empty string
// with a nil error is a blank line.
func listen(reader *bufio.Reader) (string, error) {
	v, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}
