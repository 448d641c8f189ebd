package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dumacp/go-gpsfeeder/internal/control"
	"github.com/dumacp/go-gpsfeeder/internal/sender"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPortNmea  = "/dev/ttyGPS"
	FallbackPortNmea = "/dev/ttyUSB1"
	DefaultBaudRate  = 9600
	PathUdev         = "/etc/udev/rules.d/local.rules"

	EnvAccount = "GPS_ACCOUNT"
	EnvURL     = "GPS_URL"
)

var (
	ErrAccount = errors.New("account is required")
	ErrURL     = errors.New("url is required")
)

type Config struct {
	PortNmea      string            `yaml:"port_nmea"`
	BaudRate      int               `yaml:"baud_rate"`
	Account       string            `yaml:"account"`
	URL           string            `yaml:"url"`
	Timeout       time.Duration     `yaml:"timeout"`
	RetryInterval time.Duration     `yaml:"retry_interval"`
	RetryMax      int               `yaml:"retry_max"`
	Tick          time.Duration     `yaml:"tick"`
	Timezone      string            `yaml:"timezone"`
	Cadence       []control.Cadence `yaml:"cadence"`
	Broker        string            `yaml:"broker"`
	Metrics       string            `yaml:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		PortNmea:      DefaultPortNmea,
		BaudRate:      DefaultBaudRate,
		Timeout:       sender.DefaultTimeout,
		RetryInterval: sender.DefaultRetryInterval,
		RetryMax:      sender.DefaultRetryMax,
		Tick:          control.DefaultTick,
		Timezone:      "Local",
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}

func (c *Config) defaults() {
	def := Default()
	if c.PortNmea == "" {
		c.PortNmea = def.PortNmea
	}
	if c.BaudRate <= 0 {
		c.BaudRate = def.BaudRate
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = def.RetryInterval
	}
	if c.RetryMax < 0 {
		c.RetryMax = 0
	}
	if c.Tick <= 0 {
		c.Tick = def.Tick
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
}

// FromEnv fills account and url still empty from GPS_ACCOUNT and GPS_URL.
func (c *Config) FromEnv() {
	if v := os.Getenv(EnvAccount); len(c.Account) <= 0 && len(v) > 0 {
		c.Account = v
	}
	if v := os.Getenv(EnvURL); len(c.URL) <= 0 && len(v) > 0 {
		c.URL = v
	}
}

func (c *Config) Validate() error {
	if len(c.Account) <= 0 {
		return ErrAccount
	}
	if len(c.URL) <= 0 {
		return ErrURL
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	for i, v := range c.Cadence {
		if v.Interval <= 0 {
			return fmt.Errorf("cadence[%d]: interval must be > 0", i)
		}
		if i > 0 && v.Max <= c.Cadence[i-1].Max {
			return fmt.Errorf("cadence[%d]: max must be ascending", i)
		}
	}
	return nil
}

// Location returns the time zone of the report timestamps.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Table returns the cadence table, the default one when none is configured.
func (c *Config) Table() control.Table {
	if len(c.Cadence) == 0 {
		return control.DefaultTable
	}
	return control.Table(c.Cadence)
}

// ResolvePort falls back to /dev/ttyUSB1 when the udev rules do not create
// the /dev/ttyGPS link.
func (c *Config) ResolvePort(pathudev string) error {
	if c.PortNmea != DefaultPortNmea {
		return nil
	}
	fileenv, err := os.Open(pathudev)
	if err != nil {
		return fmt.Errorf("reading file UDEV: %w", err)
	}
	defer fileenv.Close()
	scanner := bufio.NewScanner(fileenv)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), "ttyGPS") {
			return nil
		}
	}
	c.PortNmea = FallbackPortNmea
	return scanner.Err()
}
