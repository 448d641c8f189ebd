package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/benbjohnson/clock"
	"github.com/dumacp/go-gpsfeeder/internal/config"
	"github.com/dumacp/go-gpsfeeder/internal/control"
	"github.com/dumacp/go-gpsfeeder/internal/location"
	"github.com/dumacp/go-gpsfeeder/internal/metrics"
	"github.com/dumacp/go-gpsfeeder/internal/nmea/device"
	"github.com/dumacp/go-gpsfeeder/internal/nmea/process"
	"github.com/dumacp/go-gpsfeeder/internal/pubsub"
	"github.com/dumacp/go-gpsfeeder/internal/sender"
	"github.com/dumacp/go-logs/pkg/logs"
	"go.uber.org/multierr"
)

var debug bool
var logstd bool
var logFile string
var mqtt bool
var configPath string

var baudRate int
var portNmea string
var account string
var url string
var retryMax int
var metricsAddr string

var version bool

const (
	versionString = "1.0.0"
)

func init() {
	flag.BoolVar(&debug, "debug", false, "debug")
	flag.BoolVar(&logstd, "logStd", false, "logs in stderr")
	flag.StringVar(&logFile, "logFile", "", "logs in a rotating file")
	flag.BoolVar(&version, "version", false, "show version")
	flag.BoolVar(&mqtt, "mqtt", false, "send messages to local broker.")
	flag.StringVar(&configPath, "config", "", "YAML configuration file")
	flag.IntVar(&baudRate, "baudRate", config.DefaultBaudRate, "baud rate to capture nmea's frames.")
	flag.StringVar(&portNmea, "portNmea", config.DefaultPortNmea, "device serial to read.")
	flag.StringVar(&account, "account", "", "account identifier sent in every report")
	flag.StringVar(&url, "url", "", "collector URL")
	flag.IntVar(&retryMax, "retryMax", sender.DefaultRetryMax, "max reports in the retry store, 0 unbounded")
	flag.StringVar(&metricsAddr, "metrics", "", "prometheus listen address, ex: \":9100\"")
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if len(configPath) > 0 {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "baudRate":
			cfg.BaudRate = baudRate
		case "portNmea":
			cfg.PortNmea = portNmea
		case "account":
			cfg.Account = account
		case "url":
			cfg.URL = url
		case "retryMax":
			cfg.RetryMax = retryMax
		case "metrics":
			cfg.Metrics = metricsAddr
		}
	})
	cfg.FromEnv()
	if err := cfg.ResolvePort(config.PathUdev); err != nil {
		logs.LogWarn.Printf("error: %s", err)
	}
	return cfg, cfg.Validate()
}

func main() {

	flag.Parse()
	if version {
		fmt.Printf("version: %s\n", versionString)
		os.Exit(2)
	}
	logCloser := initLogs(debug, logstd, logFile)

	cfg, err := loadConfig()
	if err != nil {
		logs.LogError.Fatalln(err)
	}
	logs.LogBuild.Printf("portNmea: %s", cfg.PortNmea)
	loc, err := cfg.Location()
	if err != nil {
		logs.LogError.Fatalln(err)
	}

	port, err := device.Open(cfg.PortNmea, cfg.BaudRate)
	if err != nil {
		logs.LogError.Fatalln(err)
	}

	rootContext := actor.NewActorSystem().Root

	if mqtt {
		if err := pubsub.Init(rootContext, cfg.Broker); err != nil {
			logs.LogWarn.Printf("local broker disabled: %s", err)
		}
	}
	var metricsSrv io.Closer
	if len(cfg.Metrics) > 0 {
		metricsSrv = metrics.Serve(cfg.Metrics)
	}

	state := location.NewState(loc)
	snd := sender.New(sender.Config{
		URL:           cfg.URL,
		Timeout:       cfg.Timeout,
		RetryInterval: cfg.RetryInterval,
		RetryMax:      cfg.RetryMax,
	})
	loop := control.NewLoop(state, cfg.Account, cfg.Table())

	props := actor.PropsFromFunc(func(c actor.Context) {
		switch msg := c.Message().(type) {
		case *actor.Started:
			propsSender := actor.PropsFromFunc(sender.NewActor(snd).Receive)
			propsProcess := actor.PropsFromFunc(process.NewActor(state).Receive)
			propsControl := actor.PropsFromFunc(control.NewActor(loop, clock.New(), cfg.Tick).Receive)

			pidSender, err := c.SpawnNamed(propsSender, "senderGPS")
			if err != nil {
				logs.LogError.Panic(err)
			}
			pidProcess, err := c.SpawnNamed(propsProcess, "processGPS")
			if err != nil {
				logs.LogError.Panic(err)
			}
			nmeaA := device.NewNmeaActor(port, cfg.PortNmea, cfg.BaudRate, device.Open, pidProcess)
			pidNmea, err := c.SpawnNamed(actor.PropsFromFunc(nmeaA.Receive), "nmeaGPS")
			if err != nil {
				logs.LogError.Panic(err)
			}
			pidControl, err := c.SpawnNamed(propsControl, "controlGPS")
			if err != nil {
				logs.LogError.Panic(err)
			}
			c.Watch(pidSender)
			c.Watch(pidProcess)
			c.Watch(pidNmea)
			c.Watch(pidControl)
			c.RequestWithCustomSender(pidControl, &control.MsgSubscribeSender{}, pidSender)
		case *actor.Terminated:
			logs.LogError.Printf("actor terminated: %s", msg.Who.GetId())
		}
	})

	pid, err := rootContext.SpawnNamed(props, "gpsfeeder")
	if err != nil {
		logs.LogError.Fatalln(err)
	}
	time.Sleep(100 * time.Millisecond)

	finish := make(chan os.Signal, 1)
	signal.Notify(finish, syscall.SIGINT)
	signal.Notify(finish, syscall.SIGTERM)

	v := <-finish
	logs.LogError.Println(v)

	if err := rootContext.PoisonFuture(pid).Wait(); err != nil {
		logs.LogWarn.Printf("shutdown: %s", err)
	}
	if err := shutdown(metricsSrv, logCloser); err != nil {
		logs.LogError.Println(err)
	}
}

func shutdown(closers ...io.Closer) error {
	var err error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if srv, ok := c.(interface {
			Shutdown(context.Context) error
		}); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err = multierr.Append(err, srv.Shutdown(ctx))
			cancel()
			continue
		}
		err = multierr.Append(err, c.Close())
	}
	return err
}
