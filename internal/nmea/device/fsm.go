package device

import (
	"bufio"
	"errors"
	"time"

	"github.com/dumacp/go-gpsfeeder/internal/metrics"
	"github.com/dumacp/go-gpsfeeder/internal/nmea/process"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/looplab/fsm"
)

const (
	sStart   = "sStart"
	sConnect = "sConnect"
	sRun     = "sRun"
	sClose   = "sClose"
)

const (
	startEvent     = "startEvent"
	connectOKEvent = "connectOKEvent"
	readFailEvent  = "readFailEvent"
)

const (
	maxFail  = 6
	maxEmpty = 120
)

var retryOpen = 3 * time.Second

func initFSM(initial string) *fsm.FSM {
	f := fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: startEvent, Src: []string{sStart, sClose}, Dst: sConnect},
			{Name: connectOKEvent, Src: []string{sConnect}, Dst: sRun},
			{Name: readFailEvent, Src: []string{sRun}, Dst: sClose},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				logs.LogBuild.Printf("FSM NMEA state Src: %v, state Dst: %v", e.Src, e.Dst)
			},
		},
	)
	return f
}

func (a *actornmea) startfsm(quit <-chan int) {
	funcRutine := func() (errx error) {
		defer func() {
			if r := recover(); r != nil {
				logs.LogError.Println("Recovered in \"startfsm()\", ", r)
				switch x := r.(type) {
				case string:
					errx = errors.New(x)
				case error:
					errx = x
				default:
					errx = errors.New("unknown panic")
				}
			}
		}()

		current := ""
		var reader *bufio.Reader
		if a.port != nil {
			reader = bufio.NewReader(a.port)
		}
		countFail := 0
		countEmpty := 0
		for {
			select {
			case <-quit:
				return nil
			default:
			}
			if current != a.fsm.Current() {
				logs.LogInfo.Printf("current state NMEA: %v", a.fsm.Current())
				current = a.fsm.Current()
			}
			switch a.fsm.Current() {
			case sStart:
				a.fsm.Event(startEvent)
			case sConnect:
				port, err := a.open(a.portNmea, a.baudRate)
				if err != nil {
					logs.LogError.Printf("nmea serial error open: %s", err)
					sleep(quit, retryOpen)
					break
				}
				select {
				case <-quit:
					port.Close()
					return nil
				default:
				}
				a.setPort(port)
				reader = bufio.NewReader(port)
				countFail = 0
				countEmpty = 0
				a.fsm.Event(connectOKEvent)
			case sRun:
				data, err := listen(reader)
				if err != nil {
					countFail++
					metrics.DeviceReadErrors.Inc()
					logs.LogBuild.Printf("nmea read error (%d): %s", countFail, err)
					if countFail > maxFail {
						logs.LogWarn.Printf("error listen port: %s", err)
						a.fsm.Event(readFailEvent)
					}
					break
				}
				if len(data) <= 0 {
					countEmpty++
					if countEmpty > maxEmpty {
						logs.LogWarn.Println("too many empty lines")
						a.fsm.Event(readFailEvent)
					}
					break
				}
				countEmpty = 0
				countFail = 0
				a.rootctx.Send(a.processPID, &process.MsgLine{Data: data})
			case sClose:
				if err := a.setPort(nil); err != nil {
					logs.LogWarn.Printf("nmea serial close: %s", err)
				}
				sleep(quit, retryOpen)
				a.fsm.Event(startEvent)
			}
		}
	}
	go func() {
		if err := funcRutine(); err != nil {
			a.rootctx.Send(a.self, &msgFatal{err: err})
		}
	}()
}

func sleep(quit <-chan int, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-quit:
	}
}
