package device

import (
	"io"
	"sync"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/looplab/fsm"
)

type msgFatal struct {
	err error
}

type actornmea struct {
	fsm        *fsm.FSM
	portNmea   string
	baudRate   int
	open       Opener
	mux        sync.Mutex
	port       io.ReadCloser
	processPID *actor.PID
	rootctx    *actor.RootContext
	self       *actor.PID
	chQuit     chan int
}

// NewNmeaActor reads lines from port and sends them to processPID. When
// the port fails it is closed and reopened with open. A nil port is opened
// on start.
func NewNmeaActor(port io.ReadCloser, portNmea string, baudRate int, open Opener, processPID *actor.PID) actor.Actor {
	if open == nil {
		open = Open
	}
	act := &actornmea{
		portNmea:   portNmea,
		baudRate:   baudRate,
		open:       open,
		port:       port,
		processPID: processPID,
	}
	if port != nil {
		act.fsm = initFSM(sRun)
	} else {
		act.fsm = initFSM(sStart)
	}
	return act
}

func (act *actornmea) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("actor started \"%s\"", ctx.Self().Id)
		act.rootctx = ctx.ActorSystem().Root
		act.self = ctx.Self()
		act.stop()
		act.chQuit = make(chan int)
		act.startfsm(act.chQuit)
	case *actor.Stopping:
		logs.LogInfo.Printf("actor stopping \"%s\"", ctx.Self().Id)
		act.stop()
		if err := act.setPort(nil); err != nil {
			logs.LogWarn.Printf("nmea serial close: %s", err)
		}
	case *msgFatal:
		logs.LogError.Printf("nmea read failed: %s", msg.err)
		panic(msg.err)
	}
}

// setPort replaces the current port and closes the previous one.
func (act *actornmea) setPort(port io.ReadCloser) error {
	act.mux.Lock()
	defer act.mux.Unlock()
	old := act.port
	act.port = port
	if old != nil && old != port {
		return old.Close()
	}
	return nil
}

func (act *actornmea) stop() {
	if act.chQuit != nil {
		select {
		case _, ok := <-act.chQuit:
			if ok {
				close(act.chQuit)
			}
		default:
			close(act.chQuit)
		}
		act.chQuit = nil
	}
}
