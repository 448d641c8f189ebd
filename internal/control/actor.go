package control

import (
	"errors"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/benbjohnson/clock"
	"github.com/dumacp/go-gpsfeeder/internal/sender"
	"github.com/dumacp/go-logs/pkg/logs"
)

// DefaultTick is the base duration of one loop iteration.
const DefaultTick = 1 * time.Second

// MsgTick triggers one loop iteration.
type MsgTick struct{}

// MsgSubscribeSender sets the sender of the request as the report sink.
type MsgSubscribeSender struct{}

type msgFatal struct {
	err error
}

type actorcontrol struct {
	loop      *Loop
	clock     clock.Clock
	tick      time.Duration
	senderPID *actor.PID
	quit      chan int
}

// NewActor wraps the loop in an actor ticking every tick on clk.
func NewActor(loop *Loop, clk clock.Clock, tick time.Duration) actor.Actor {
	if clk == nil {
		clk = clock.New()
	}
	if tick <= 0 {
		tick = DefaultTick
	}
	return &actorcontrol{loop: loop, clock: clk, tick: tick}
}

func (a *actorcontrol) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("actor started \"%s\"", ctx.Self().Id)
		a.stopTick()
		a.quit = make(chan int)
		go a.ticker(ctx, a.quit)
	case *MsgSubscribeSender:
		if ctx.Sender() != nil {
			a.senderPID = ctx.Sender()
		}
	case *MsgTick:
		if err := a.step(ctx); err != nil {
			ctx.Send(ctx.Self(), &msgFatal{err: err})
		}
	case *msgFatal:
		panic(msg.err)
	case *actor.Stopping:
		logs.LogInfo.Printf("actor stopping \"%s\"", ctx.Self().Id)
		a.stopTick()
	}
}

func (a *actorcontrol) step(ctx actor.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logs.LogError.Println("Recovered in \"step()\",", r)
			switch x := r.(type) {
			case string:
				err = errors.New(x)
			case error:
				err = x
			default:
				err = errors.New("unknown panic")
			}
		}
	}()
	r := a.loop.step()
	if r == nil {
		return nil
	}
	if a.senderPID == nil {
		logs.LogWarn.Printf("report %d without sender", r.Counter)
		return nil
	}
	ctx.Send(a.senderPID, &sender.MsgReport{Report: r})
	return nil
}

func (a *actorcontrol) ticker(ctx actor.Context, quit <-chan int) {
	rootctx := ctx.ActorSystem().Root
	self := ctx.Self()
	t1 := a.clock.Ticker(a.tick)
	defer t1.Stop()
	for {
		select {
		case <-t1.C:
			rootctx.Send(self, &MsgTick{})
		case <-quit:
			return
		}
	}
}

func (a *actorcontrol) stopTick() {
	if a.quit != nil {
		select {
		case _, ok := <-a.quit:
			if ok {
				close(a.quit)
			}
		default:
			close(a.quit)
		}
		a.quit = nil
	}
}
