package process

import (
	"fmt"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-gpsfeeder/internal/location"
	"github.com/dumacp/go-gpsfeeder/internal/pubsub"
	"github.com/dumacp/go-logs/pkg/logs"
)

const timeoutBadFrames = 10 * time.Minute

// MsgLine carries one raw line read from the receiver.
type MsgLine struct {
	Data string
}

// MsgTick closes a bad frames window.
type MsgTick struct{}

type actorprocess struct {
	proc   *processor
	window time.Duration
	quit   chan int
}

// NewActor creates the only writer of state.
func NewActor(state *location.State) actor.Actor {
	return &actorprocess{
		proc:   &processor{state: state},
		window: timeoutBadFrames,
	}
}

func (a *actorprocess) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("actor started \"%s\"", ctx.Self().Id)
		a.stopTick()
		a.quit = make(chan int)
		go tick(ctx, a.window, a.quit)
	case *MsgLine:
		if err := a.proc.process(msg.Data); err != nil {
			logs.LogBuild.Println(err)
			if a.proc.invalid%5 == 0 {
				logs.LogWarn.Println(err)
			}
		}
	case *MsgTick:
		rateBad := a.proc.rate(a.window.Minutes())
		badgps := fmt.Sprintf("{\"timeStamp\": %d, \"value\": %.2f, \"type\": %q}", time.Now().Unix(), rateBad, "GPSERROR")
		logs.LogBuild.Printf("last bad GPS frame -> %q", a.proc.lastBad)
		logs.LogBuild.Printf("rate bad GPS -> %.2f", rateBad)
		pubsub.Publish(pubsub.TopicBadFrames, []byte(badgps))
	case *actor.Stopping:
		logs.LogInfo.Printf("actor stopping \"%s\"", ctx.Self().Id)
		a.stopTick()
	}
}

func (a *actorprocess) stopTick() {
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

func tick(ctx actor.Context, timeout time.Duration, quit <-chan int) {
	rootctx := ctx.ActorSystem().Root
	self := ctx.Self()
	t1 := time.NewTicker(timeout)
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
