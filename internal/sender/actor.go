package sender

import (
	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-gpsfeeder/internal/pubsub"
	"github.com/dumacp/go-gpsfeeder/internal/report"
	"github.com/dumacp/go-logs/pkg/logs"
)

const topicReport = "GPS/report"

// MsgReport asks the sender actor to deliver one report.
type MsgReport struct {
	Report *report.Report
}

type actorsender struct {
	sender *Sender
	quit   chan int
}

// NewActor wraps s in an actor. Its mailbox is the report queue.
func NewActor(s *Sender) actor.Actor {
	return &actorsender{sender: s}
}

func (a *actorsender) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("actor started \"%s\"", ctx.Self().Id)
		a.stopRetry()
		a.quit = make(chan int)
		go a.sender.retryCycle(a.quit)
	case *MsgReport:
		if msg.Report == nil {
			break
		}
		content, err := report.Encode(msg.Report)
		if err != nil {
			logs.LogError.Printf("encode report %d: %s", msg.Report.Counter, err)
			break
		}
		pubsub.Publish(topicReport, content)
		a.sender.Send(content)
	case *actor.Stopping:
		logs.LogInfo.Printf("actor stopping \"%s\"", ctx.Self().Id)
		a.stopRetry()
	}
}

func (a *actorsender) stopRetry() {
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
