package control

import (
	"fmt"
	"time"

	"github.com/dumacp/go-gpsfeeder/internal/metrics"
	"github.com/dumacp/go-gpsfeeder/internal/pubsub"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/looplab/fsm"
)

const (
	sNoFix  = "sNoFix"
	sHasFix = "sHasFix"
)

const (
	fixEvent  = "fixEvent"
	lostEvent = "lostEvent"
)

func enterState(state string) string {
	return fmt.Sprintf("enter_%s", state)
}

func gpsEvent(value string) []byte {
	return []byte(fmt.Sprintf("{\"timeStamp\": %d, \"value\": %q, \"type\": %q}",
		time.Now().Unix(), value, "GPS"))
}

func (l *Loop) initFSM() {
	l.fsm = fsm.NewFSM(
		sNoFix,
		fsm.Events{
			{Name: fixEvent, Src: []string{sNoFix}, Dst: sHasFix},
			{Name: lostEvent, Src: []string{sHasFix}, Dst: sNoFix},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				logs.LogBuild.Printf("FSM GPS state Src: %v, state Dst: %v", e.Src, e.Dst)
			},
			enterState(sHasFix): func(e *fsm.Event) {
				logs.LogInfo.Println("GPS fix")
				metrics.SetFix(true)
				pubsub.Publish(pubsub.TopicEvents, gpsEvent("fix"))
			},
			enterState(sNoFix): func(e *fsm.Event) {
				l.setInterval(DefaultInterval)
				logs.LogWarn.Println("GPS lost")
				metrics.SetFix(false)
				pubsub.Publish(pubsub.TopicEvents, gpsEvent("lost"))
				l.losses++
			},
		},
	)
}
