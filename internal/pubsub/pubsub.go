package pubsub

import (
	"fmt"
	"sync"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	clientID       = "gpsfeeder"
	DefaultBroker  = "tcp://127.0.0.1:1883"
	TopicEvents    = "EVENTS/gps"
	TopicBadFrames = "EVENTS/badgps"
)

// mirror of the collector traffic on the local broker
type pubsubActor struct {
	ctx    actor.Context
	broker string
	client mqtt.Client
}

var (
	instance *pubsubActor
	pid      *actor.PID
	rootctx  *actor.RootContext
	mux      sync.Mutex
)

type publishMSG struct {
	topic string
	msg   []byte
}
type ping struct{}
type pong struct{}

// Init connects to the local broker. Until Init succeeds Publish is a noop.
func Init(ctx *actor.RootContext, broker string) error {
	mux.Lock()
	defer mux.Unlock()
	if instance != nil {
		return nil
	}
	if len(broker) <= 0 {
		broker = DefaultBroker
	}
	act := &pubsubActor{broker: broker}
	props := actor.PropsFromFunc(act.Receive)
	p, err := ctx.SpawnNamed(props, "pubsub-actor")
	if err != nil {
		return err
	}
	if _, err := ctx.RequestFuture(p, &ping{}, 15*time.Second).Result(); err != nil {
		ctx.Stop(p)
		return fmt.Errorf("pubsub init: %w", err)
	}
	instance = act
	pid = p
	rootctx = ctx
	return nil
}

// Publish function to publish messages in pubsub gateway
func Publish(topic string, msg []byte) {
	mux.Lock()
	defer mux.Unlock()
	if instance == nil {
		return
	}
	rootctx.Send(pid, &publishMSG{topic: topic, msg: msg})
}

// Receive function
func (ps *pubsubActor) Receive(ctx actor.Context) {
	ps.ctx = ctx
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("Starting, actor, pid: %v\n", ctx.Self())
		ps.client = client(ps.broker)
		if err := connect(ps.client); err != nil {
			logs.LogError.Printf("pubsub connect %s: %s", ps.broker, err)
		}
	case *ping:
		if ctx.Sender() != nil {
			ctx.Respond(&pong{})
		}
	case *publishMSG:
		tk := ps.client.Publish(msg.topic, 0, false, msg.msg)
		if !tk.WaitTimeout(3 * time.Second) {
			logs.LogError.Printf("timeout error with message -> %s", msg.topic)
		} else if tk.Error() != nil {
			logs.LogError.Printf("end error: %s, with messages -> %s", tk.Error(), msg.topic)
		}
	case *actor.Stopping:
		if ps.client != nil {
			ps.client.Disconnect(600)
		}
		logs.LogError.Println("Stopping, actor is about to shut down")
	}
}

func client(broker string) mqtt.Client {
	opt := mqtt.NewClientOptions().AddBroker(broker)
	opt.SetAutoReconnect(true)
	opt.SetClientID(fmt.Sprintf("%s-%d", clientID, time.Now().Unix()))
	opt.SetKeepAlive(30 * time.Second)
	opt.SetConnectRetry(true)
	opt.SetConnectRetryInterval(10 * time.Second)
	return mqtt.NewClient(opt)
}

func connect(c mqtt.Client) error {
	tk := c.Connect()
	if !tk.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("connect wait error")
	}
	if err := tk.Error(); err != nil {
		return err
	}
	return nil
}
