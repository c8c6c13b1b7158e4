// Package bus connects the bridge to the host sequencer's OSC control
// channel: user actions go out as /cuia/* messages, sequence and
// player status notifications come back in.
package bus

import (
	"fmt"
	"sync/atomic"

	"github.com/hypebeast/go-osc/osc"
	"github.com/pkg/errors"

	"padbridge/bridge"
	"padbridge/debug"
)

// Topics the bridge registers for with the host.
const (
	topicSequencerState = "/SEQUENCER/STATE"
	topicSMF            = "SMF"

	pathSequenceStatus = "/sequence/status"
	pathSMF            = "/smf"
	pathRegister       = "/cuia/register"
	pathUnregister     = "/cuia/unregister"
)

// Bus is the OSC client/server pair. Incoming handlers stay installed
// for the life of the process but only forward to the bridge while a
// protocol is active; registration messages tell the host when to
// start and stop sending.
type Bus struct {
	bridge *bridge.Bridge
	client *osc.Client
	server *osc.Server

	listenHost string
	listenPort int

	active atomic.Bool
}

// New builds a bus talking to the host at clientHost:clientPort and
// listening for notifications on listenPort.
func New(b *bridge.Bridge, clientHost string, clientPort, listenPort int) (*Bus, error) {
	bus := &Bus{
		bridge:     b,
		client:     osc.NewClient(clientHost, clientPort),
		listenHost: "localhost",
		listenPort: listenPort,
	}

	d := osc.NewStandardDispatcher()
	if err := d.AddMsgHandler(pathSequenceStatus, bus.onSequenceStatus); err != nil {
		return nil, errors.Wrap(err, "registering sequence status handler")
	}
	if err := d.AddMsgHandler(pathSMF, bus.onPlayerState); err != nil {
		return nil, errors.Wrap(err, "registering player state handler")
	}
	bus.server = &osc.Server{
		Addr:       fmt.Sprintf(":%d", listenPort),
		Dispatcher: d,
	}
	return bus, nil
}

// Serve runs the OSC server. Blocking; run in a goroutine.
func (bus *Bus) Serve() error {
	return bus.server.ListenAndServe()
}

// Publish implements bridge.Publisher. Integer arguments travel as
// OSC int32.
func (bus *Bus) Publish(path string, args ...any) {
	msg := osc.NewMessage(path)
	for _, arg := range args {
		switch v := arg.(type) {
		case int:
			msg.Append(int32(v))
		case int32:
			msg.Append(v)
		case string:
			msg.Append(v)
		default:
			debug.Log("bus", "dropping unsupported argument %T on %s", arg, path)
			return
		}
	}
	if err := bus.client.Send(msg); err != nil {
		debug.Log("bus", "send %s failed: %v", path, err)
	}
}

// Activated implements bridge.Notifier: start forwarding
// notifications and ask the host to send them.
func (bus *Bus) Activated(dev bridge.Device) {
	bus.active.Store(true)
	bus.Publish(pathRegister, bus.listenHost, bus.listenPort, topicSequencerState)
	bus.Publish(pathRegister, bus.listenHost, bus.listenPort, topicSMF)
	debug.Log("bus", "registered for %s", dev.Name())
}

// Deactivated implements bridge.Notifier: stop forwarding and
// unregister from the host.
func (bus *Bus) Deactivated(dev bridge.Device) {
	bus.active.Store(false)
	bus.Publish(pathUnregister, bus.listenHost, bus.listenPort, topicSequencerState)
	bus.Publish(pathUnregister, bus.listenHost, bus.listenPort, topicSMF)
	debug.Log("bus", "unregistered for %s", dev.Name())
}

// onSequenceStatus handles (bank, sequence, status, colourGroup).
func (bus *Bus) onSequenceStatus(msg *osc.Message) {
	if !bus.active.Load() || len(msg.Arguments) < 4 {
		return
	}
	vals := make([]int, 4)
	for i := 0; i < 4; i++ {
		v, ok := msg.Arguments[i].(int32)
		if !ok {
			return
		}
		vals[i] = int(v)
	}
	bus.bridge.HandleSequenceStatus(vals[0], vals[1], bridge.Status(vals[2]), vals[3])
}

// onPlayerState handles the play/record bitmask.
func (bus *Bus) onPlayerState(msg *osc.Message) {
	if !bus.active.Load() || len(msg.Arguments) != 1 {
		return
	}
	v, ok := msg.Arguments[0].(int32)
	if !ok {
		return
	}
	debug.Log("bus", "player state %d", v)
	bus.bridge.HandlePlayerState(byte(v))
}
