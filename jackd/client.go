// Package jackd runs the bridge inside a JACK client: three MIDI
// ports (from the controller, to the controller, to the host router)
// and a process callback driving one dispatch cycle per period.
package jackd

import (
	"github.com/pkg/errors"
	"github.com/xthexder/go-jack"

	"padbridge/bridge"
	"padbridge/debug"
)

// Client owns the JACK connection for one bridge instance.
type Client struct {
	bridge *bridge.Bridge
	jc     *jack.Client

	inDevice  *jack.Port // MIDI from the controller
	outDevice *jack.Port // MIDI to the controller (LED feedback)
	outHost   *jack.Port // translated MIDI to the host router

	events []bridge.Event // reused across cycles
}

// Open registers the client and its ports and activates it. The
// returned client keeps processing until Close.
func Open(name string, b *bridge.Bridge) (*Client, error) {
	jc, code := jack.ClientOpen(name, jack.NoStartServer)
	if jc == nil || code != 0 {
		return nil, errors.Errorf("jack: opening client %q (code %d)", name, code)
	}

	c := &Client{
		bridge: b,
		jc:     jc,
		events: make([]bridge.Event, 0, 64),
	}

	c.inDevice = jc.PortRegister("controller input", jack.DEFAULT_MIDI_TYPE, jack.PortIsInput, 0)
	c.outDevice = jc.PortRegister("controller output", jack.DEFAULT_MIDI_TYPE, jack.PortIsOutput, 0)
	c.outHost = jc.PortRegister("output", jack.DEFAULT_MIDI_TYPE, jack.PortIsOutput, 0)
	if c.inDevice == nil || c.outDevice == nil || c.outHost == nil {
		jc.Close()
		return nil, errors.New("jack: registering MIDI ports")
	}

	if code := jc.SetProcessCallback(c.process); code != 0 {
		jc.Close()
		return nil, errors.Errorf("jack: setting process callback (code %d)", code)
	}
	if code := jc.SetPortConnectCallback(c.onPortConnect); code != 0 {
		jc.Close()
		return nil, errors.Errorf("jack: setting port connect callback (code %d)", code)
	}

	if code := jc.Activate(); code != 0 {
		jc.Close()
		return nil, errors.Errorf("jack: activating client (code %d)", code)
	}
	return c, nil
}

// Close deactivates and closes the JACK client.
func (c *Client) Close() error {
	if c.jc == nil {
		return nil
	}
	if code := c.jc.Close(); code != 0 {
		return errors.Errorf("jack: closing client (code %d)", code)
	}
	c.jc = nil
	return nil
}

// process is the per-period realtime callback.
func (c *Client) process(nframes uint32) int {
	hostBuf := c.outHost.MidiClearBuffer(nframes)
	devBuf := c.outDevice.MidiClearBuffer(nframes)

	in := c.inDevice.GetMidiEvents(nframes)
	events := c.events[:0]
	for _, md := range in {
		events = append(events, bridge.Event{Time: md.Time, Data: md.Buffer})
	}
	c.events = events

	c.bridge.Process(events,
		midiSink{port: c.outHost, buf: hostBuf},
		midiSink{port: c.outDevice, buf: devBuf})
	return 0
}

// onPortConnect feeds connection-graph changes for our two
// device-facing ports into the detector. The remote port name carries
// the hardware alias the detector matches against.
func (c *Client) onPortConnect(a, b jack.PortId, connected bool) {
	src := c.jc.GetPortById(a)
	dst := c.jc.GetPortById(b)
	if src == nil || dst == nil {
		return
	}
	switch {
	case dst.GetName() == c.inDevice.GetName():
		debug.Log("jack", "input %s: %s", state(connected), src.GetName())
		c.bridge.PortChanged(bridge.DeviceInput, []string{src.GetName()}, connected)
	case src.GetName() == c.outDevice.GetName():
		debug.Log("jack", "output %s: %s", state(connected), dst.GetName())
		c.bridge.PortChanged(bridge.DeviceOutput, []string{dst.GetName()}, connected)
	}
}

func state(connected bool) string {
	if connected {
		return "connected"
	}
	return "disconnected"
}

// midiSink adapts a JACK MIDI buffer to the bridge's reservable sink.
type midiSink struct {
	port *jack.Port
	buf  jack.MidiBuffer
}

// Write emits data at offset 0 of the current period. A non-zero code
// means the buffer is out of space; the caller treats that as
// flow control, not an error.
func (s midiSink) Write(data []byte) bool {
	return s.port.MidiEventWrite(&jack.MidiData{Time: 0, Buffer: data}, s.buf) == 0
}
