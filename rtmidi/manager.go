// Package rtmidi is the fallback transport for hosts without JACK: a
// hot-plug scanner pairs the bridge with a supported controller over
// rtmidi ports, and a fixed-period ticker stands in for the realtime
// cycle. Latency is looser than the JACK transport but the bridge
// semantics are identical.
package rtmidi

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"padbridge/bridge"
	"padbridge/debug"
)

const (
	defaultPeriod   = 10 * time.Millisecond
	defaultPollRate = time.Second
	maxPendingIn    = 256
)

// Manager owns the rtmidi ports and the cycle/scan loops for one
// bridge instance.
type Manager struct {
	bridge   *bridge.Bridge
	drv      *rtmididrv.Driver
	period   time.Duration
	pollRate time.Duration

	mu      sync.Mutex
	pending []bridge.Event

	inPort   drivers.In
	outPort  drivers.Out
	stopIn   func()
	sendOut  func(gomidi.Message) error
	hostOut  drivers.Out
	sendHost func(gomidi.Message) error
}

// NewManager creates a manager around an open rtmidi driver.
func NewManager(b *bridge.Bridge, drv *rtmididrv.Driver) *Manager {
	return &Manager{
		bridge:   b,
		drv:      drv,
		period:   defaultPeriod,
		pollRate: defaultPollRate,
	}
}

// Run opens the virtual host output and drives the scan and cycle
// loops until ctx is cancelled. Blocking - run in a goroutine.
func (m *Manager) Run(ctx context.Context) error {
	hostOut, err := m.drv.OpenVirtualOut("padbridge out")
	if err != nil {
		return errors.Wrap(err, "opening virtual host output")
	}
	m.hostOut = hostOut
	sendHost, err := gomidi.SendTo(hostOut)
	if err != nil {
		return errors.Wrap(err, "opening host sender")
	}
	m.sendHost = sendHost

	scan := time.NewTicker(m.pollRate)
	defer scan.Stop()
	cycle := time.NewTicker(m.period)
	defer cycle.Stop()

	m.scan()
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return ctx.Err()
		case <-scan.C:
			m.scan()
		case <-cycle.C:
			m.runCycle()
		}
	}
}

// runCycle is one dispatch period: hand buffered input to the bridge
// and let it drain the send queue into the device port.
func (m *Manager) runCycle() {
	m.mu.Lock()
	events := m.pending
	m.pending = nil
	sendOut := m.sendOut
	m.mu.Unlock()

	m.bridge.Process(events,
		sendSink{m.sendHost},
		sendSink{sendOut})
}

// scan looks for supported controllers appearing or disappearing.
func (m *Manager) scan() {
	// Port enumeration can hang on some backends; keep it off the
	// cycle path and give it a deadline.
	type ports struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan ports, 1)
	go func() {
		ch <- ports{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()
	var seen ports
	select {
	case seen = <-ch:
	case <-time.After(3 * time.Second):
		return
	}

	m.scanInput(seen.ins)
	m.scanOutput(seen.outs)
}

func (m *Manager) scanInput(ins []drivers.In) {
	if m.inPort != nil {
		for _, in := range ins {
			if in.String() == m.inPort.String() {
				return // still present
			}
		}
		name := m.inPort.String()
		debug.Log("rtmidi", "input gone: %s", name)
		if m.stopIn != nil {
			m.stopIn()
		}
		m.inPort, m.stopIn = nil, nil
		m.bridge.PortChanged(bridge.DeviceInput, []string{name}, false)
		return
	}

	for i, in := range ins {
		if !m.bridge.MatchesSupported(in.String()) {
			continue
		}
		port := ins[i]
		stop, err := gomidi.ListenTo(port, m.onMessage)
		if err != nil {
			debug.Log("rtmidi", "open input %s: %v", port.String(), err)
			continue
		}
		m.inPort, m.stopIn = port, stop
		debug.Log("rtmidi", "input found: %s", port.String())
		m.bridge.PortChanged(bridge.DeviceInput, []string{port.String()}, true)
		return
	}
}

func (m *Manager) scanOutput(outs []drivers.Out) {
	if m.outPort != nil {
		for _, out := range outs {
			if out.String() == m.outPort.String() {
				return
			}
		}
		name := m.outPort.String()
		debug.Log("rtmidi", "output gone: %s", name)
		m.mu.Lock()
		m.outPort, m.sendOut = nil, nil
		m.mu.Unlock()
		m.bridge.PortChanged(bridge.DeviceOutput, []string{name}, false)
		return
	}

	for i, out := range outs {
		if !m.bridge.MatchesSupported(out.String()) {
			continue
		}
		port := outs[i]
		send, err := gomidi.SendTo(port)
		if err != nil {
			debug.Log("rtmidi", "open output %s: %v", port.String(), err)
			continue
		}
		m.mu.Lock()
		m.outPort, m.sendOut = port, send
		m.mu.Unlock()
		debug.Log("rtmidi", "output found: %s", port.String())
		m.bridge.PortChanged(bridge.DeviceOutput, []string{port.String()}, true)
		return
	}
}

// onMessage buffers controller input for the next cycle. Overflow
// drops the oldest event; the bound keeps a stalled cycle loop from
// growing the buffer without limit.
func (m *Manager) onMessage(msg gomidi.Message, timestampms int32) {
	data := make([]byte, len(msg))
	copy(data, msg)
	m.mu.Lock()
	if len(m.pending) >= maxPendingIn {
		m.pending = m.pending[1:]
	}
	m.pending = append(m.pending, bridge.Event{Time: uint32(timestampms), Data: data})
	m.mu.Unlock()
}

func (m *Manager) closeAll() {
	if m.stopIn != nil {
		m.stopIn()
	}
	m.mu.Lock()
	m.inPort, m.stopIn = nil, nil
	m.outPort, m.sendOut = nil, nil
	m.mu.Unlock()
}

// sendSink adapts a gomidi sender to the bridge's reservable sink. A
// missing port reports no capacity, which leaves device messages
// queued until the controller returns.
type sendSink struct {
	send func(gomidi.Message) error
}

func (s sendSink) Write(data []byte) bool {
	if s.send == nil {
		return false
	}
	return s.send(gomidi.Message(data)) == nil
}
