package bridge

import (
	"strings"
	"sync"
	"sync/atomic"

	"padbridge/debug"
)

// PortRole identifies which of the translator's two device-facing
// ports a topology notification concerns.
type PortRole int

const (
	DeviceInput PortRole = iota
	DeviceOutput
)

// Unset marks a connection field with no matched protocol.
const Unset = -1

// Connection is the controller link state. Active is set only while
// input and output are connected to the same supported protocol; a
// half connection counts as disconnected.
type Connection struct {
	Input  int
	Output int
	Active int
}

// Bridge owns one translator instance: the supported-device registry,
// connection state, send queue, pad grid and modifier state. All of
// the original's shared globals live here so independent instances
// can coexist.
type Bridge struct {
	devices []Device
	queue   *Queue
	pads    *PadGrid
	mod     Modifier

	conn     atomic.Pointer[Connection]
	midiChan atomic.Uint32

	mu       sync.Mutex // serialises topology updates
	pub      Publisher
	notifier Notifier
}

// New creates a bridge for the given protocol registry, colouring
// pads from palette.
func New(devices []Device, palette [16]byte) *Bridge {
	b := &Bridge{
		devices: devices,
		queue:   NewQueue(),
		pads:    NewPadGrid(palette),
	}
	b.conn.Store(&Connection{Input: Unset, Output: Unset, Active: Unset})
	return b
}

// SetPublisher wires the outgoing control bus. Must be called before
// any traffic flows.
func (b *Bridge) SetPublisher(pub Publisher) { b.pub = pub }

// SetNotifier wires the activation observer (bus subscription glue).
func (b *Bridge) SetNotifier(n Notifier) { b.notifier = n }

// Queue exposes the send queue for transports and the monitor.
func (b *Bridge) Queue() *Queue { return b.queue }

// Pads exposes the pad grid for the monitor.
func (b *Bridge) Pads() *PadGrid { return b.pads }

// Connection returns the current link state snapshot.
func (b *Bridge) Connection() Connection { return *b.conn.Load() }

// Active returns the active device, or nil while disconnected.
func (b *Bridge) Active() Device {
	if i := b.conn.Load().Active; i != Unset {
		return b.devices[i]
	}
	return nil
}

// Supported lists the alias tokens of every supported controller.
func (b *Bridge) Supported() []string {
	names := make([]string, len(b.devices))
	for i, dev := range b.devices {
		names[i] = dev.Name()
	}
	return names
}

// SetMidiChannel sets the channel used for forwarded host CC
// messages. Values outside 0..15 are ignored.
func (b *Bridge) SetMidiChannel(channel int) {
	if channel < 0 || channel > 15 {
		return
	}
	b.midiChan.Store(uint32(channel))
}

// MidiChannel implements Ops.
func (b *Bridge) MidiChannel() uint8 { return uint8(b.midiChan.Load()) }

// Modifier implements Ops.
func (b *Bridge) Modifier() *Modifier { return &b.mod }

// SendDevice implements Ops: validate and queue one outbound message.
func (b *Bridge) SendDevice(data ...byte) {
	env, ok := NewEnvelope(data)
	if !ok {
		return
	}
	b.queue.Enqueue(env)
}

// Publish implements Ops.
func (b *Bridge) Publish(path string, args ...any) {
	if b.pub != nil {
		b.pub.Publish(path, args...)
	}
}

// ResyncPads implements Ops: redraw the whole surface of the active
// controller from last-known state. Used once per (re)connection.
func (b *Bridge) ResyncPads() {
	dev := b.Active()
	if dev == nil {
		return
	}
	b.pads.Each(dev.SessionPads(), func(seq int, pad Pad) {
		for _, env := range dev.EncodePadStatus(seq, pad.Status, pad.Color) {
			b.queue.Enqueue(env)
		}
	})
}

// matchProtocol finds the registry index whose alias token appears in
// any of the remote port aliases. Port names may carry the token with
// spaces where the alias uses dashes, so both spellings match.
func (b *Bridge) matchProtocol(aliases []string) int {
	for i, dev := range b.devices {
		token := dev.Name()
		spaced := strings.ReplaceAll(token, "-", " ")
		for _, alias := range aliases {
			if strings.Contains(alias, token) || strings.Contains(alias, spaced) {
				return i
			}
		}
	}
	return Unset
}

// MatchesSupported reports whether alias names any supported
// controller. Transports use it to decide which ports to watch.
func (b *Bridge) MatchesSupported(alias string) bool {
	return b.matchProtocol([]string{alias}) != Unset
}

// PortChanged feeds one transport topology notification into the
// connection detector. Notifications whose remote aliases match no
// supported token leave the state untouched.
func (b *Bridge) PortChanged(role PortRole, aliases []string, connected bool) {
	match := b.matchProtocol(aliases)
	if match == Unset {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	next := *b.conn.Load()
	val := match
	if !connected {
		val = Unset
	}
	switch role {
	case DeviceInput:
		next.Input = val
	case DeviceOutput:
		next.Output = val
	}
	if next.Input != Unset && next.Input == next.Output {
		next.Active = next.Input
	} else {
		next.Active = Unset
	}

	prev := b.conn.Load().Active
	b.conn.Store(&next)
	if next.Active == prev {
		return
	}

	if prev != Unset {
		dev := b.devices[prev]
		debug.Log("conn", "deactivating %s", dev.Name())
		dev.Disable(b)
		if b.notifier != nil {
			b.notifier.Deactivated(dev)
		}
	}
	if next.Active != Unset {
		dev := b.devices[next.Active]
		debug.Log("conn", "activating %s", dev.Name())
		if b.notifier != nil {
			b.notifier.Activated(dev)
		}
		dev.Enable(b)
	}
}

// HandleSequenceStatus applies one sequence-status notification from
// the control bus: remember the colour group and status, then queue
// the LED update for the active controller. The bank argument is
// accepted for wire compatibility and ignored.
func (b *Bridge) HandleSequenceStatus(bank, seq int, status Status, group int) {
	if seq < 0 || seq >= GridSize {
		return
	}
	b.pads.SetColorGroup(seq, group)
	b.pads.SetStatus(seq, status)
	dev := b.Active()
	if dev == nil {
		return
	}
	for _, env := range dev.EncodePadStatus(seq, status, b.pads.Pad(seq).Color) {
		b.queue.Enqueue(env)
	}
}

// HandlePlayerState applies a player-status bitmask notification
// (b0 MIDI play, b1 MIDI record, b2/b3 audio). Only the MIDI bits
// drive LEDs; audio bits are masked off.
func (b *Bridge) HandlePlayerState(state byte) {
	dev := b.Active()
	if dev == nil {
		return
	}
	for _, env := range dev.EncodePlayerState(state & 0x03) {
		b.queue.Enqueue(env)
	}
}

// Process runs one dispatch cycle: decode every input event in
// arrival order through the active protocol, then drain the send
// queue into the device output until it runs out of room. Must stay
// bounded and non-blocking; it executes on the transport's realtime
// thread.
func (b *Bridge) Process(events []Event, hostOut, deviceOut Sink) {
	if i := b.conn.Load().Active; i != Unset {
		dev := b.devices[i]
		for k := range events {
			dev.Decode(events[k].Data, hostOut, b)
		}
	}
	b.queue.Drain(func(env Envelope) bool {
		return deviceOut.Write(env)
	})
}
