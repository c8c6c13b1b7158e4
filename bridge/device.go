package bridge

// Event is one timestamped MIDI message delivered by the transport in
// a single processing period.
type Event struct {
	Time uint32
	Data []byte
}

// Sink is a reservable MIDI output for the current period. Write
// returns false when the underlying buffer has no room left; that is a
// flow-control signal, not an error.
type Sink interface {
	Write(data []byte) bool
}

// Publisher carries user actions out to the host control bus.
type Publisher interface {
	Publish(path string, args ...any)
}

// Notifier observes protocol activation changes, typically to
// subscribe and unsubscribe control-bus topics.
type Notifier interface {
	Activated(dev Device)
	Deactivated(dev Device)
}

// Ops is the slice of bridge functionality a protocol implementation
// may use while decoding input or running its enable sequence.
type Ops interface {
	// SendDevice queues an outbound message for the controller,
	// silently dropping malformed data.
	SendDevice(data ...byte)
	// Publish forwards a user action to the control bus.
	Publish(path string, args ...any)
	// Modifier exposes the transient input state (shift, CC bank).
	Modifier() *Modifier
	// MidiChannel is the channel forwarded host CC messages use.
	MidiChannel() uint8
	// ResyncPads redraws every session pad from its last-known state.
	ResyncPads()
}

// Device is one supported controller protocol: its alias token, pad
// layout, decode tables and LED encode rules. Implementations live in
// the protocol package and are selected by the connection detector.
type Device interface {
	// Name is the port alias token identifying this controller.
	Name() string
	// SessionPads is the number of physical session slots.
	SessionPads() int

	// Decode translates one inbound MIDI message into host MIDI
	// (written to host), control-bus actions, device LED feedback, or
	// modifier-state changes.
	Decode(data []byte, host Sink, ops Ops)

	// EncodePadStatus produces the LED message(s) showing status on
	// session pad seq with the given base colour. Returns nil for pad
	// indices the device does not have.
	EncodePadStatus(seq int, status Status, color byte) []Envelope

	// EncodePlayerState produces transport-indicator LED messages for
	// the player bitmask (b0 MIDI play, b1 MIDI record).
	EncodePlayerState(state byte) []Envelope

	// SelectMode emits the device-specific message switching between
	// alternate surface layouts.
	SelectMode(mode int, ops Ops)

	// SelectBank selects the active CC parameter bank (0..6),
	// reporting whether the device accepted it.
	SelectBank(bank int, ops Ops) bool

	// Enable runs the activation sequence: layout selection, idle
	// colours, full pad resync, default bank.
	Enable(ops Ops)

	// Disable runs the deactivation sequence (session mode off).
	Disable(ops Ops)
}
