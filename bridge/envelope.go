package bridge

// Envelope is a single outbound MIDI message bound for the controller.
// It is immutable once constructed and consumed exactly once by the
// dispatch cycle.
type Envelope []byte

// NewEnvelope copies data into a fresh envelope. It returns ok=false
// for anything that is not a plausible MIDI message: empty data, or a
// first byte without the status high bit set. Invalid messages are
// dropped silently, never queued.
func NewEnvelope(data []byte) (Envelope, bool) {
	if len(data) < 1 || data[0] < 0x80 {
		return nil, false
	}
	env := make(Envelope, len(data))
	copy(env, data)
	return env, true
}
