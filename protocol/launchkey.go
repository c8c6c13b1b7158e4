package protocol

import (
	"padbridge/bridge"
	"padbridge/debug"

	"gitlab.com/gomidi/midi/v2"
)

// Novation Launchkey Mini MK3 layout.
const (
	lkToken = "Launchkey-Mini-MK3-MIDI-2"

	lkDrumFirst   byte = 36
	lkDrumLast    byte = 51
	lkDrumColor   byte = 79 // idle drum pad colour
	lkDrumOnColor byte = 90 // while pressed

	lkKnobFirst byte = 21
	lkKnobLast  byte = 28

	lkBankCC   byte = 9
	lkShiftCC  byte = 108
	lkRightCC  byte = 102
	lkLeftCC   byte = 103
	lkUpCC     byte = 104
	lkDownCC   byte = 105
	lkPlayCC   byte = 115
	lkRecordCC byte = 117

	// Holding shift moves the knobs onto a second CC range.
	lkShiftKnobOffset = 40

	// Note 12 on channel 16 toggles session mode.
	lkSessionNote byte = 12

	lkDefaultBank = 1
)

// Session launch buttons, two rows of eight.
var lkSessionPads = [16]byte{
	96, 97, 98, 99, 100, 101, 102, 103,
	112, 113, 114, 115, 116, 117, 118, 119,
}

// Launchkey is the Launchkey Mini MK3 protocol table.
type Launchkey struct{}

func NewLaunchkey() *Launchkey { return &Launchkey{} }

func (d *Launchkey) Name() string     { return lkToken }
func (d *Launchkey) SessionPads() int { return len(lkSessionPads) }

func (d *Launchkey) Decode(data []byte, host bridge.Sink, ops bridge.Ops) {
	if len(data) != 3 {
		return
	}
	msg := midi.Message(data)
	var ch, key, vel uint8
	var cc, val uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		if key >= lkDrumFirst && key <= lkDrumLast {
			// Drum pads pass through to the host on the drum channel,
			// with pressed-colour feedback to the device.
			ops.SendDevice(0x99, key, lkDrumOnColor)
			host.Write([]byte{0x99, key, vel})
		} else if seq, ok := lkSessionIndex(key); ok {
			ops.Publish(ActionToggleSequence, seq)
		}
	case msg.GetNoteOff(&ch, &key, &vel):
		if key >= lkDrumFirst && key <= lkDrumLast {
			ops.SendDevice(0x99, key, lkDrumColor)
			host.Write([]byte{0x89, key, vel})
		}
	case msg.GetControlChange(&ch, &cc, &val):
		d.decodeCC(cc, val, host, ops)
	}
}

func (d *Launchkey) decodeCC(cc, val uint8, host bridge.Sink, ops bridge.Ops) {
	mod := ops.Modifier()
	switch {
	case cc == lkBankCC:
		d.SelectBank(int(val), ops)
	case cc == lkShiftCC:
		mod.Shift = val > 0
		debug.Log("launchkey", "shift %v", mod.Shift)
	case cc >= lkKnobFirst && cc <= lkKnobLast:
		remapped := int(cc) + mod.CCBankOffset
		if mod.Shift {
			remapped += lkShiftKnobOffset
		}
		if remapped >= 0 && remapped <= 127 {
			host.Write([]byte{0xB0 | ops.MidiChannel(), byte(remapped), val})
		}
	case mod.Shift:
		if val == 0 {
			return
		}
		switch cc {
		case lkUpCC:
			ops.Publish(ActionBackUp)
		case lkDownCC:
			ops.Publish(ActionBackDown)
		case lkLeftCC:
			ops.Publish(ActionSelectUp)
		case lkRightCC:
			ops.Publish(ActionSelectDown)
		case lkPlayCC:
			ops.Publish(ActionToggleAudioPlay)
		case lkRecordCC:
			ops.Publish(ActionToggleAudioRec)
		}
	default:
		if val == 0 {
			return
		}
		switch cc {
		case lkUpCC:
			ops.Publish(ActionSwitchSelect)
		case lkDownCC:
			ops.Publish(ActionSwitchBack)
		case lkPlayCC:
			ops.Publish(ActionToggleMidiPlay)
		case lkRecordCC:
			ops.Publish(ActionToggleMidiRec)
		}
	}
}

func (d *Launchkey) EncodePadStatus(seq int, status bridge.Status, color byte) []bridge.Envelope {
	if seq < 0 || seq >= len(lkSessionPads) {
		return nil
	}
	return encodePadStatus(lkSessionPads[seq], status, color)
}

// EncodePlayerState lights the play/record buttons for the documented
// bitmask states: solid off, flashing play, solid record, pulsing
// both.
func (d *Launchkey) EncodePlayerState(state byte) []bridge.Envelope {
	led := func(behaviour, cc, value byte) bridge.Envelope {
		env, _ := bridge.NewEnvelope([]byte{behaviour, cc, value})
		return env
	}
	switch state {
	case 0:
		return []bridge.Envelope{led(0xB0, lkPlayCC, 0), led(0xB0, lkRecordCC, 0)}
	case 1:
		return []bridge.Envelope{led(0xB1, lkPlayCC, 127), led(0xB1, lkRecordCC, 0)}
	case 2:
		return []bridge.Envelope{led(0xB0, lkPlayCC, 0), led(0xB0, lkRecordCC, 127)}
	case 3:
		return []bridge.Envelope{led(0xB2, lkPlayCC, 127), led(0xB2, lkRecordCC, 127)}
	}
	return nil
}

// SelectMode switches the pad surface between its layouts (drum,
// session, custom) via the channel-16 mode controller.
func (d *Launchkey) SelectMode(mode int, ops bridge.Ops) {
	if mode < 0 || mode > 127 {
		return
	}
	ops.SendDevice(0xBF, 3, byte(mode))
}

// SelectBank selects the knob CC bank (0..6), updating the decode
// offset and confirming the bank back to the device with a single
// message. Out-of-range banks are rejected and leave the offset
// untouched.
func (d *Launchkey) SelectBank(bank int, ops bridge.Ops) bool {
	if bank < 0 || bank > 6 {
		return false
	}
	ops.Modifier().CCBankOffset = 8 * (bank - 1)
	ops.SendDevice(0xBF, lkBankCC, byte(bank))
	debug.Log("launchkey", "knob bank %d (CC %d-%d)", bank,
		int(lkKnobFirst)+8*(bank-1), int(lkKnobLast)+8*(bank-1))
	return true
}

// Enable puts the device in session mode, paints the drum pads idle,
// redraws every session pad and selects the default knob bank.
func (d *Launchkey) Enable(ops bridge.Ops) {
	ops.SendDevice(0x9F, lkSessionNote, 127)
	for note := lkDrumFirst; note <= lkDrumLast; note++ {
		ops.SendDevice(0x99, note, lkDrumColor)
	}
	ops.ResyncPads()
	d.SelectBank(lkDefaultBank, ops)
}

// Disable leaves session mode.
func (d *Launchkey) Disable(ops bridge.Ops) {
	ops.SendDevice(0x9F, lkSessionNote, 0)
}

// lkSessionIndex maps a session-button note to its sequence index.
func lkSessionIndex(note byte) (int, bool) {
	switch {
	case note >= 96 && note <= 103:
		return int(note) - 96, true
	case note >= 112 && note <= 119:
		return int(note) - 104, true
	}
	return 0, false
}
