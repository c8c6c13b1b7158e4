// Package protocol holds the decode/encode tables for every supported
// grid controller. Each device owns its own note and CC layouts; the
// bridge selects one at connection time and holds it for the cycle.
package protocol

import "padbridge/bridge"

// Palette maps colour-group ids to Novation MK3 palette entries,
// closely matching the sequencer's group colours.
var Palette = [16]byte{67, 35, 9, 47, 105, 63, 94, 126, 40, 81, 8, 45, 28, 95, 104, 44}

// Overlay colours shared by the MK3 family LED scheme.
const (
	startingColor byte = 123 // flashed while a sequence is starting
	stoppingColor byte = 120 // flashed while a sequence is stopping
)

// LED behaviour is selected by the note-on status nibble, not a
// musical channel: 0x90 solid, 0x91 flashing, 0x92 pulsing.
const (
	ledSolid byte = 0x90
	ledFlash byte = 0x91
	ledPulse byte = 0x92
)

// Control-bus action paths published by the decoders.
const (
	ActionToggleSequence   = "/cuia/TOGGLE_SEQUENCE"
	ActionBackUp           = "/cuia/BACK_UP"
	ActionBackDown         = "/cuia/BACK_DOWN"
	ActionSelectUp         = "/cuia/SELECT_UP"
	ActionSelectDown       = "/cuia/SELECT_DOWN"
	ActionSwitchSelect     = "/cuia/SWITCH_SELECT_SHORT"
	ActionSwitchBack       = "/cuia/SWITCH_BACK_SHORT"
	ActionToggleMidiPlay   = "/cuia/TOGGLE_MIDI_PLAY"
	ActionToggleMidiRec    = "/cuia/TOGGLE_MIDI_RECORD"
	ActionToggleAudioPlay  = "/cuia/TOGGLE_AUDIO_PLAY"
	ActionToggleAudioRec   = "/cuia/TOGGLE_AUDIO_RECORD"
)

// Registry returns the supported devices in detection order.
func Registry() []bridge.Device {
	return []bridge.Device{
		NewLaunchkey(),
		NewLaunchpadMini(),
	}
}

// encodePadStatus is the LED scheme shared by the MK3 family: solid
// base colour when stopped, flashing overlay while starting or
// stopping, pulsing while playing, off when disabled.
func encodePadStatus(pad byte, status bridge.Status, color byte) []bridge.Envelope {
	msg := func(behaviour, velocity byte) bridge.Envelope {
		env, _ := bridge.NewEnvelope([]byte{behaviour, pad, velocity})
		return env
	}
	switch status {
	case bridge.Stopped:
		return []bridge.Envelope{msg(ledSolid, color)}
	case bridge.Starting, bridge.Restarting:
		return []bridge.Envelope{msg(ledSolid, color), msg(ledFlash, startingColor)}
	case bridge.Playing:
		return []bridge.Envelope{msg(ledPulse, color)}
	case bridge.Stopping, bridge.StoppingSync:
		return []bridge.Envelope{msg(ledSolid, color), msg(ledFlash, stoppingColor)}
	case bridge.Disabled:
		return []bridge.Envelope{msg(ledSolid, 0)}
	}
	return nil
}
