package protocol

import (
	"padbridge/bridge"

	"gitlab.com/gomidi/midi/v2"
)

// Novation Launchpad Mini MK3 layout.
const (
	lpToken = "Launchpad-Mini-MK3-MIDI-2"

	// Top-row control buttons.
	lpUpCC      byte = 91
	lpDownCC    byte = 92
	lpLeftCC    byte = 93
	lpRightCC   byte = 94
	lpSessionCC byte = 95
	lpDrumsCC   byte = 96
	lpKeysCC    byte = 97
	lpUserCC    byte = 98
)

// Surface layouts selectable over SysEx.
const (
	LayoutSession    = 0x00
	LayoutDrums      = 0x04
	LayoutKeys       = 0x05
	LayoutUser       = 0x06
	layoutProgrammer = 0x7F
)

// lpSessionPads maps sequence index to grid note, row by row from the
// top left. The device numbers pads in decades: row 1 is 81..88 down
// to row 8 at 11..18.
var lpSessionPads = [64]byte{
	81, 82, 83, 84, 85, 86, 87, 88,
	71, 72, 73, 74, 75, 76, 77, 78,
	61, 62, 63, 64, 65, 66, 67, 68,
	51, 52, 53, 54, 55, 56, 57, 58,
	41, 42, 43, 44, 45, 46, 47, 48,
	31, 32, 33, 34, 35, 36, 37, 38,
	21, 22, 23, 24, 25, 26, 27, 28,
	11, 12, 13, 14, 15, 16, 17, 18,
}

// LaunchpadMini is the Launchpad Mini MK3 protocol table. It has no
// shift button and no knobs; the whole 8x8 grid is session pads.
type LaunchpadMini struct{}

func NewLaunchpadMini() *LaunchpadMini { return &LaunchpadMini{} }

func (d *LaunchpadMini) Name() string     { return lpToken }
func (d *LaunchpadMini) SessionPads() int { return len(lpSessionPads) }

func (d *LaunchpadMini) Decode(data []byte, host bridge.Sink, ops bridge.Ops) {
	if len(data) != 3 {
		return
	}
	msg := midi.Message(data)
	var ch, key, vel uint8
	var cc, val uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		if vel == 0 {
			return // release
		}
		if seq, ok := lpSessionIndex(key); ok {
			ops.Publish(ActionToggleSequence, seq)
		}
	case msg.GetControlChange(&ch, &cc, &val):
		if val == 0 {
			return
		}
		switch cc {
		case lpUpCC:
			ops.Publish(ActionSelectUp)
		case lpDownCC:
			ops.Publish(ActionSelectDown)
		case lpLeftCC:
			ops.Publish(ActionSwitchBack)
		case lpRightCC:
			ops.Publish(ActionSwitchSelect)
		case lpSessionCC:
			d.SelectMode(LayoutSession, ops)
		case lpDrumsCC:
			d.SelectMode(LayoutDrums, ops)
		case lpKeysCC:
			d.SelectMode(LayoutKeys, ops)
		case lpUserCC:
			d.SelectMode(LayoutUser, ops)
		}
	}
}

func (d *LaunchpadMini) EncodePadStatus(seq int, status bridge.Status, color byte) []bridge.Envelope {
	if seq < 0 || seq >= len(lpSessionPads) {
		return nil
	}
	return encodePadStatus(lpSessionPads[seq], status, color)
}

// EncodePlayerState is a no-op: the Mini has no transport buttons.
func (d *LaunchpadMini) EncodePlayerState(state byte) []bridge.Envelope {
	return nil
}

// SelectMode switches the surface layout over SysEx.
func (d *LaunchpadMini) SelectMode(mode int, ops bridge.Ops) {
	if mode < 0 || mode > 127 {
		return
	}
	ops.SendDevice(lpLayoutSysEx(byte(mode))...)
}

// SelectBank is unsupported: the Mini has no CC knobs.
func (d *LaunchpadMini) SelectBank(bank int, ops bridge.Ops) bool {
	return false
}

// Enable selects the programmer layout, which exposes the raw grid
// notes this table is written against, then redraws the surface.
func (d *LaunchpadMini) Enable(ops bridge.Ops) {
	ops.SendDevice(lpLayoutSysEx(layoutProgrammer)...)
	ops.ResyncPads()
}

// Disable hands the surface back to the standalone keys layout.
func (d *LaunchpadMini) Disable(ops bridge.Ops) {
	ops.SendDevice(lpLayoutSysEx(LayoutKeys)...)
}

func lpLayoutSysEx(layout byte) []byte {
	return []byte{0xF0, 0x00, 0x20, 0x29, 0x02, 0x0D, 0x00, layout, 0xF7}
}

// lpSessionIndex maps a grid note to its sequence index.
func lpSessionIndex(note byte) (int, bool) {
	row := 8 - int(note)/10
	col := int(note)%10 - 1
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return 0, false
	}
	return row*8 + col, true
}
