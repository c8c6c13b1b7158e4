package protocol

import (
	"bytes"
	"testing"

	"padbridge/bridge"
)

// fakeOps records everything a decoder asks the bridge to do.
type fakeOps struct {
	mod     bridge.Modifier
	channel uint8
	sent    [][]byte
	pubs    []struct {
		path string
		args []any
	}
	resyncs int
}

func (o *fakeOps) SendDevice(data ...byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	o.sent = append(o.sent, buf)
}

func (o *fakeOps) Publish(path string, args ...any) {
	o.pubs = append(o.pubs, struct {
		path string
		args []any
	}{path, args})
}

func (o *fakeOps) Modifier() *bridge.Modifier { return &o.mod }
func (o *fakeOps) MidiChannel() uint8         { return o.channel }
func (o *fakeOps) ResyncPads()                { o.resyncs++ }

func (o *fakeOps) paths() []string {
	out := make([]string, len(o.pubs))
	for i, p := range o.pubs {
		out[i] = p.path
	}
	return out
}

type hostRecorder struct {
	writes [][]byte
}

func (s *hostRecorder) Write(data []byte) bool {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.writes = append(s.writes, buf)
	return true
}

func press(dev bridge.Device, host bridge.Sink, ops bridge.Ops, data ...byte) {
	dev.Decode(data, host, ops)
}

func TestLaunchkeyShiftGatesNavigation(t *testing.T) {
	dev := NewLaunchkey()
	ops := &fakeOps{}
	host := &hostRecorder{}

	press(dev, host, ops, 0xB0, lkUpCC, 127)   // unshifted up
	press(dev, host, ops, 0xB0, lkUpCC, 0)     // release, no action
	press(dev, host, ops, 0xB0, lkShiftCC, 127)
	press(dev, host, ops, 0xB0, lkUpCC, 127)   // shifted up
	press(dev, host, ops, 0xB0, lkLeftCC, 127) // shifted left
	press(dev, host, ops, 0xB0, lkShiftCC, 0)
	press(dev, host, ops, 0xB0, lkUpCC, 127)   // unshifted again

	want := []string{
		ActionSwitchSelect,
		ActionBackUp,
		ActionSelectUp,
		ActionSwitchSelect,
	}
	got := ops.paths()
	if len(got) != len(want) {
		t.Fatalf("published %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("published %v, want %v", got, want)
		}
	}
	if len(host.writes) != 0 {
		t.Fatalf("navigation leaked MIDI to host: %v", host.writes)
	}
}

func TestLaunchkeyTransportButtons(t *testing.T) {
	dev := NewLaunchkey()
	ops := &fakeOps{}
	host := &hostRecorder{}

	press(dev, host, ops, 0xB0, lkPlayCC, 127)
	press(dev, host, ops, 0xB0, lkRecordCC, 127)
	press(dev, host, ops, 0xB0, lkShiftCC, 127)
	press(dev, host, ops, 0xB0, lkPlayCC, 127)
	press(dev, host, ops, 0xB0, lkRecordCC, 127)

	want := []string{
		ActionToggleMidiPlay,
		ActionToggleMidiRec,
		ActionToggleAudioPlay,
		ActionToggleAudioRec,
	}
	got := ops.paths()
	if len(got) != len(want) {
		t.Fatalf("published %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("published %v, want %v", got, want)
		}
	}
}

func TestLaunchkeyKnobRemap(t *testing.T) {
	dev := NewLaunchkey()
	ops := &fakeOps{channel: 2}
	host := &hostRecorder{}

	// Bank 1 keeps the native CC numbers.
	dev.SelectBank(1, ops)
	press(dev, host, ops, 0xB0, lkKnobFirst, 64)
	if len(host.writes) != 1 || !bytes.Equal(host.writes[0], []byte{0xB2, 21, 64}) {
		t.Fatalf("bank 1 knob = %v", host.writes)
	}

	// Bank 3 shifts the range up by 16.
	dev.SelectBank(3, ops)
	host.writes = nil
	press(dev, host, ops, 0xB0, lkKnobFirst, 10)
	press(dev, host, ops, 0xB0, lkKnobLast, 11)
	if len(host.writes) != 2 ||
		!bytes.Equal(host.writes[0], []byte{0xB2, 37, 10}) ||
		!bytes.Equal(host.writes[1], []byte{0xB2, 44, 11}) {
		t.Fatalf("bank 3 knobs = %v", host.writes)
	}

	// Shift moves the knobs onto the secondary range on top of the bank.
	host.writes = nil
	press(dev, host, ops, 0xB0, lkShiftCC, 127)
	press(dev, host, ops, 0xB0, lkKnobFirst, 12)
	if len(host.writes) != 1 || !bytes.Equal(host.writes[0], []byte{0xB2, 77, 12}) {
		t.Fatalf("shifted knob = %v", host.writes)
	}
}

func TestLaunchkeySelectBank(t *testing.T) {
	dev := NewLaunchkey()
	ops := &fakeOps{}

	for bank := 0; bank <= 6; bank++ {
		ops.sent = nil
		if !dev.SelectBank(bank, ops) {
			t.Fatalf("bank %d rejected", bank)
		}
		if ops.mod.CCBankOffset != 8*(bank-1) {
			t.Fatalf("bank %d offset = %d", bank, ops.mod.CCBankOffset)
		}
		if len(ops.sent) != 1 || !bytes.Equal(ops.sent[0], []byte{0xBF, lkBankCC, byte(bank)}) {
			t.Fatalf("bank %d confirmation = %v", bank, ops.sent)
		}
	}

	// Out of range: rejected, nothing sent, offset untouched.
	dev.SelectBank(6, ops)
	ops.sent = nil
	if dev.SelectBank(7, ops) || dev.SelectBank(-1, ops) {
		t.Fatal("out-of-range bank accepted")
	}
	if len(ops.sent) != 0 || ops.mod.CCBankOffset != 40 {
		t.Fatalf("rejected bank mutated state: sent=%v offset=%d", ops.sent, ops.mod.CCBankOffset)
	}

	// The device's own bank CC routes through the same validation.
	press(dev, &hostRecorder{}, ops, 0xB0, lkBankCC, 2)
	if ops.mod.CCBankOffset != 8 {
		t.Fatalf("bank CC offset = %d, want 8", ops.mod.CCBankOffset)
	}
}

func TestLaunchkeyDrumPassthrough(t *testing.T) {
	dev := NewLaunchkey()
	ops := &fakeOps{}
	host := &hostRecorder{}

	press(dev, host, ops, 0x99, 40, 100)
	press(dev, host, ops, 0x89, 40, 0)

	if len(host.writes) != 2 ||
		!bytes.Equal(host.writes[0], []byte{0x99, 40, 100}) ||
		!bytes.Equal(host.writes[1], []byte{0x89, 40, 0}) {
		t.Fatalf("host writes = %v", host.writes)
	}
	if len(ops.sent) != 2 ||
		!bytes.Equal(ops.sent[0], []byte{0x99, 40, lkDrumOnColor}) ||
		!bytes.Equal(ops.sent[1], []byte{0x99, 40, lkDrumColor}) {
		t.Fatalf("pad feedback = %v", ops.sent)
	}
	if len(ops.pubs) != 0 {
		t.Fatalf("drum pad published actions: %v", ops.paths())
	}
}

func TestLaunchkeySessionPads(t *testing.T) {
	dev := NewLaunchkey()
	ops := &fakeOps{}
	host := &hostRecorder{}

	cases := []struct {
		note byte
		seq  int
	}{
		{96, 0}, {103, 7}, {112, 8}, {119, 15},
	}
	for _, c := range cases {
		ops.pubs = nil
		press(dev, host, ops, 0x90, c.note, 100)
		if len(ops.pubs) != 1 || ops.pubs[0].path != ActionToggleSequence {
			t.Fatalf("note %d published %v", c.note, ops.paths())
		}
		if ops.pubs[0].args[0] != c.seq {
			t.Fatalf("note %d -> seq %v, want %d", c.note, ops.pubs[0].args[0], c.seq)
		}
	}

	// Notes outside drum and session ranges are ignored.
	ops.pubs = nil
	press(dev, host, ops, 0x90, 60, 100)
	press(dev, host, ops, 0x90, 111, 100)
	if len(ops.pubs) != 0 || len(host.writes) != 0 {
		t.Fatalf("stray notes produced traffic: %v %v", ops.paths(), host.writes)
	}
}

func TestLaunchkeyEncodePadStatus(t *testing.T) {
	dev := NewLaunchkey()

	got := dev.EncodePadStatus(0, bridge.Stopped, 67)
	if len(got) != 1 || !bytes.Equal(got[0], []byte{0x90, 96, 67}) {
		t.Fatalf("stopped = %v", got)
	}

	got = dev.EncodePadStatus(8, bridge.Starting, 35)
	if len(got) != 2 ||
		!bytes.Equal(got[0], []byte{0x90, 112, 35}) ||
		!bytes.Equal(got[1], []byte{0x91, 112, startingColor}) {
		t.Fatalf("starting = %v", got)
	}

	got = dev.EncodePadStatus(15, bridge.Playing, 9)
	if len(got) != 1 || !bytes.Equal(got[0], []byte{0x92, 119, 9}) {
		t.Fatalf("playing = %v", got)
	}

	got = dev.EncodePadStatus(3, bridge.StoppingSync, 44)
	if len(got) != 2 ||
		!bytes.Equal(got[0], []byte{0x90, 99, 44}) ||
		!bytes.Equal(got[1], []byte{0x91, 99, stoppingColor}) {
		t.Fatalf("stopping = %v", got)
	}

	got = dev.EncodePadStatus(5, bridge.Disabled, 44)
	if len(got) != 1 || !bytes.Equal(got[0], []byte{0x90, 101, 0}) {
		t.Fatalf("disabled = %v", got)
	}

	if dev.EncodePadStatus(16, bridge.Stopped, 0) != nil {
		t.Fatal("out-of-range pad encoded")
	}
}

func TestLaunchkeyEncodePlayerState(t *testing.T) {
	dev := NewLaunchkey()

	cases := []struct {
		state byte
		want  [][]byte
	}{
		{0, [][]byte{{0xB0, lkPlayCC, 0}, {0xB0, lkRecordCC, 0}}},
		{1, [][]byte{{0xB1, lkPlayCC, 127}, {0xB1, lkRecordCC, 0}}},
		{2, [][]byte{{0xB0, lkPlayCC, 0}, {0xB0, lkRecordCC, 127}}},
		{3, [][]byte{{0xB2, lkPlayCC, 127}, {0xB2, lkRecordCC, 127}}},
	}
	for _, c := range cases {
		got := dev.EncodePlayerState(c.state)
		if len(got) != len(c.want) {
			t.Fatalf("state %d = %v", c.state, got)
		}
		for i := range c.want {
			if !bytes.Equal(got[i], c.want[i]) {
				t.Fatalf("state %d = %v, want %v", c.state, got, c.want)
			}
		}
	}
	if dev.EncodePlayerState(4) != nil {
		t.Fatal("undocumented state encoded")
	}
}

func TestLaunchkeyEnableDisable(t *testing.T) {
	dev := NewLaunchkey()
	ops := &fakeOps{}

	dev.Enable(ops)
	if ops.resyncs != 1 {
		t.Fatalf("enable ran resync %d times", ops.resyncs)
	}
	if len(ops.sent) != 18 {
		t.Fatalf("enable sent %d messages, want 18", len(ops.sent))
	}
	if !bytes.Equal(ops.sent[0], []byte{0x9F, lkSessionNote, 127}) {
		t.Fatalf("enable first = %v", ops.sent[0])
	}
	for i, note := 1, lkDrumFirst; note <= lkDrumLast; i, note = i+1, note+1 {
		if !bytes.Equal(ops.sent[i], []byte{0x99, note, lkDrumColor}) {
			t.Fatalf("drum paint %d = %v", i, ops.sent[i])
		}
	}
	if !bytes.Equal(ops.sent[17], []byte{0xBF, lkBankCC, lkDefaultBank}) {
		t.Fatalf("enable last = %v", ops.sent[17])
	}

	ops.sent = nil
	dev.Disable(ops)
	if len(ops.sent) != 1 || !bytes.Equal(ops.sent[0], []byte{0x9F, lkSessionNote, 0}) {
		t.Fatalf("disable = %v", ops.sent)
	}
}
