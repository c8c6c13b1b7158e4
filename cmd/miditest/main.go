package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"padbridge/bridge"
	"padbridge/protocol"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectControllers()
	case "sysex":
		testProgrammerMode()
	case "leds":
		testLEDs()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("padbridge MIDI test scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  detect  - Find supported controllers")
	fmt.Println("  sysex   - Send Launchpad Mini programmer-mode SysEx")
	fmt.Println("  leds    - Walk the session pads through every status")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI backend is hung.")
	}
}

func detectControllers() {
	b := bridge.New(protocol.Registry(), protocol.Palette)

	fmt.Println("Looking for supported controllers...")
	found := false
	for _, p := range midi.GetInPorts() {
		if b.MatchesSupported(p.String()) {
			fmt.Printf("Found input: %s\n", p.String())
			found = true
		}
	}
	for _, p := range midi.GetOutPorts() {
		if b.MatchesSupported(p.String()) {
			fmt.Printf("Found output: %s\n", p.String())
			found = true
		}
	}
	if !found {
		fmt.Println("No supported controller found. Supported:")
		for _, name := range b.Supported() {
			fmt.Printf("  %s\n", name)
		}
	}
}

func findOut(token string) drivers.Out {
	for _, p := range midi.GetOutPorts() {
		if strings.Contains(strings.ToLower(p.String()), token) {
			return p
		}
	}
	return nil
}

func testProgrammerMode() {
	outPort := findOut("launchpad")
	if outPort == nil {
		fmt.Println("No Launchpad found")
		return
	}
	fmt.Printf("Using output: %s\n", outPort.String())

	send, err := midi.SendTo(outPort)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	// Mini MK3 programmer layout: F0 00 20 29 02 0D 00 7F F7
	fmt.Println("Sending: programmer layout")
	if err := send(midi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0D, 0x00, 0x7F})); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Done! Launchpad should now be in programmer mode")
}

func testLEDs() {
	outPort := findOut("launchpad")
	if outPort == nil {
		fmt.Println("No Launchpad found")
		return
	}
	send, err := midi.SendTo(outPort)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	send(midi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0D, 0x00, 0x7F}))
	time.Sleep(100 * time.Millisecond)

	dev := protocol.NewLaunchpadMini()
	statuses := []bridge.Status{
		bridge.Stopped, bridge.Starting, bridge.Playing, bridge.Stopping, bridge.Disabled,
	}
	fmt.Println("Walking pad 0 through every status...")
	for _, st := range statuses {
		fmt.Printf("  %s\n", st)
		for _, env := range dev.EncodePadStatus(0, st, protocol.Palette[0]) {
			send(midi.Message(env))
		}
		time.Sleep(time.Second)
	}

	for _, env := range dev.EncodePadStatus(0, bridge.Disabled, 0) {
		send(midi.Message(env))
	}
	fmt.Println("Done!")
}
