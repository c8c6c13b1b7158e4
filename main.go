package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/briansorahan/death"
	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"padbridge/bridge"
	"padbridge/bus"
	"padbridge/config"
	"padbridge/debug"
	"padbridge/jackd"
	"padbridge/protocol"
	"padbridge/rtmidi"
	"padbridge/tui"
)

func main() {
	cfg, err := config.Load()
	death.Main(err)

	flag.IntVar(&cfg.MidiChannel, "channel", cfg.MidiChannel, "MIDI channel for forwarded CC messages (0-15)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Write debug log to ~/.config/padbridge/debug.log")
	flag.BoolVar(&cfg.Monitor, "monitor", cfg.Monitor, "Show the terminal pad monitor")
	flag.StringVar(&cfg.JackClient, "jack-name", cfg.JackClient, "JACK client name")
	flag.StringVar(&cfg.OSCHost, "osc-host", cfg.OSCHost, "Host sequencer OSC address")
	flag.IntVar(&cfg.OSCPort, "osc-port", cfg.OSCPort, "Host sequencer OSC port")
	flag.IntVar(&cfg.OSCListenPort, "osc-listen", cfg.OSCListenPort, "Local port for status notifications")
	transport := flag.String("transport", string(cfg.Transport), "MIDI transport: jack or rtmidi")
	flag.Parse()
	cfg.Transport = config.Transport(*transport)

	if cfg.Debug {
		death.Main(debug.Enable())
		defer debug.Disable()
	}

	// One bridge instance owns all translator state.
	b := bridge.New(protocol.Registry(), protocol.Palette)
	b.SetMidiChannel(cfg.MidiChannel)

	oscBus, err := bus.New(b, cfg.OSCHost, cfg.OSCPort, cfg.OSCListenPort)
	death.Main(err)
	b.SetPublisher(oscBus)
	b.SetNotifier(oscBus)
	go func() {
		if err := oscBus.Serve(); err != nil {
			fmt.Fprintf(os.Stderr, "osc server: %v\n", err)
			debug.Log("bus", "server exited: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch cfg.Transport {
	case config.TransportRtmidi:
		drv, err := rtmididrv.New()
		death.Main(err)
		defer drv.Close()
		mgr := rtmidi.NewManager(b, drv)
		go func() {
			if err := mgr.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				fmt.Fprintf(os.Stderr, "rtmidi transport: %v\n", err)
				debug.Log("rtmidi", "transport exited: %v", err)
			}
		}()
	default:
		jc, err := jackd.Open(cfg.JackClient, b)
		death.Main(err)
		defer jc.Close()
	}

	fmt.Println("padbridge")
	fmt.Println("Connect a supported controller any time - it'll be detected automatically")
	for _, name := range b.Supported() {
		fmt.Printf("  supports %s\n", name)
	}
	fmt.Println("")

	if cfg.Monitor {
		p := tea.NewProgram(tui.NewModel(b), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, os.Interrupt, syscall.SIGTERM)
	sig := <-sc
	fmt.Printf("received %s, exiting\n", sig)
}
