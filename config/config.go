package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Transport selects how the bridge reaches the MIDI graph
type Transport string

const (
	TransportJack   Transport = "jack"
	TransportRtmidi Transport = "rtmidi"
)

// Config is the main configuration structure
type Config struct {
	MidiChannel int       `json:"midiChannel"`         // channel for forwarded CC, 0-15
	Debug       bool      `json:"debug,omitempty"`     // log to debug.log
	Monitor     bool      `json:"monitor,omitempty"`   // run the terminal monitor
	Transport   Transport `json:"transport,omitempty"` // jack or rtmidi

	JackClient    string `json:"jackClient,omitempty"`    // JACK client name
	OSCHost       string `json:"oscHost,omitempty"`       // host sequencer address
	OSCPort       int    `json:"oscPort,omitempty"`       // host sequencer OSC port
	OSCListenPort int    `json:"oscListenPort,omitempty"` // our notification port
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MidiChannel:   0,
		Transport:     TransportJack,
		JackClient:    "padbridge",
		OSCHost:       "localhost",
		OSCPort:       1370,
		OSCListenPort: 2001,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "padbridge"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
