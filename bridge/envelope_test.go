package bridge

import (
	"bytes"
	"testing"
)

func TestNewEnvelope(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"note on", []byte{0x90, 60, 100}, true},
		{"single status byte", []byte{0xF8}, true},
		{"sysex", []byte{0xF0, 0x00, 0x20, 0x29, 0xF7}, true},
		{"empty", []byte{}, false},
		{"nil", nil, false},
		{"data byte first", []byte{0x7F, 60, 100}, false},
		{"zero first", []byte{0x00}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ok := NewEnvelope(tt.data)
			if ok != tt.ok {
				t.Fatalf("NewEnvelope(%v) ok = %v, want %v", tt.data, ok, tt.ok)
			}
			if ok && !bytes.Equal(env, tt.data) {
				t.Fatalf("envelope = %v, want %v", env, tt.data)
			}
		})
	}
}

func TestNewEnvelopeCopies(t *testing.T) {
	src := []byte{0x90, 60, 100}
	env, _ := NewEnvelope(src)
	src[1] = 0
	if env[1] != 60 {
		t.Fatal("envelope shares storage with its source")
	}
}
