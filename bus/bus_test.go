package bus

import (
	"testing"

	"padbridge/bridge"
)

func TestServeReportsBindFailure(t *testing.T) {
	b := bridge.New(nil, [16]byte{})
	bus, err := New(b, "localhost", 1370, -1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := bus.Serve(); err == nil {
		t.Fatal("invalid listen port did not surface an error")
	}
}

func TestPublishDropsUnsupportedArguments(t *testing.T) {
	b := bridge.New(nil, [16]byte{})
	bus, err := New(b, "localhost", 1370, 2009)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	// Must not panic or send a half-built message.
	bus.Publish("/cuia/TOGGLE_SEQUENCE", 3.14)
}
