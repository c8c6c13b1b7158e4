package bridge

// SupportedCursor walks the supported-device list. Reset positions it
// on the active protocol (or the start while disconnected); Next
// returns the current token and advances.
type SupportedCursor struct {
	b   *Bridge
	idx int
}

// SupportedCursor returns a fresh cursor, already reset.
func (b *Bridge) SupportedCursor() *SupportedCursor {
	c := &SupportedCursor{b: b}
	c.Reset()
	return c
}

// Reset moves the cursor to the active protocol, or to the first
// supported entry when nothing is connected.
func (c *SupportedCursor) Reset() {
	if i := c.b.conn.Load().Active; i != Unset {
		c.idx = i
	} else {
		c.idx = 0
	}
}

// Next returns the token under the cursor and steps forward. ok is
// false once the list is exhausted.
func (c *SupportedCursor) Next() (token string, ok bool) {
	if c.idx < 0 || c.idx >= len(c.b.devices) {
		return "", false
	}
	token = c.b.devices[c.idx].Name()
	c.idx++
	return token, true
}
