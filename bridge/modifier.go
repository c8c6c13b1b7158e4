package bridge

// Modifier is the transient input state a protocol consults while
// decoding: whether shift is held and which CC bank offset applies.
// It is owned by the decode step on the realtime thread; nothing else
// writes it.
type Modifier struct {
	Shift        bool
	CCBankOffset int
}
