package bridge

import "sync"

// GridSize is the largest session surface among supported controllers
// (the Launchpad Mini's full 8x8 grid).
const GridSize = 64

// Pad is the remembered visual state of one sequence slot.
type Pad struct {
	Color  byte
	Status Status
}

// PadGrid tracks the colour and play status last reported for every
// sequence slot. It is the source of truth consulted when a freshly
// connected controller needs its whole surface redrawn.
//
// The grid lives off the realtime path: it is mutated by bus
// notifications and read by the resync path and the monitor.
type PadGrid struct {
	mu      sync.Mutex
	pads    [GridSize]Pad
	palette [16]byte
}

// NewPadGrid creates a grid using palette to translate colour-group
// ids into device colour values.
func NewPadGrid(palette [16]byte) *PadGrid {
	return &PadGrid{palette: palette}
}

// SetColorGroup assigns the palette colour for group to pad seq. The
// group id wraps modulo the palette size. Out-of-range seq is ignored.
func (g *PadGrid) SetColorGroup(seq, group int) {
	if seq < 0 || seq >= GridSize {
		return
	}
	if group < 0 {
		group = -group
	}
	g.mu.Lock()
	g.pads[seq].Color = g.palette[group%len(g.palette)]
	g.mu.Unlock()
}

// SetStatus records the play status for pad seq without emitting
// anything. Out-of-range seq is ignored.
func (g *PadGrid) SetStatus(seq int, status Status) {
	if seq < 0 || seq >= GridSize {
		return
	}
	g.mu.Lock()
	g.pads[seq].Status = status
	g.mu.Unlock()
}

// Pad returns the remembered state of pad seq.
func (g *PadGrid) Pad(seq int) Pad {
	if seq < 0 || seq >= GridSize {
		return Pad{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pads[seq]
}

// Each calls fn for the first n pads in index order.
func (g *PadGrid) Each(n int, fn func(seq int, pad Pad)) {
	if n > GridSize {
		n = GridSize
	}
	for i := 0; i < n; i++ {
		fn(i, g.Pad(i))
	}
}

// Snapshot returns a copy of the whole grid for display purposes.
func (g *PadGrid) Snapshot() [GridSize]Pad {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pads
}
