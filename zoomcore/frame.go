// frame.go - the transferable per-instant pixel/RGBA buffer pair.

package zoomcore

import "time"

// backgroundIndex is the palette slot reserved for fully transparent
// background pixels (e.g. escape-time "in the set" codes).
const backgroundIndex = 65535

// Stats holds per-frame timing and coverage statistics. Durations are zero
// until the corresponding phase has run for this frame; DurationRender is
// explicitly zero to signal a dropped frame (the Renderer observed
// expiry and produced no output).
type Stats struct {
	DurationCopy   time.Duration
	DurationUpdate time.Duration
	DurationRender time.Duration
	DurationPaint  time.Duration

	CntPixels int // pixels known good since the last full Fill
	CntHLines int // rows (y-axis stops) with exact residual error
	CntVLines int // columns (x-axis stops) with exact residual error
	Quality   float64
}

// Frame is the physical buffer pair bound to exactly one View at a time.
// It has no back-pointer to its View (no cyclic object graph): ownership
// flows one way, from the Scheduler's pool through a View to a Renderer
// worker and back.
type Frame struct {
	ViewW, ViewH   int
	PixelW, PixelH int
	AngleDeg       float64

	Pixels []uint32 // len == PixelW*PixelH, 16-bit codes widened to uint32
	RGBA   []byte   // len == ViewW*ViewH*4
	// Palette maps a 16-bit code to RGBA. Index backgroundIndex is reserved
	// for the transparent background color. Nil means "no palette": the
	// Renderer treats Pixels as already-RGBA 32-bit values.
	Palette *[65536]uint32

	TimeExpire time.Time
	Stats      Stats
}

func newFrame(viewW, viewH, pixelW, pixelH int) *Frame {
	return &Frame{
		ViewW:  viewW,
		ViewH:  viewH,
		PixelW: pixelW,
		PixelH: pixelH,
		Pixels: make([]uint32, pixelW*pixelH),
		RGBA:   make([]byte, viewW*viewH*4),
	}
}

// reset clears per-frame transient state before the frame is handed to a
// new View; the underlying buffers are reused as-is (the View's warp step
// overwrites every pixel it touches, and Pixels not touched by warp or
// UpdateLines are simply stale leftovers from the frame's last owner of
// the same dimensions, which is safe because any such leftover index also
// carries a nonzero, non-canonical error that UpdateLines will reach).
func (f *Frame) reset() {
	f.AngleDeg = 0
	f.Palette = nil
	f.TimeExpire = time.Time{}
	f.Stats = Stats{}
}

// dims is the pool lookup key: frames are only reusable across Views with
// identical buffer geometry.
type dims struct {
	viewW, viewH, pixelW, pixelH int
}

func (f *Frame) dims() dims {
	return dims{f.ViewW, f.ViewH, f.PixelW, f.PixelH}
}
