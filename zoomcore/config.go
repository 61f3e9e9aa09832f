// config.go - construction-time configuration, callbacks and the Surface
// collaborator contract.

package zoomcore

import "time"

// PixelFunc computes the 16-bit (or 32-bit, when no palette is attached)
// code for one sample of the complex plane.
type PixelFunc func(zm *Zoomer, f *Frame, x, y float64) uint32

// Callbacks are the Zoomer's external collaborators. Every field is
// optional; the Zoomer owns none of their state and never retains a copy
// beyond the duration of the call that invokes it.
type Callbacks struct {
	// OnResize fires whenever the surface's reported size changes and both
	// Views have been recreated.
	OnResize func(zm *Zoomer, viewW, viewH, pixelW, pixelH int)
	// OnInitFrame fires once per freshly pool-allocated Frame, before it is
	// bound to a View — the place to attach a palette.
	OnInitFrame func(zm *Zoomer, f *Frame)
	// OnBeginFrame is the authoritative place to call calc.SetPosition with
	// the desired center/radius/angle for this tick.
	OnBeginFrame func(zm *Zoomer, calc *View, calcFrame *Frame, disp *View, dispFrame *Frame)
	// OnUpdatePixel is the calculator passed through to View.Fill and
	// View.UpdateLines.
	OnUpdatePixel PixelFunc
	// OnRenderFrame fires immediately before RenderFrame runs — the last
	// chance to populate frame.Palette.
	OnRenderFrame func(zm *Zoomer, f *Frame)
	// OnPutImageData delivers a painted Frame's RGBA to the surface.
	OnPutImageData func(zm *Zoomer, f *Frame)
	// OnEndFrame is the statistics sink, called just before a Frame is
	// returned to the pool.
	OnEndFrame func(zm *Zoomer, f *Frame)
}

// Surface is the minimal display collaborator the Zoomer needs: something
// that can report its current pixel size and accept a painted RGBA buffer.
type Surface interface {
	Size() (viewW, viewH int)
	PutImageData(rgba []byte, viewW, viewH int)
}

// Config holds the scheduler's tunables. Zero values are replaced by
// DefaultConfig's defaults in NewZoomer.
type Config struct {
	FrameRate       float64 // target frames per second; adaptively reduced on drops
	UpdateSlice     float64 // ms, max continuous work per mainloop tick
	UpdateIdleBurst float64 // ms, budget per frame when nothing has moved recently
	WakeTimeout     float64 // ms, idle threshold after which UPDATE uses the idle burst
	Coef            float64 // low-pass coefficient for moving averages
	DisableWW       bool    // run the Renderer inline instead of on worker goroutines
}

// DefaultConfig mirrors the teacher's DisplayConfig defaulting convention:
// a value constructed with Go zero values and then filled in by
// withDefaults rather than requiring every caller to spell out every field.
func DefaultConfig() Config {
	return Config{
		FrameRate:       20,
		UpdateSlice:     5,
		UpdateIdleBurst: 500,
		WakeTimeout:     500,
		Coef:            0.10,
		DisableWW:       false,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FrameRate <= 0 {
		c.FrameRate = d.FrameRate
	}
	if c.UpdateSlice <= 0 {
		c.UpdateSlice = d.UpdateSlice
	}
	if c.UpdateIdleBurst <= 0 {
		c.UpdateIdleBurst = d.UpdateIdleBurst
	}
	if c.WakeTimeout <= 0 {
		c.WakeTimeout = d.WakeTimeout
	}
	if c.Coef <= 0 {
		c.Coef = d.Coef
	}
	return c
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
