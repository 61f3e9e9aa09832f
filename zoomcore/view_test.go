package zoomcore

import (
	"math"
	"testing"
	"time"
)

// property 4: warping a constant-coloured previous frame yields a
// uniformly-coloured new frame regardless of the new center/radius.
func TestWarpCorrectnessConstantFrame(t *testing.T) {
	const c = uint32(0xABCDEF01)

	cases := []struct {
		name                     string
		centerX, centerY, radius float64
	}{
		{"same-position", 0, 0, 2},
		{"panned", 0.7, -0.3, 2},
		{"zoomed-in", 0.1, 0.1, 0.01},
		{"zoomed-out", 0, 0, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev := NewView(8, 8, false)
			prevFrame := newFrame(8, 8, 8, 8)
			for i := range prevFrame.Pixels {
				prevFrame.Pixels[i] = c
			}
			prev.SetPosition(nil, 0, 0, 2, 0, prevFrame)

			next := NewView(8, 8, false)
			nextFrame := newFrame(8, 8, 8, 8)
			next.SetPosition(prev, tc.centerX, tc.centerY, tc.radius, 0, nextFrame)

			for i, px := range nextFrame.Pixels {
				if px != c {
					t.Fatalf("pixel %d = %#x, want %#x", i, px, c)
				}
			}
		})
	}
}

// property 5: repeated UpdateLines calls on a View seeded with no
// previous View eventually drive every Ruler error to zero, and each
// call grows cnt_pixels by at most pixel_w + pixel_h.
func TestUpdateLinesConvergence(t *testing.T) {
	const pw, ph = 12, 9
	v := NewView(pw, ph, false)
	f := newFrame(pw, ph, pw, ph)
	v.SetPosition(nil, 0, 0, 2, 0, f)

	calc := func(zm *Zoomer, fr *Frame, x, y float64) uint32 {
		return uint32(int64(x*1000) + int64(y*1000))
	}

	maxErr := func() float64 {
		_, xe := v.XRuler.worst()
		_, ye := v.YRuler.worst()
		return math.Max(xe, ye)
	}

	prevCnt := 0
	calls := 0
	const limit = pw*ph + 10 // generous bound: at most pw+ph distinct lines total, plus slack
	for maxErr() != 0 {
		calls++
		if calls > limit {
			t.Fatalf("did not converge within %d calls; max error = %v", limit, maxErr())
		}
		v.UpdateLines(calc, nil)
		grew := f.Stats.CntPixels - prevCnt
		if grew < 0 || grew > pw+ph {
			t.Fatalf("call %d: cnt_pixels grew by %d, want in [0, %d]", calls, grew, pw+ph)
		}
		prevCnt = f.Stats.CntPixels
	}

	if f.Stats.Quality != 1 {
		t.Fatalf("after convergence, quality = %v, want 1", f.Stats.Quality)
	}

	// idempotent once converged
	before := f.Stats.CntPixels
	v.UpdateLines(calc, nil)
	if f.Stats.CntPixels != before {
		t.Fatalf("UpdateLines not idempotent once converged: cnt_pixels changed from %d to %d", before, f.Stats.CntPixels)
	}
}

// scenario A.
func TestScenarioA_IdentityPaletteZeroCalc(t *testing.T) {
	v := NewView(64, 64, false)
	f := newFrame(64, 64, 64, 64)
	v.SetPosition(nil, 0, 0, 2, 0, f)
	v.Fill(func(zm *Zoomer, fr *Frame, x, y float64) uint32 { return 0 }, nil)

	if f.Stats.Quality != 1 {
		t.Fatalf("quality = %v, want 1", f.Stats.Quality)
	}

	f.Palette = identityPalette()
	RenderFrame(f, time.Now())
	for i, b := range f.RGBA {
		if b != 0 {
			t.Fatalf("rgba[%d] = %d, want 0", i, b)
		}
	}
}

// scenario B.
func TestScenarioB_IdentityPaletteBackgroundCalc(t *testing.T) {
	v := NewView(16, 16, false)
	f := newFrame(16, 16, 16, 16)
	v.SetPosition(nil, 0, 0, 2, 0, f)
	v.Fill(func(zm *Zoomer, fr *Frame, x, y float64) uint32 { return 65535 }, nil)

	f.Palette = identityPalette()
	RenderFrame(f, time.Now())

	want := f.Palette[65535]
	for row := 0; row < 16; row++ {
		for col := 0; col < 16; col++ {
			off := (row*16 + col) * 4
			got := uint32(f.RGBA[off])<<24 | uint32(f.RGBA[off+1])<<16 | uint32(f.RGBA[off+2])<<8 | uint32(f.RGBA[off+3])
			if got != want {
				t.Fatalf("rgba at (%d,%d) = %#x, want %#x", col, row, got, want)
			}
		}
	}
}

// scenario C.
func TestScenarioC_PartialInheritanceAfterReposition(t *testing.T) {
	calc := func(zm *Zoomer, fr *Frame, x, y float64) uint32 {
		return uint32(int64((x+2)*1000) + int64((y+2)*1000))
	}

	v := NewView(128, 128, false)
	f := newFrame(128, 128, 128, 128)
	v.SetPosition(nil, 0, 0, 2, 0, f)
	v.Fill(calc, nil)

	v2 := NewView(128, 128, false)
	f2 := newFrame(128, 128, 128, 128)
	v2.SetPosition(v, 0.5, 0, 1, 0, f2)

	if f2.Stats.CntPixels <= 0 {
		t.Fatalf("cnt_pixels = %d, want > 0", f2.Stats.CntPixels)
	}
	if f2.Stats.Quality <= 0 {
		t.Fatalf("quality = %v, want > 0", f2.Stats.Quality)
	}

	// The new view is centered further right (0.5 vs 0) at half the
	// radius, so its leftmost column should map back to an old x-index
	// nearer the old view's center than its left edge.
	leftFrom := v2.XRuler.From[0]
	if leftFrom == staleFrom {
		t.Fatalf("leftmost column has no inherited sample")
	}
	if int(leftFrom) < v.XRuler.Len()/4 {
		t.Fatalf("leftmost column inherited from old index %d, expected it nearer the old center", leftFrom)
	}
}

// scenario F. The center sits at x = 1 so the x-axis stops exhaust double
// precision (ulp 2^-52) after about 50 halvings; around 0 the representable
// values are far denser and no collapse happens within 60 halvings.
func TestScenarioF_ResolutionLimit(t *testing.T) {
	v := NewView(64, 64, false)
	f := newFrame(64, 64, 64, 64)
	v.SetPosition(nil, 1, 0, 2.0, 0, f)

	radius := 2.0
	for i := 0; i < 60; i++ {
		if v.ReachedLimits() {
			return
		}
		radius /= 2
		next := newFrame(64, 64, 64, 64)
		v.SetPosition(v, 1, 0, radius, 0, next)
		f = next
	}
	t.Fatalf("ReachedLimits() never returned true after 60 halvings")
}

func identityPalette() *[65536]uint32 {
	var p [65536]uint32
	for i := range p {
		p[i] = uint32(i)
	}
	return &p
}
