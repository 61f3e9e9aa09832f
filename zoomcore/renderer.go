// renderer.go - pure Frame -> RGBA translation, the only place pixel codes
// become display bytes.

package zoomcore

import (
	"math"
	"time"
)

// RenderFrame populates f.RGBA from f.Pixels according to f.AngleDeg and
// the presence of f.Palette. If now has already reached f.TimeExpire the
// render is aborted and f.Stats.DurationRender is left at zero, the
// Scheduler's signal that this frame was dropped.
func RenderFrame(f *Frame, now time.Time) {
	if !f.TimeExpire.IsZero() && !now.Before(f.TimeExpire) {
		f.Stats.DurationRender = 0
		return
	}

	start := time.Now()
	if f.AngleDeg == 0 {
		renderAxisAligned(f)
	} else {
		renderRotated(f)
	}
	f.Stats.DurationRender = time.Since(start)
}

func putRGBA(dst []byte, offset int, v uint32) {
	dst[offset] = byte(v >> 24)
	dst[offset+1] = byte(v >> 16)
	dst[offset+2] = byte(v >> 8)
	dst[offset+3] = byte(v)
}

// renderAxisAligned handles angle == 0: a palette-indirected crop, or one
// of two no-palette copy shapes (contiguous when the storage and view
// widths match, cropped per row otherwise).
func renderAxisAligned(f *Frame) {
	viewW, viewH := f.ViewW, f.ViewH
	pixelW, pixelH := f.PixelW, f.PixelH
	i0 := (pixelW - viewW) / 2
	j0 := (pixelH - viewH) / 2

	if f.Palette != nil {
		for row := 0; row < viewH; row++ {
			srcBase := (j0+row)*pixelW + i0
			dstBase := row * viewW * 4
			for col := 0; col < viewW; col++ {
				putRGBA(f.RGBA, dstBase+col*4, f.Palette[f.Pixels[srcBase+col]])
			}
		}
		return
	}

	if pixelW == viewW {
		n := viewW * viewH
		srcBase := j0 * pixelW
		for i := 0; i < n; i++ {
			putRGBA(f.RGBA, i*4, f.Pixels[srcBase+i])
		}
		return
	}

	for row := 0; row < viewH; row++ {
		srcBase := (j0+row)*pixelW + i0
		dstBase := row * viewW * 4
		for col := 0; col < viewW; col++ {
			putRGBA(f.RGBA, dstBase+col*4, f.Pixels[srcBase+col])
		}
	}
}

// renderRotated implements the nearest-neighbour rotated resample using
// fixed-point 16.16 deltas. The constants below — including the 32768
// half-pixel bias on x_start/y_start — are preserved bit-for-bit per the
// source this behavior was distilled from; see DESIGN.md's Open Question
// entry for the centre-sample-vs-off-by-one ambiguity this leaves.
func renderRotated(f *Frame) {
	viewW, viewH := f.ViewW, f.ViewH
	pixelW, pixelH := f.PixelW, f.PixelH

	rad := f.AngleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	xStart := int64(math.Floor((float64(pixelW) - float64(viewH)*sin - float64(viewW)*cos) * 32768))
	yStart := int64(math.Floor((float64(pixelH) - float64(viewH)*cos + float64(viewW)*sin) * 32768))
	ixStep := int64(math.Floor(cos * 65536))
	iyStep := int64(math.Floor(-sin * 65536))
	jxStep := int64(math.Floor(sin * 65536))
	jyStep := int64(math.Floor(cos * 65536))

	for v := 0; v < viewH; v++ {
		rowX := xStart + int64(v)*jxStep
		rowY := yStart + int64(v)*jyStep
		dstBase := v * viewW * 4
		for u := 0; u < viewW; u++ {
			ix := rowX + int64(u)*ixStep
			iy := rowY + int64(u)*iyStep

			px := int(ix >> 16)
			py := int(iy >> 16)
			if px < 0 || px >= pixelW || py < 0 || py >= pixelH {
				continue
			}

			code := f.Pixels[py*pixelW+px]
			if f.Palette != nil {
				putRGBA(f.RGBA, dstBase+u*4, f.Palette[code])
			} else {
				putRGBA(f.RGBA, dstBase+u*4, code)
			}
		}
	}
}
