// view.go - a logical window into the plane: geometry, two Rulers, and the
// Frame currently bound to it.

package zoomcore

import "math"

// View owns exactly one Frame at a time and the two Rulers that describe
// how that Frame's pixel buffer was derived from its predecessor.
type View struct {
	ViewW, ViewH   int
	PixelW, PixelH int
	EnableAngle    bool

	CenterX, CenterY, Radius float64
	RadiusViewHor            float64
	RadiusViewVer            float64
	RadiusPixelHor           float64
	RadiusPixelVer           float64

	XRuler *Ruler
	YRuler *Ruler
	Frame  *Frame
}

// NewView creates a View sized for viewW x viewH. When enableAngle is set
// the pixel buffer is sized to the diagonal of the view so that a rotated
// crop never samples outside the stored buffer.
func NewView(viewW, viewH int, enableAngle bool) *View {
	pixelW, pixelH := viewW, viewH
	if enableAngle {
		d := int(math.Ceil(math.Sqrt(float64(viewW)*float64(viewW) + float64(viewH)*float64(viewH))))
		pixelW, pixelH = d, d
	}
	return &View{
		ViewW: viewW, ViewH: viewH,
		PixelW: pixelW, PixelH: pixelH,
		EnableAngle: enableAngle,
	}
}

// SetPosition binds frame to the View, computes the new radii, builds both
// Rulers against previous (nil means "no inheritance available"), and — if
// previous is non-nil — warps previous's pixel buffer into frame's through
// the Rulers. With previous == nil the bound Frame's pixels are left
// undefined; the caller must call Fill separately.
func (v *View) SetPosition(previous *View, centerX, centerY, radius, angleDeg float64, frame *Frame) {
	v.Frame = frame
	frame.AngleDeg = angleDeg
	v.CenterX, v.CenterY, v.Radius = centerX, centerY, radius

	maxDim := v.ViewW
	if v.ViewH > maxDim {
		maxDim = v.ViewH
	}
	v.RadiusViewHor = radius * float64(v.ViewW) / float64(maxDim)
	v.RadiusViewVer = radius * float64(v.ViewH) / float64(maxDim)
	v.RadiusPixelHor = radius * float64(v.PixelW) / float64(maxDim)
	v.RadiusPixelVer = radius * float64(v.PixelH) / float64(maxDim)

	xStart, xEnd := centerX-v.RadiusPixelHor, centerX+v.RadiusPixelHor
	yStart, yEnd := centerY-v.RadiusPixelVer, centerY+v.RadiusPixelVer

	if previous == nil {
		v.XRuler = newRuler(v.PixelW)
		v.XRuler.linearInit(xStart, xEnd)
		v.YRuler = newRuler(v.PixelH)
		v.YRuler.linearInit(yStart, yEnd)

		frame.Stats.CntHLines = 0
		frame.Stats.CntVLines = 0
		frame.Stats.CntPixels = 0
		frame.Stats.Quality = 0
		return
	}

	xr, xExact := MakeRuler(xStart, xEnd, v.PixelW, previous.XRuler.Nearest, previous.XRuler.Error)
	yr, yExact := MakeRuler(yStart, yEnd, v.PixelH, previous.YRuler.Nearest, previous.YRuler.Error)
	v.XRuler, v.YRuler = xr, yr

	v.warp(previous)

	v.XRuler.markDuplicates()
	v.YRuler.markDuplicates()

	frame.Stats.CntHLines = yExact
	frame.Stats.CntVLines = xExact
	frame.Stats.CntPixels = xExact * yExact
	frame.Stats.Quality = float64(frame.Stats.CntPixels) / float64(v.PixelW*v.PixelH)
}

// warp fills v.Frame.Pixels by reindexing previous.Frame.Pixels through the
// freshly built Rulers: row j is a block copy of row j-1 whenever both map
// to the same old row, and a full reindex via XRuler.From otherwise.
func (v *View) warp(previous *View) {
	oldPixels := previous.Frame.Pixels
	oldPixelW := previous.PixelW
	newPixels := v.Frame.Pixels
	pw, ph := v.PixelW, v.PixelH
	xFrom := v.XRuler.From
	yFrom := v.YRuler.From

	y0 := int(yFrom[0])
	oldRow0 := y0 * oldPixelW
	for i := 0; i < pw; i++ {
		newPixels[i] = oldPixels[oldRow0+int(xFrom[i])]
	}

	for j := 1; j < ph; j++ {
		rowBase := j * pw
		if yFrom[j] == yFrom[j-1] {
			copy(newPixels[rowBase:rowBase+pw], newPixels[rowBase-pw:rowBase])
			continue
		}
		oldRowBase := int(yFrom[j]) * oldPixelW
		for i := 0; i < pw; i++ {
			newPixels[rowBase+i] = oldPixels[oldRowBase+int(xFrom[i])]
		}
	}
}

// Fill brute-force computes every pixel of the bound Frame via calc, and
// marks both Rulers fully exact and canonical against the resulting grid.
// Used to seed the very first View (which has no previous View to inherit
// from) and directly by callers that need a known-good baseline (see
// scenario tests in view_test.go).
func (v *View) Fill(calc PixelFunc, zm *Zoomer) {
	pw, ph := v.PixelW, v.PixelH
	for j := 0; j < ph; j++ {
		y := v.YRuler.Coord[j]
		rowBase := j * pw
		for i := 0; i < pw; i++ {
			v.Frame.Pixels[rowBase+i] = calc(zm, v.Frame, v.XRuler.Coord[i], y)
		}
	}
	for i := range v.XRuler.Coord {
		v.XRuler.Nearest[i] = v.XRuler.Coord[i]
		v.XRuler.Error[i] = 0
		v.XRuler.From[i] = int32(i)
	}
	for j := range v.YRuler.Coord {
		v.YRuler.Nearest[j] = v.YRuler.Coord[j]
		v.YRuler.Error[j] = 0
		v.YRuler.From[j] = int32(j)
	}
	v.Frame.Stats.CntHLines = ph
	v.Frame.Stats.CntVLines = pw
	v.Frame.Stats.CntPixels = pw * ph
	v.Frame.Stats.Quality = 1
}

// UpdateLines recomputes exactly one row or column — whichever currently
// has the larger residual error, with stale duplicates (see Ruler.From)
// always outweighing a merely-imprecise canonical stop. It is a no-op once
// every stop is canonical with zero error.
func (v *View) UpdateLines(calc PixelFunc, zm *Zoomer) {
	xi, xerr := v.XRuler.worst()
	yj, yerr := v.YRuler.worst()
	if xerr <= 0 && yerr <= 0 {
		return
	}
	if xerr > yerr {
		v.updateColumn(xi, calc, zm)
	} else {
		v.updateRow(yj, calc, zm)
	}
}

func (v *View) updateColumn(i int, calc PixelFunc, zm *Zoomer) {
	pw, ph := v.PixelW, v.PixelH
	x := v.XRuler.Coord[i]

	var last uint32
	for j := 0; j < ph; j++ {
		if j == 0 || v.YRuler.canonical(j) {
			last = calc(zm, v.Frame, x, v.YRuler.Coord[j])
		}
		v.Frame.Pixels[j*pw+i] = last
	}

	v.XRuler.Nearest[i] = x
	v.XRuler.Error[i] = 0
	v.Frame.Stats.CntVLines++
	v.bumpPixelCount(ph)

	for u := i + 1; u < pw; u++ {
		if v.XRuler.Error[u] != 0 && v.XRuler.From[u] == staleFrom {
			for j := 0; j < ph; j++ {
				v.Frame.Pixels[j*pw+u] = v.Frame.Pixels[j*pw+i]
			}
			continue
		}
		break
	}
}

func (v *View) updateRow(j int, calc PixelFunc, zm *Zoomer) {
	pw, ph := v.PixelW, v.PixelH
	y := v.YRuler.Coord[j]
	rowBase := j * pw

	var last uint32
	for i := 0; i < pw; i++ {
		if i == 0 || v.XRuler.canonical(i) {
			last = calc(zm, v.Frame, v.XRuler.Coord[i], y)
		}
		v.Frame.Pixels[rowBase+i] = last
	}

	v.YRuler.Nearest[j] = y
	v.YRuler.Error[j] = 0
	v.Frame.Stats.CntHLines++
	v.bumpPixelCount(pw)

	for w := j + 1; w < ph; w++ {
		if v.YRuler.Error[w] != 0 && v.YRuler.From[w] == staleFrom {
			dstBase := w * pw
			copy(v.Frame.Pixels[dstBase:dstBase+pw], v.Frame.Pixels[rowBase:rowBase+pw])
			continue
		}
		break
	}
}

func (v *View) bumpPixelCount(n int) {
	total := v.PixelW * v.PixelH
	v.Frame.Stats.CntPixels += n
	if v.Frame.Stats.CntPixels > total {
		v.Frame.Stats.CntPixels = total
	}
	v.Frame.Stats.Quality = float64(v.Frame.Stats.CntPixels) / float64(total)
}

// ReachedLimits reports whether further zooming would underflow: true once
// two adjacent stops on either axis collapse to numerically equal
// coordinates, meaning no distinguishable samples remain between them.
func (v *View) ReachedLimits() bool {
	return rulerExhausted(v.XRuler) || rulerExhausted(v.YRuler)
}

func rulerExhausted(r *Ruler) bool {
	for i := 0; i+1 < r.Len(); i++ {
		if r.Coord[i] == r.Coord[i+1] {
			return true
		}
	}
	return false
}
