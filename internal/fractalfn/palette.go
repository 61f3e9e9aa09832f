package fractalfn

import "math"

// backgroundIndex mirrors zoomcore's reserved transparent background
// palette slot. Mandelbrot never returns it: its "in the set" code is
// maxIter, at most 65534.
const backgroundIndex = 65535

// Palette builds a 65536-entry lookup table cycling hue for codes
// 0..maxIter-1 and forcing index 65535 to fully transparent, per the
// Frame invariant every zoomcore.Frame.Palette must satisfy. kind selects
// the hue range: "fire", "ocean", or anything else falls back to "mono"
// (a grayscale ramp).
func Palette(kind string, maxIter int) *[65536]uint32 {
	if maxIter <= 0 {
		maxIter = 1
	}
	var p [65536]uint32
	for code := 0; code < 65536; code++ {
		if code == backgroundIndex {
			p[code] = 0x00000000
			continue
		}
		t := float64(code%maxIter) / float64(maxIter)
		p[code] = shade(kind, t)
	}
	return &p
}

func shade(kind string, t float64) uint32 {
	switch kind {
	case "fire":
		return hsvRGBA(30*t, 1, math.Min(1, 0.3+t))
	case "ocean":
		return hsvRGBA(180+60*t, 0.8, math.Min(1, 0.2+t))
	default:
		v := uint8(t * 255)
		return rgba(v, v, v, 255)
	}
}

// hsvRGBA converts HSV (h in degrees, s/v in [0,1]) to an opaque RGBA code
// in the same byte order renderer.go's putRGBA expects.
func hsvRGBA(h, s, v float64) uint32 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return rgba(uint8((r+m)*255), uint8((g+m)*255), uint8((b+m)*255), 255)
}

func rgba(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}
