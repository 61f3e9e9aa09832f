// Package fractalfn provides concrete, swappable implementations of the
// two external collaborators zoomcore declares but does not itself
// implement: the pixel formula and the palette.
package fractalfn

// escapeRadiusSq is the standard bailout bound |z|^2 > 4 for the classic
// Mandelbrot escape-time iteration.
const escapeRadiusSq = 4.0

// Mandelbrot returns a plain func(x, y) calculator, which callers wrap into
// a zoomcore.PixelFunc: escape-time
// iteration count at (x, y), clamped to the 16-bit code range the Frame
// invariant requires. 0 escapes fastest, maxIter (clamped to 65534) means
// "in the set".
func Mandelbrot(maxIter int) func(x, y float64) uint32 {
	if maxIter > 65534 {
		maxIter = 65534
	}
	return func(x, y float64) uint32 {
		var zr, zi float64
		for n := 0; n < maxIter; n++ {
			zr2, zi2 := zr*zr, zi*zi
			if zr2+zi2 > escapeRadiusSq {
				return uint32(n)
			}
			zi = 2*zr*zi + y
			zr = zr2 - zi2 + x
		}
		return uint32(maxIter)
	}
}
