// ruler.go - per-axis coordinate/sample mapping used to inherit pixels
// across frames without recomputation.

package zoomcore

import "math"

// staleFrom is the sentinel recorded in Ruler.From for a stop that is a
// displaced duplicate: free to overwrite, and preferred by UpdateLines over
// stops with a real (non-negative) predecessor index.
const staleFrom = -1

// Ruler maps each stop of a new axis (length = the owning View's pixel
// dimension along that axis) to the nearest sample carried over from the
// previous axis, plus the residual error of that choice.
type Ruler struct {
	Coord   []float64 // logical target coordinate of each stop
	Nearest []float64 // coordinate of the old sample chosen for this stop
	Error   []float64 // |Coord[i] - Nearest[i]|
	From    []int32   // index into the previous axis, or staleFrom
}

func newRuler(n int) *Ruler {
	return &Ruler{
		Coord:   make([]float64, n),
		Nearest: make([]float64, n),
		Error:   make([]float64, n),
		From:    make([]int32, n),
	}
}

func (r *Ruler) Len() int { return len(r.Coord) }

// linearInit fills the ruler with an evenly spaced tiling of [start, end]
// and no inherited samples. Error is seeded to +Inf rather than 0: there
// is no old axis to have matched, so every stop must read as maximally
// stale (never "canonical") until something actually computes it, either
// View.Fill in one pass or repeated View.UpdateLines calls. Used when a
// View has no previous View to inherit from.
func (r *Ruler) linearInit(start, end float64) {
	n := r.Len()
	for j := 0; j < n; j++ {
		c := linearCoord(start, end, j, n)
		r.Coord[j] = c
		r.Nearest[j] = c
		r.Error[j] = math.Inf(1)
		r.From[j] = staleFrom
	}
}

func linearCoord(start, end float64, i, n int) float64 {
	if n <= 1 {
		return start
	}
	return start + (end-start)*float64(i)/float64(n-1)
}

// MakeRuler builds a new axis mapping of length n over [start, end] against
// a previous axis's chosen samples (oldNearest) and their residual errors
// (oldError, accepted for signature symmetry with the Ruler fields; the
// single-sweep nearest-sample search below does not need it). It returns
// the Ruler and the count of stops for which the residual error is exactly
// zero.
//
// Single forward sweep with two cursors, O(n+m): for each new stop, the old
// cursor advances only while doing so strictly improves (or ties, breaking
// toward advancing) the distance to the candidate old sample.
func MakeRuler(start, end float64, n int, oldNearest, oldError []float64) (*Ruler, int) {
	r := newRuler(n)
	m := len(oldNearest)

	iOld := 0
	exact := 0
	for iNew := 0; iNew < n; iNew++ {
		curr := linearCoord(start, end, iNew, n)

		for iOld < m-1 && math.Abs(curr-oldNearest[iOld+1]) <= math.Abs(curr-oldNearest[iOld]) {
			iOld++
		}

		var nearest float64
		if m > 0 {
			nearest = oldNearest[iOld]
		} else {
			nearest = curr
		}
		err := math.Abs(curr - nearest)

		r.Coord[iNew] = curr
		r.Nearest[iNew] = nearest
		r.Error[iNew] = err
		r.From[iNew] = int32(iOld)
		if m == 0 {
			r.From[iNew] = staleFrom
		}
		if err == 0 {
			exact++
		}
	}
	return r, exact
}

// markDuplicates resolves every maximal run of consecutive stops that share
// the same From value down to a single retained stop: the one with the
// smallest Error. All others in the run are set to staleFrom. This is the
// outcome the spec describes as two adjacent-pair sweeps (forward then
// backward); scanning whole runs directly reaches the same result without
// the pass-order edge cases a naive adjacent-pair rewrite has on runs of
// three or more.
func (r *Ruler) markDuplicates() {
	n := r.Len()
	i := 0
	for i < n {
		if r.From[i] == staleFrom {
			i++
			continue
		}
		j := i + 1
		for j < n && r.From[j] == r.From[i] {
			j++
		}
		if j-i > 1 {
			best := i
			for k := i + 1; k < j; k++ {
				if r.Error[k] < r.Error[best] {
					best = k
				}
			}
			for k := i; k < j; k++ {
				if k != best {
					r.From[k] = staleFrom
				}
			}
		}
		i = j
	}
}

// exactCount returns the number of stops whose Error is exactly zero.
func (r *Ruler) exactCount() int {
	n := 0
	for _, e := range r.Error {
		if e == 0 {
			n++
		}
	}
	return n
}

// worst returns the index and error of the stop with the largest residual
// error. Stops marked staleFrom are treated as having effectively infinite
// error so UpdateLines always prefers a stale duplicate over a merely
// imprecise-but-canonical stop.
func (r *Ruler) worst() (idx int, errVal float64) {
	idx = -1
	errVal = -1
	for i, e := range r.Error {
		w := e
		if !r.canonical(i) {
			w = math.Inf(1)
		}
		if w > errVal {
			errVal = w
			idx = i
		}
	}
	return idx, errVal
}

// canonical reports whether stop i is canonical: either its error is
// already zero, or it is not a stale duplicate. worst() ranks every
// non-canonical stop above all canonical ones, and updateColumn/updateRow
// call calc only at canonical stops, carrying the last computed value
// across the others.
func (r *Ruler) canonical(i int) bool {
	return r.Error[i] == 0 || r.From[i] != staleFrom
}
