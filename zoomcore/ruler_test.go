package zoomcore

import (
	"math"
	"testing"
)

// property 1: coord is strictly monotonic and error is never negative.
func TestRulerMonotonicityAndNonNegativeError(t *testing.T) {
	cases := []struct {
		name             string
		start, end       float64
		n                int
		oldNearest       []float64
		oldError         []float64
	}{
		{"no-previous", -1, 1, 17, nil, nil},
		{"fine-to-coarse", -1, 1, 8, linspace(-1, 1, 32), make([]float64, 32)},
		{"coarse-to-fine", -1, 1, 64, linspace(-1, 1, 8), make([]float64, 8)},
		{"negative-range", 3, -3, 20, linspace(-3, 3, 20), make([]float64, 20)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := MakeRuler(tc.start, tc.end, tc.n, tc.oldNearest, tc.oldError)
			ascending := tc.end >= tc.start
			for i := 1; i < r.Len(); i++ {
				if ascending && r.Coord[i] <= r.Coord[i-1] {
					t.Fatalf("coord not strictly increasing at %d: %v <= %v", i, r.Coord[i], r.Coord[i-1])
				}
				if !ascending && r.Coord[i] >= r.Coord[i-1] {
					t.Fatalf("coord not strictly decreasing at %d: %v >= %v", i, r.Coord[i], r.Coord[i-1])
				}
			}
			for i, e := range r.Error {
				if e < 0 {
					t.Fatalf("error[%d] = %v, want >= 0", i, e)
				}
			}
		})
	}
}

// property 2: when every new coord coincides with an old sample, every
// error is exactly zero and the returned count equals n.
func TestRulerExactMatchPreservation(t *testing.T) {
	n := 16
	oldNearest := linspace(-2, 2, n)
	oldError := make([]float64, n)

	r, exact := MakeRuler(-2, 2, n, oldNearest, oldError)
	if exact != n {
		t.Fatalf("exact = %d, want %d", exact, n)
	}
	for i, e := range r.Error {
		if e != 0 {
			t.Fatalf("error[%d] = %v, want 0", i, e)
		}
	}
}

// property 3: after markDuplicates, every maximal run of stops sharing a
// From value retains exactly one non-stale stop, and it is the one with
// the smallest error in that run.
func TestRulerMarkDuplicatesLaw(t *testing.T) {
	r := &Ruler{
		Coord:   []float64{0, 1, 2, 3, 4, 5},
		Nearest: []float64{0, 0, 0, 3, 3, 5},
		Error:   []float64{0.4, 0.1, 0.9, 0.2, 0.05, 0},
		From:    []int32{2, 2, 2, 7, 7, 9},
	}
	r.markDuplicates()

	checkRun := func(indices []int, wantBest int) {
		kept := -1
		for _, i := range indices {
			if r.From[i] != staleFrom {
				if kept != -1 {
					t.Fatalf("run %v: more than one retained stop (%d and %d)", indices, kept, i)
				}
				kept = i
			}
		}
		if kept != wantBest {
			t.Fatalf("run %v: kept %d, want %d (smallest error)", indices, kept, wantBest)
		}
	}
	checkRun([]int{0, 1, 2}, 1) // error 0.1 is smallest among 0.4/0.1/0.9
	checkRun([]int{3, 4}, 4)    // error 0.05 < 0.2

	if r.From[5] != 9 {
		t.Fatalf("singleton run at index 5 was altered: From = %d", r.From[5])
	}
}

func TestRulerWorstPrioritizesStaleDuplicates(t *testing.T) {
	r := &Ruler{
		Coord:   []float64{0, 1, 2},
		Nearest: []float64{0, 1, 2},
		Error:   []float64{0.01, 0.5, 0.2},
		From:    []int32{staleFrom, 1, 2},
	}
	idx, errVal := r.worst()
	if idx != 0 {
		t.Fatalf("worst() idx = %d, want 0 (the stale stop, despite its low numeric error)", idx)
	}
	if !math.IsInf(errVal, 1) {
		t.Fatalf("worst() errVal = %v, want +Inf", errVal)
	}
}

func TestRulerWorstAllCanonicalPicksLargestError(t *testing.T) {
	r := &Ruler{
		Coord:   []float64{0, 1, 2},
		Nearest: []float64{0, 1, 2},
		Error:   []float64{0.01, 0.5, 0.2},
		From:    []int32{0, 1, 2},
	}
	idx, errVal := r.worst()
	if idx != 1 || errVal != 0.5 {
		t.Fatalf("worst() = (%d, %v), want (1, 0.5)", idx, errVal)
	}
}

func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = linearCoord(start, end, i, n)
	}
	return out
}
