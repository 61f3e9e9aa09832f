package zoomcore

import "testing"

// property 8: allocating N frames of identical dimensions, releasing them
// all, then reallocating N yields the same N buffer identities back.
func TestPoolReuse(t *testing.T) {
	const n = 5
	p := newFramePool()

	frames := make([]*Frame, n)
	for i := range frames {
		frames[i] = p.alloc(32, 32, 32, 32)
	}

	seen := make(map[*Frame]bool, n)
	for _, f := range frames {
		seen[f] = true
		p.release(f)
	}

	got := make(map[*Frame]bool, n)
	for i := 0; i < n; i++ {
		got[p.alloc(32, 32, 32, 32)] = true
	}

	if len(got) != n {
		t.Fatalf("got %d distinct frames back, want %d", len(got), n)
	}
	for f := range got {
		if !seen[f] {
			t.Fatalf("reallocated frame %p was not one of the original %d", f, n)
		}
	}
}

func TestPoolDiscardsMismatchedDimensions(t *testing.T) {
	p := newFramePool()
	f := p.alloc(16, 16, 16, 16)
	p.release(f)

	// A request for different dimensions must not receive the mismatched
	// entry sitting in the pool.
	other := p.alloc(32, 32, 32, 32)
	if other == f {
		t.Fatalf("alloc returned a frame with the wrong dimensions")
	}
	if other.PixelW != 32 || other.PixelH != 32 {
		t.Fatalf("alloc returned dims %dx%d, want 32x32", other.PixelW, other.PixelH)
	}
}
