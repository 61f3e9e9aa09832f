package zoomcore

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeSurface struct {
	mu     sync.Mutex
	w, h   int
	paints int
}

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{w: w, h: h}
}

func (s *fakeSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *fakeSurface) PutImageData(rgba []byte, viewW, viewH int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paints++
}

func (s *fakeSurface) setSize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w, s.h = w, h
}

func (s *fakeSurface) Paints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paints
}

func identityCallbacks(calc PixelFunc) Callbacks {
	return Callbacks{
		OnInitFrame: func(zm *Zoomer, f *Frame) {
			f.Palette = identityPalette()
		},
		OnBeginFrame: func(zm *Zoomer, calcView *View, calcFrame *Frame, dispView *View, dispFrame *Frame) {
			if dispView == nil || dispView.Frame == nil {
				calcView.SetPosition(nil, 0, 0, 2, 0, calcFrame)
				calcView.Fill(calc, zm)
				return
			}
			calcView.SetPosition(dispView, 0, 0, 2, 0, calcFrame)
		},
		OnUpdatePixel: calc,
	}
}

// A basic smoke test that the state machine actually delivers painted
// frames to the surface end to end, with workers enabled.
func TestZoomerRunPaintsFrames(t *testing.T) {
	surface := newFakeSurface(16, 16)
	calc := func(zm *Zoomer, f *Frame, x, y float64) uint32 { return 0 }
	// Nothing pokes the Zoomer here, so every UPDATE runs on the idle
	// burst; keep it well inside the Run window below.
	zm, err := NewZoomer(surface, false, Config{FrameRate: 60, UpdateSlice: 2, UpdateIdleBurst: 20}, identityCallbacks(calc))
	if err != nil {
		t.Fatalf("NewZoomer: %v", err)
	}
	defer zm.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = zm.Run(ctx)

	if surface.Paints() == 0 {
		t.Fatalf("expected at least one painted frame")
	}
}

func TestNewZoomerRejectsNilSurface(t *testing.T) {
	_, err := NewZoomer(nil, false, DefaultConfig(), Callbacks{})
	if err == nil {
		t.Fatalf("expected an error for a nil surface")
	}
	if _, ok := err.(*ZoomerError); !ok {
		t.Fatalf("expected a *ZoomerError, got %T", err)
	}
}

// scenario E, exercised directly: recordDrop is the sole place the
// adaptive throttling rule lives (two drops observed more than 2000 ms
// apart cut frame_rate by 5%). Driving it with synthetic timestamps
// instead of real sleeps in on_update_pixel avoids making this test's
// outcome depend on how the Go scheduler happens to interleave the
// mainloop goroutine against two render workers on a given machine.
func TestScenarioE_DropDetectionThrottles(t *testing.T) {
	surface := newFakeSurface(8, 8)
	zm, err := NewZoomer(surface, false, Config{FrameRate: 60}, Callbacks{})
	if err != nil {
		t.Fatalf("NewZoomer: %v", err)
	}
	defer zm.Close()

	initialRate := zm.FrameRate()

	first := time.Now()
	zm.recordDrop(first)
	if zm.Dropped() != 1 {
		t.Fatalf("cnt_dropped = %d, want 1", zm.Dropped())
	}
	if zm.FrameRate() != initialRate {
		t.Fatalf("a single drop must not throttle; frame_rate = %v, want %v", zm.FrameRate(), initialRate)
	}

	// Second drop less than 2000 ms after the first: no cut yet.
	zm.recordDrop(first.Add(500 * time.Millisecond))
	if zm.FrameRate() != initialRate {
		t.Fatalf("a close pair of drops must not throttle; frame_rate = %v, want %v", zm.FrameRate(), initialRate)
	}

	// Third drop more than 2000 ms after the second: must cut by 5%.
	second := first.Add(500 * time.Millisecond)
	third := second.Add(2100 * time.Millisecond)
	zm.recordDrop(third)

	want := initialRate * 0.95
	if zm.FrameRate() != want {
		t.Fatalf("frame_rate = %v, want %v after a >2s drop gap", zm.FrameRate(), want)
	}
	if zm.Dropped() != 3 {
		t.Fatalf("cnt_dropped = %d, want 3", zm.Dropped())
	}
}

func TestZoomerResizeRepopulatesFromOldDispView(t *testing.T) {
	surface := newFakeSurface(10, 10)
	calc := func(zm *Zoomer, f *Frame, x, y float64) uint32 { return 1 }
	zm, err := NewZoomer(surface, false, Config{FrameRate: 60, UpdateSlice: 2, UpdateIdleBurst: 20}, identityCallbacks(calc))
	if err != nil {
		t.Fatalf("NewZoomer: %v", err)
	}
	defer zm.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = zm.Run(ctx)
	if surface.Paints() == 0 {
		t.Fatalf("expected initial paints before resize")
	}

	surface.setSize(20, 20)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel2()
	_ = zm.Run(ctx2)

	if zm.calcView.ViewW != 20 || zm.calcView.ViewH != 20 {
		t.Fatalf("calc view dims = %dx%d, want 20x20", zm.calcView.ViewW, zm.calcView.ViewH)
	}
}
