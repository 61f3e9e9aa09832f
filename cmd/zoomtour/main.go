// main.go - zoomtour: drives zoomcore headlessly through a Lua keyframe
// script against a no-op Surface, overwriting one status line per frame.
// Wiring shape grounded on the teacher's main.go construction-then-run
// pattern, with the GUI frontend swapped for a no-op stats recorder.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fractalforge/zoomcore/internal/fractalfn"
	"github.com/fractalforge/zoomcore/zoomcore"
)

// noOpSurface satisfies zoomcore.Surface without a display: it reports a
// fixed size and only counts delivered frames, per SPEC_FULL.md §6's
// "headless no-op that just records stats".
type noOpSurface struct {
	w, h   int
	frames int
}

func (s *noOpSurface) Size() (int, int) { return s.w, s.h }
func (s *noOpSurface) PutImageData(rgba []byte, viewW, viewH int) {
	s.frames++
}

func main() {
	script := flag.String("script", "", "path to a Lua keyframe script (required)")
	width := flag.Int("width", 320, "virtual view width")
	height := flag.Int("height", 240, "virtual view height")
	iters := flag.Int("iters", 512, "max Mandelbrot iteration count")
	paletteName := flag.String("palette", "ocean", "palette: fire, ocean, or mono")
	frameRate := flag.Float64("fps", 30, "target frame rate")
	flag.Parse()

	if *script == "" {
		fmt.Fprintln(os.Stderr, "zoomtour: -script is required")
		os.Exit(2)
	}

	frames, err := LoadTour(*script)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	nav := NewNavigator(frames[0].CenterX, frames[0].CenterY, frames[0].Radius, frames[0].AngleDeg)
	surface := &noOpSurface{w: *width, h: *height}

	calc := fractalfn.Mandelbrot(*iters)
	palette := fractalfn.Palette(*paletteName, *iters)
	pixelFn := func(zm *zoomcore.Zoomer, f *zoomcore.Frame, x, y float64) uint32 {
		return calc(x, y)
	}

	cb := zoomcore.Callbacks{
		OnInitFrame: func(zm *zoomcore.Zoomer, f *zoomcore.Frame) {
			f.Palette = palette
		},
		OnBeginFrame: func(zm *zoomcore.Zoomer, calcView *zoomcore.View, calcFrame *zoomcore.Frame, dispView *zoomcore.View, dispFrame *zoomcore.Frame) {
			p := nav.snapshot()
			if dispView == nil || dispView.Frame == nil {
				calcView.SetPosition(nil, p.cx, p.cy, p.radius, p.angle, calcFrame)
				calcView.Fill(pixelFn, zm)
				return
			}
			calcView.SetPosition(dispView, p.cx, p.cy, p.radius, p.angle, calcFrame)
		},
		OnUpdatePixel: pixelFn,
		OnEndFrame: func(zm *zoomcore.Zoomer, f *zoomcore.Frame) {
			fmt.Fprintf(os.Stderr, "\rframe %7d  fps %6.2f  dropped %5d  quality %5.2f%%",
				surface.frames, zm.FrameRate(), zm.Dropped(), f.Stats.Quality*100)
		},
	}

	zm, err := zoomcore.NewZoomer(surface, true, zoomcore.Config{FrameRate: *frameRate}, cb)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zm.Close()

	for i, kf := range frames {
		nav.set(kf)
		zm.Poke()
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(kf.HoldMs)*time.Millisecond)
		if err := zm.Run(ctx); err != nil && err != context.DeadlineExceeded {
			cancel()
			fmt.Fprintf(os.Stderr, "\nzoomtour: keyframe %d: %v\n", i, err)
			os.Exit(1)
		}
		cancel()
	}

	fmt.Fprintf(os.Stderr, "\nzoomtour: done, %d keyframes, %d frames painted\n", len(frames), surface.frames)
}
