// main.go - zoomdemo: a live ebiten viewer for the zoomcore progressive
// reprojection engine. Flag shape grounded on the retrieval pack's
// whalelogic-mandelbrot CLI (width/height/center/radius/iters/palette
// flags); wiring shape grounded on the teacher's main.go + Start/Run
// split in video_backend_ebiten.go.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/fractalforge/zoomcore"
	"github.com/fractalforge/zoomcore/internal/alert"
	"github.com/fractalforge/zoomcore/internal/fractalfn"
)

func main() {
	width := flag.Int("width", 800, "window width in pixels")
	height := flag.Int("height", 600, "window height in pixels")
	centerX := flag.Float64("cx", -0.5, "initial center real coordinate")
	centerY := flag.Float64("cy", 0, "initial center imaginary coordinate")
	radius := flag.Float64("radius", 1.5, "initial view radius")
	iters := flag.Int("iters", 512, "max Mandelbrot iteration count")
	paletteName := flag.String("palette", "fire", "palette: fire, ocean, or mono")
	frameRate := flag.Float64("fps", 30, "target frame rate")
	enableAngle := flag.Bool("rotate", false, "enable rotation input ([ and ])")
	screenshotDir := flag.String("screenshot-dir", ".", "directory screenshots are written to")
	flag.Parse()

	nav := NewNavigator(*centerX, *centerY, *radius, 0, *enableAngle)
	surface := NewEbitenSurface(nav, *width, *height)
	status := NewStatusLine()

	calc := fractalfn.Mandelbrot(*iters)
	palette := fractalfn.Palette(*paletteName, *iters)
	pixelFn := func(zm *zoomcore.Zoomer, f *zoomcore.Frame, x, y float64) uint32 {
		return calc(x, y)
	}

	chirp, chirpErr := alert.New()
	if chirpErr != nil {
		fmt.Fprintf(os.Stderr, "zoomdemo: audio disabled: %v\n", chirpErr)
	}
	wasAtLimit := false

	cfg := zoomcore.Config{FrameRate: *frameRate}
	cb := zoomcore.Callbacks{
		OnInitFrame: func(zm *zoomcore.Zoomer, f *zoomcore.Frame) {
			f.Palette = palette
		},
		OnBeginFrame: func(zm *zoomcore.Zoomer, calcView *zoomcore.View, calcFrame *zoomcore.Frame, dispView *zoomcore.View, dispFrame *zoomcore.Frame) {
			p := nav.Snapshot()
			if dispView == nil || dispView.Frame == nil {
				calcView.SetPosition(nil, p.CenterX, p.CenterY, p.Radius, p.AngleDeg, calcFrame)
				calcView.Fill(pixelFn, zm)
				return
			}
			calcView.SetPosition(dispView, p.CenterX, p.CenterY, p.Radius, p.AngleDeg, calcFrame)
		},
		OnUpdatePixel: pixelFn,
		OnEndFrame: func(zm *zoomcore.Zoomer, f *zoomcore.Frame) {
			atLimit := zm.ReachedLimits()
			if atLimit && !wasAtLimit && chirp != nil {
				chirp.Limit()
			}
			wasAtLimit = atLimit
			status.Print(zm.FrameRate(), zm.Dropped(), f.Stats.Quality, atLimit)
		},
	}

	zm, err := zoomcore.NewZoomer(surface, *enableAngle, cfg, cb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zoomdemo: %v\n", err)
		os.Exit(1)
	}

	surface.onCopy = func() { CopyBookmark(nav.Snapshot()) }
	surface.onPaste = func() { PasteBookmark(nav) }
	surface.onScreenshot = func() {
		rgba, w, h := surface.Snapshot()
		if w == 0 || h == 0 {
			return
		}
		name := filepath.Join(*screenshotDir, fmt.Sprintf("zoomdemo-%d", time.Now().UnixNano()))
		if err := SaveScreenshot(name, rgba, w, h, 1); err != nil {
			fmt.Fprintf(os.Stderr, "\nzoomdemo: screenshot failed: %v\n", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := zm.Run(ctx); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "zoomdemo: zoomer stopped: %v\n", err)
		}
	}()
	defer func() {
		cancel()
		zm.Close()
		if chirp != nil {
			chirp.Close()
		}
	}()

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("zoomdemo")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(surface); err != nil && err != ebiten.Termination {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
