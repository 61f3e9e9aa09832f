// surface.go - ebiten-backed Surface: window lifecycle, resize detection
// and keyboard/mouse navigation input, grounded on EbitenOutput in the
// teacher's video_backend_ebiten.go.

package main

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenSurface implements zoomcore.Surface over an ebiten.Image and
// doubles as the ebiten.Game driving the window's event loop. Resize is
// detected the same way the teacher's Layout does: ebiten calls Layout
// with the new outer size every frame, and the Zoomer's next COPY polls
// Size() to notice the change.
type EbitenSurface struct {
	nav *Navigator

	mu     sync.RWMutex
	rgba   []byte
	viewW  int
	viewH  int
	window *ebiten.Image

	onScreenshot func()
	onCopy       func()
	onPaste      func()
}

func NewEbitenSurface(nav *Navigator, w, h int) *EbitenSurface {
	return &EbitenSurface{nav: nav, viewW: w, viewH: h}
}

func (s *EbitenSurface) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewW, s.viewH
}

func (s *EbitenSurface) PutImageData(rgba []byte, viewW, viewH int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rgba == nil || len(s.rgba) != len(rgba) {
		s.rgba = make([]byte, len(rgba))
	}
	copy(s.rgba, rgba)
	s.viewW, s.viewH = viewW, viewH
}

func (s *EbitenSurface) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	s.handleNavigation()
	return nil
}

// handleNavigation maps arrow keys to panning, +/- to zoom, [ and ] to
// rotation when angle support is enabled, matching the teacher's
// held-key-per-Update polling style in handleKeyboardInput rather than
// a one-shot event queue.
func (s *EbitenSurface) handleNavigation() {
	const panStep = 0.04
	const zoomStep = 1.05

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		if s.onPaste != nil {
			s.onPaste()
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if s.onCopy != nil {
			s.onCopy()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if s.onScreenshot != nil {
			s.onScreenshot()
		}
	}

	radius := s.nav.Snapshot().Radius
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		s.nav.Pan(-panStep*radius, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		s.nav.Pan(panStep*radius, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		s.nav.Pan(0, -panStep*radius)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		s.nav.Pan(0, panStep*radius)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyNumpadAdd) {
		s.nav.Zoom(1 / zoomStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyNumpadSubtract) {
		s.nav.Zoom(zoomStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyBracketLeft) {
		s.nav.Rotate(-1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyBracketRight) {
		s.nav.Rotate(1)
	}
}

func (s *EbitenSurface) Draw(screen *ebiten.Image) {
	s.mu.RLock()
	w, h, rgba := s.viewW, s.viewH, s.rgba
	s.mu.RUnlock()
	if w <= 0 || h <= 0 || len(rgba) != w*h*4 {
		return
	}
	if s.window == nil || s.window.Bounds().Dx() != w || s.window.Bounds().Dy() != h {
		s.window = ebiten.NewImage(w, h)
	}
	s.window.WritePixels(rgba)
	screen.DrawImage(s.window, nil)
}

func (s *EbitenSurface) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.mu.Lock()
	s.viewW, s.viewH = outsideWidth, outsideHeight
	s.mu.Unlock()
	return outsideWidth, outsideHeight
}

// Snapshot returns a copy of the currently painted RGBA buffer and its
// dimensions, for screenshot export.
func (s *EbitenSurface) Snapshot() (rgba []byte, w, h int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]byte, len(s.rgba))
	copy(out, s.rgba)
	return out, s.viewW, s.viewH
}
