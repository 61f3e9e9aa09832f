// statusline.go - a single overwritten TTY status line (fps, drops,
// quality), generalizing the teacher's plain fmt.Printf("FPS: %0.2f\n",
// ...) in video_backend_ebiten.go's WaitForVSync into a fixed-width line
// sized to the terminal instead of scrolling the console.

package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const fallbackWidth = 80

// StatusLine prints one live-updated line of engine statistics to
// stderr, leaving stdout free for the program's own output.
type StatusLine struct {
	fd int
}

func NewStatusLine() *StatusLine {
	return &StatusLine{fd: int(os.Stderr.Fd())}
}

func (s *StatusLine) width() int {
	if !term.IsTerminal(s.fd) {
		return fallbackWidth
	}
	w, _, err := term.GetSize(s.fd)
	if err != nil || w <= 0 {
		return fallbackWidth
	}
	return w
}

// Print overwrites the current line with fresh statistics, padded or
// truncated to the terminal width.
func (s *StatusLine) Print(fps float64, dropped int, quality float64, reachedLimits bool) {
	line := fmt.Sprintf("fps %6.2f  dropped %5d  quality %5.2f%%  limit %v", fps, dropped, quality*100, reachedLimits)
	w := s.width()
	if len(line) > w {
		line = line[:w]
	} else {
		line += spaces(w - len(line))
	}
	fmt.Fprintf(os.Stderr, "\r%s", line)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
