// bookmark.go - copy/paste the current view as a plain-text bookmark
// string, generalizing the teacher's handleClipboardPaste from terminal
// text input to view coordinates.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

func initClipboard() bool {
	clipboardOnce.Do(func() {
		clipboardOK = clipboard.Init() == nil
	})
	return clipboardOK
}

// FormatBookmark renders a Position as "cx,cy,radius,angle".
func FormatBookmark(p Position) string {
	return fmt.Sprintf("%.17g,%.17g,%.17g,%.17g", p.CenterX, p.CenterY, p.Radius, p.AngleDeg)
}

// ParseBookmark parses the inverse of FormatBookmark. Malformed or
// partial text (e.g. a paste from something else entirely) is rejected
// rather than partially applied.
func ParseBookmark(s string) (Position, bool) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) != 4 {
		return Position{}, false
	}
	vals := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Position{}, false
		}
		vals[i] = v
	}
	return Position{CenterX: vals[0], CenterY: vals[1], Radius: vals[2], AngleDeg: vals[3]}, true
}

// CopyBookmark writes the current Position to the system clipboard as
// text. It is a no-op (not a fatal error) when no clipboard is
// available, matching the teacher's clipboardOK fallback behavior.
func CopyBookmark(p Position) {
	if !initClipboard() {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(FormatBookmark(p)))
}

// PasteBookmark reads the clipboard and attempts to parse it as a
// bookmark, applying it to nav on success.
func PasteBookmark(nav *Navigator) bool {
	if !initClipboard() {
		return false
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return false
	}
	pos, ok := ParseBookmark(string(data))
	if !ok {
		return false
	}
	nav.Set(pos)
	return true
}
