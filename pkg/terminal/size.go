package terminal

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// PixelSize is a size in pixels.
type PixelSize struct {
	X int
	Y int
}

// Contains reports whether other fits inside this size in both dimensions.
func (p PixelSize) Contains(other PixelSize) bool {
	return other.X <= p.X && other.Y <= p.Y
}

// Size is the terminal window size. Pixels is nil when the terminal does
// not report pixel dimensions; image protocols that need them degrade to
// link rendering in that case.
type Size struct {
	Columns int
	Rows    int
	Pixels  *PixelSize
}

// DefaultSize is assumed when the size cannot be detected at all.
func DefaultSize() Size {
	return Size{Columns: 80, Rows: 24}
}

// DetectSize queries the terminal attached to f, falling back to the
// COLUMNS/LINES environment and finally to 80x24.
func DetectSize(f *os.File) Size {
	size := DefaultSize()
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		size.Columns = cols
	}
	if rows, err := strconv.Atoi(os.Getenv("LINES")); err == nil && rows > 0 {
		size.Rows = rows
	}
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return size
	}
	if cols, rows, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 && rows > 0 {
		size.Columns = cols
		size.Rows = rows
	}
	size.Pixels = detectPixels(f)
	return size
}
