//go:build unix

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

// detectPixels reads the pixel dimensions from the tty winsize ioctl.
// Terminals that don't report them leave the fields zero.
func detectPixels(f *os.File) *PixelSize {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return nil
	}
	return &PixelSize{X: int(ws.Xpixel), Y: int(ws.Ypixel)}
}
