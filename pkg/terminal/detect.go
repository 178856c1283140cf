package terminal

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Detect builds the capability set for the terminal described by the
// environment, writing to w. Detection is purely environment-based; the
// renderer itself never probes the terminal.
func Detect(w io.Writer, extra ...Option) *Capabilities {
	opts := []Option{WithColorProfile(termenv.EnvColorProfile())}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	switch {
	case term == "xterm-kitty" || strings.Contains(strings.ToLower(term), "kitty"):
		opts = append(opts, WithImage(KittyImages{}), WithLinks(OSC8Links{}))
	case termProgram == "iTerm.app":
		opts = append(opts, WithImage(ITerm2Images{}), WithLinks(OSC8Links{}), WithMarks(ITerm2Marks{}))
	case os.Getenv("TERMINOLOGY") == "1":
		opts = append(opts, WithImage(TerminologyImages{}), WithLinks(OSC8Links{}))
	case supportsOSC8(termProgram):
		opts = append(opts, WithLinks(OSC8Links{}))
	}

	return NewCapabilities(w, append(opts, extra...)...)
}

// supportsOSC8 reports whether the terminal likely understands OSC 8
// hyperlinks even though it has no image protocol of its own.
func supportsOSC8(termProgram string) bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}
	if os.Getenv("DOMTERM") != "" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	switch termProgram {
	case "iTerm.app", "WezTerm", "vscode":
		return true
	}
	if vte := os.Getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}
