package preview

import (
	"os"
	"strings"
)

// Detect picks the richest protocol the environment advertises. Only
// environment variables are consulted; querying the terminal would consume
// input meant for the script.
func Detect() Protocol {
	switch {
	case KittySupported():
		return Kitty
	case ITerm2Supported():
		return ITerm2
	case SixelSupported():
		return Sixel
	default:
		return Halfblocks
	}
}

// KittySupported reports whether the terminal speaks the Kitty graphics protocol
func KittySupported() bool {
	termName := strings.ToLower(os.Getenv("TERM"))
	switch program := os.Getenv("TERM_PROGRAM"); {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return true
	case strings.Contains(termName, "kitty"):
		return true
	case program == "ghostty", program == "WezTerm", program == "rio":
		return true
	case strings.Contains(os.Getenv("TERMINFO"), "Ghostty"):
		return true
	default:
		return false
	}
}

// ITerm2Supported reports whether the terminal accepts iTerm2 inline images
func ITerm2Supported() bool {
	return os.Getenv("TERM_PROGRAM") == "iTerm.app" || os.Getenv("LC_TERMINAL") == "iTerm2"
}

// SixelSupported reports whether the terminal is known to render sixel
func SixelSupported() bool {
	termName := strings.ToLower(os.Getenv("TERM"))
	for _, name := range []string{"sixel", "mlterm", "foot", "yaft", "st-256color"} {
		if strings.Contains(termName, name) {
			return true
		}
	}
	if strings.Contains(termName, "xterm") && os.Getenv("XTERM_VERSION") != "" {
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "mintty", "mlterm":
		return true
	default:
		return false
	}
}

func inTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// wrapTmux wraps a sequence in tmux passthrough, doubling inner escapes
func wrapTmux(seq string) string {
	return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}
