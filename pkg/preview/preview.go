/*
Package preview renders images in the terminal so script results can be
inspected without leaving the shell. It supports the Kitty graphics protocol,
iTerm2 inline images, Sixel and a Unicode halfblocks fallback that works
everywhere.

	out, err := preview.New(img).Width(60).Protocol(preview.Auto).Render()
*/
package preview

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/nfnt/resize"
	"golang.org/x/term"
)

// Default terminal geometry when it cannot be queried
const (
	DefaultCols       = 80
	DefaultRows       = 24
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Protocol selects how pixels reach the terminal
type Protocol int

const (
	// Auto picks the best protocol the terminal advertises
	Auto Protocol = iota
	Halfblocks
	Sixel
	Kitty
	ITerm2
)

func (p Protocol) String() string {
	switch p {
	case Auto:
		return "auto"
	case Halfblocks:
		return "halfblocks"
	case Sixel:
		return "sixel"
	case Kitty:
		return "kitty"
	case ITerm2:
		return "iterm2"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// ParseProtocol maps a flag value to a Protocol
func ParseProtocol(s string) (Protocol, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "halfblocks", "blocks":
		return Halfblocks, nil
	case "sixel":
		return Sixel, nil
	case "kitty":
		return Kitty, nil
	case "iterm2", "iterm":
		return ITerm2, nil
	default:
		return Auto, fmt.Errorf("unknown protocol %q", s)
	}
}

// Preview is a terminal rendering of an image with a fluent configuration API
type Preview struct {
	source   image.Image
	width    int
	height   int
	protocol Protocol
	dither   bool
	colors   int
}

// New creates a Preview of img
func New(img image.Image) *Preview {
	return &Preview{
		source:   img,
		protocol: Auto,
		colors:   256,
	}
}

// Width sets the maximum width in character cells; 0 fits the terminal
func (p *Preview) Width(w int) *Preview {
	p.width = max(w, 0)
	return p
}

// Height sets the maximum height in character cells; 0 fits the terminal
func (p *Preview) Height(h int) *Preview {
	p.height = max(h, 0)
	return p
}

// Protocol sets the output protocol
func (p *Preview) Protocol(proto Protocol) *Preview {
	p.protocol = proto
	return p
}

// Dither enables error diffusion when the palette is reduced (sixel only)
func (p *Preview) Dither(d bool) *Preview {
	p.dither = d
	return p
}

// Colors sets the sixel palette size, clamped to [2, 256]
func (p *Preview) Colors(n int) *Preview {
	p.colors = min(max(n, 2), 256)
	return p
}

// Render returns the escape sequence or text drawing the image
func (p *Preview) Render() (string, error) {
	if p.source == nil {
		return "", fmt.Errorf("image cannot be nil")
	}
	bounds := p.source.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("image is empty")
	}

	cols, rows := p.cells()
	proto := p.protocol
	if proto == Auto {
		proto = Detect()
	}

	var (
		out string
		err error
	)
	switch proto {
	case Halfblocks:
		out = renderHalfblocks(p.source, cols, rows)
	case Sixel:
		out, err = renderSixel(p.fit(cols, rows), p.colors, p.dither)
	case Kitty:
		out, err = renderKitty(p.fit(cols, rows))
	case ITerm2:
		out, err = renderITerm2(p.fit(cols, rows))
	default:
		return "", fmt.Errorf("unsupported protocol: %s", proto)
	}
	if err != nil {
		return "", err
	}
	if proto != Halfblocks && inTmux() {
		out = wrapTmux(out)
	}
	return out, nil
}

// Print writes the rendering to w
func (p *Preview) Print(w io.Writer) error {
	out, err := p.Render()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// cells resolves the target size in character cells
func (p *Preview) cells() (cols, rows int) {
	cols, rows = p.width, p.height
	if cols > 0 && rows > 0 {
		return cols, rows
	}
	tw, th, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || tw <= 0 || th <= 0 {
		tw, th = DefaultCols, DefaultRows
	}
	if cols == 0 {
		cols = tw
	}
	if rows == 0 {
		// leave a line for the prompt
		rows = max(th-1, 1)
	}
	return cols, rows
}

// fit scales the source down to the pixel box covered by cols×rows cells,
// keeping the aspect ratio. Images that already fit are returned as is.
func (p *Preview) fit(cols, rows int) image.Image {
	maxW := uint(cols * DefaultCellWidth)
	maxH := uint(rows * DefaultCellHeight)
	bounds := p.source.Bounds()
	if uint(bounds.Dx()) <= maxW && uint(bounds.Dy()) <= maxH {
		return p.source
	}
	interp := resize.NearestNeighbor
	if bounds.Dx()*bounds.Dy() > int(maxW*maxH)*4 {
		interp = resize.Bilinear
	}
	return resize.Thumbnail(maxW, maxH, p.source, interp)
}
