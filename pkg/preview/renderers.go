package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/charmbracelet/x/mosaic"
	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/mattn/go-sixel"
	"github.com/soniakeys/quant/median"
)

// KittyChunkSize is the largest base64 payload per Kitty escape sequence
const KittyChunkSize = 4096

// renderHalfblocks draws two pixel rows per text row with ▀ cells
func renderHalfblocks(img image.Image, cols, rows int) string {
	bounds := img.Bounds()
	srcW, srcH := float64(bounds.Dx()), float64(bounds.Dy())

	// Each cell is one pixel wide and two pixels tall
	ratio := min(float64(cols)/srcW, float64(rows)*2/srcH)
	w := max(int(srcW*ratio), 1)
	h := max(int(srcH*ratio/2), 1)

	return mosaic.New().Width(w).Height(h).Render(img)
}

// renderSixel reduces the palette with median cut, optionally diffusing the
// error, and encodes the result as a sixel sequence.
func renderSixel(img image.Image, colors int, diffuse bool) (string, error) {
	palette := median.Quantizer(colors).Palette(img).ColorPalette()

	processed := img
	if diffuse {
		d := dither.NewDitherer(palette)
		d.Matrix = dither.FloydSteinberg
		processed = d.Dither(img)
	}

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Colors = colors
	enc.Dither = false
	if err := enc.Encode(processed); err != nil {
		return "", fmt.Errorf("failed to encode sixel: %w", err)
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("sixel encoding produced empty output")
	}
	return buf.String(), nil
}

// renderKitty transmits the image as PNG in base64 chunks
func renderKitty(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	chunks := chunkBase64(buf.Bytes(), KittyChunkSize)

	var out strings.Builder
	for i, chunk := range chunks {
		more := 1
		if i == len(chunks)-1 {
			more = 0
		}
		if i == 0 {
			fmt.Fprintf(&out, "\x1b_Ga=T,f=100,q=2,m=%d;%s\x1b\\", more, chunk)
		} else {
			fmt.Fprintf(&out, "\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
	}
	out.WriteString("\n")
	return out.String(), nil
}

// renderITerm2 sends the image inline as an OSC 1337 file transfer
func renderITerm2(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	bounds := img.Bounds()
	return fmt.Sprintf("\x1b]1337;File=inline=1;size=%d;width=%dpx;height=%dpx;preserveAspectRatio=1:%s\a\n",
		buf.Len(), bounds.Dx(), bounds.Dy(), base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

// chunkBase64 encodes data and splits the text into pieces of at most size bytes
func chunkBase64(data []byte, size int) []string {
	encoded := base64.StdEncoding.EncodeToString(data)
	chunks := make([]string, 0, (len(encoded)+size-1)/size)
	for i := 0; i < len(encoded); i += size {
		chunks = append(chunks, encoded[i:min(i+size, len(encoded))])
	}
	return chunks
}
