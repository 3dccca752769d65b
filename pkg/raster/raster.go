/*
Package raster provides the pixel buffer behind image values: a width×height grid
of 8-bit RGB pixels with bulk constructors, per-pixel access and file codecs.
*/
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotFound is returned by Open when the path does not exist
	ErrNotFound = errors.New("file not found")
	// ErrDecode is returned by Open when the file is not a supported image
	ErrDecode = errors.New("failed to decode image")
)

// RGB is a single pixel
type RGB struct {
	R, G, B uint8
}

// Raster is an RGB pixel grid. Pixels outside the grid read as black and
// writes outside the grid are dropped.
type Raster struct {
	img *image.RGBA
}

// New allocates a black raster of the given size
func New(width, height int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	// Alpha is always opaque; only RGB carries meaning.
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return &Raster{img: img}
}

// FromImage copies any image.Image into a new raster, dropping alpha
func FromImage(src image.Image) *Raster {
	bounds := src.Bounds()
	r := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			r.Set(x, y, RGB{R: c.R, G: c.G, B: c.B})
		}
	}
	return r
}

// Open decodes an image file into a new raster
func Open(path string) (*Raster, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty: %w", ErrNotFound)
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrDecode, err)
	}
	return FromImage(img), nil
}

// Width returns the number of columns
func (r *Raster) Width() int {
	return r.img.Rect.Dx()
}

// Height returns the number of rows
func (r *Raster) Height() int {
	return r.img.Rect.Dy()
}

// At returns the pixel at (x, y)
func (r *Raster) At(x, y int) RGB {
	c := r.img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Set writes the pixel at (x, y)
func (r *Raster) Set(x, y int, c RGB) {
	r.img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
}

// Clone returns a pixel-identical copy that shares no memory with r
func (r *Raster) Clone() *Raster {
	img := image.NewRGBA(r.img.Rect)
	copy(img.Pix, r.img.Pix)
	return &Raster{img: img}
}

// Equal reports whether both rasters have the same size and pixels
func (r *Raster) Equal(other *Raster) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Width() != other.Width() || r.Height() != other.Height() {
		return false
	}
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			if r.At(x, y) != other.At(x, y) {
				return false
			}
		}
	}
	return true
}

// Image exposes the raster as an image.Image for encoders and renderers.
// Callers must not modify it.
func (r *Raster) Image() image.Image {
	return r.img
}
