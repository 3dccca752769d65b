package raster

import (
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/soniakeys/quant/median"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format identifies an output codec
type Format int

const (
	PNG Format = iota
	JPEG
	GIF
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFor picks the codec from a file extension, defaulting to PNG
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return JPEG
	case ".gif":
		return GIF
	case ".bmp":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	default:
		return PNG
	}
}

// Encode writes the raster to w in the given format
func (r *Raster) Encode(w io.Writer, format Format) error {
	var err error
	switch format {
	case JPEG:
		err = jpeg.Encode(w, r.img, &jpeg.Options{Quality: 95})
	case GIF:
		// Median cut keeps the palette close to the source colors
		err = gif.Encode(w, r.img, &gif.Options{NumColors: 256, Quantizer: median.Quantizer(256)})
	case BMP:
		err = bmp.Encode(w, r.img)
	case TIFF:
		err = tiff.Encode(w, r.img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, r.img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save persists the raster to path, choosing the codec from the extension
func (r *Raster) Save(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := r.Encode(file, FormatFor(path)); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
