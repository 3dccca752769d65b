package imgrt

import (
	"math"

	"github.com/blacktop/go-imgrt/pkg/raster"
)

// Image kernels. A nil raster stands for the null image. Kernels never modify
// their inputs; every derived image is freshly allocated.

// clamp truncates toward zero and limits the result to a channel value
func clamp(v float64) uint8 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	case v <= 0:
		return 0
	default:
		return uint8(v)
	}
}

// Load decodes path into a raster. Any failure yields nil.
func Load(path string) *raster.Raster {
	img, err := raster.Open(path)
	if err != nil {
		return nil
	}
	return img
}

// Save persists img to path. Saving the null image does nothing.
func Save(img *raster.Raster, path string) error {
	if img == nil {
		return nil
	}
	return img.Save(path)
}

// Width returns the image width, 0 for the null image
func Width(img *raster.Raster) int {
	if img == nil {
		return 0
	}
	return img.Width()
}

// Height returns the image height, 0 for the null image
func Height(img *raster.Raster) int {
	if img == nil {
		return 0
	}
	return img.Height()
}

// GetPixel returns the pixel at (x, y). The caller keeps (x, y) in bounds.
func GetPixel(img *raster.Raster, x, y int) Color {
	if img == nil {
		return Color{}
	}
	c := img.At(x, y)
	return Color{R: int(c.R), G: int(c.G), B: int(c.B)}
}

// mapChannels applies fn to every channel of every pixel into a new raster
func mapChannels(src *raster.Raster, fn func(c uint8) uint8) *raster.Raster {
	dst := raster.New(src.Width(), src.Height())
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			c := src.At(x, y)
			dst.Set(x, y, raster.RGB{R: fn(c.R), G: fn(c.G), B: fn(c.B)})
		}
	}
	return dst
}

// PowChannels maps every channel through 255*(c/255)^gamma
func PowChannels(img *raster.Raster, gamma float64) *raster.Raster {
	if img == nil {
		return nil
	}
	return mapChannels(img, func(c uint8) uint8 {
		return clamp(255 * math.Pow(float64(c)/255, gamma))
	})
}

// MulImageScalar scales every channel by s
func MulImageScalar(img *raster.Raster, s float64) *raster.Raster {
	if img == nil {
		return nil
	}
	return mapChannels(img, func(c uint8) uint8 {
		return clamp(float64(c) * s)
	})
}

// Blur is a flat box filter of radius ceil(radius). Each output pixel is the
// integer mean of the source window clipped to the image bounds. A radius
// below one returns a copy.
func Blur(img *raster.Raster, radius float64) *raster.Raster {
	if img == nil {
		return nil
	}
	// ceil(radius) < 1 exactly when radius <= 0
	if math.IsNaN(radius) || radius <= 0 {
		return img.Clone()
	}

	w, h := img.Width(), img.Height()
	// Windows wider than the image all clip to the same area
	r := max(w, h, 1)
	if radius < float64(r) {
		r = int(math.Ceil(radius))
	}
	dst := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rSum, gSum, bSum, count int64
			for ky := max(y-r, 0); ky <= min(y+r, h-1); ky++ {
				for kx := max(x-r, 0); kx <= min(x+r, w-1); kx++ {
					c := img.At(kx, ky)
					rSum += int64(c.R)
					gSum += int64(c.G)
					bSum += int64(c.B)
					count++
				}
			}
			dst.Set(x, y, raster.RGB{
				R: uint8(rSum / count),
				G: uint8(gSum / count),
				B: uint8(bSum / count),
			})
		}
	}
	return dst
}

// Avg returns the mean over all pixels of floor((R+G+B)/3)
func Avg(img *raster.Raster) float64 {
	if img == nil {
		return 0
	}
	w, h := img.Width(), img.Height()
	if w == 0 || h == 0 {
		return 0
	}
	var sum int64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(x, y)
			sum += (int64(c.R) + int64(c.G) + int64(c.B)) / 3
		}
	}
	return float64(sum) / float64(w*h)
}

// combine builds a raster over the intersection of a and b
func combine(a, b *raster.Raster, fn func(x, y int) int) *raster.Raster {
	w := min(a.Width(), b.Width())
	h := min(a.Height(), b.Height())
	dst := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ca, cb := a.At(x, y), b.At(x, y)
			dst.Set(x, y, raster.RGB{
				R: clamp(float64(fn(int(ca.R), int(cb.R)))),
				G: clamp(float64(fn(int(ca.G), int(cb.G)))),
				B: clamp(float64(fn(int(ca.B), int(cb.B)))),
			})
		}
	}
	return dst
}

// AddImages sums channels over the common area of a and b. A null side
// yields the other side as is.
func AddImages(a, b *raster.Raster) *raster.Raster {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return combine(a, b, func(p, q int) int { return p + q })
}

// SubImages takes the absolute channel difference over the common area.
// A null a yields null; a null b yields a.
func SubImages(a, b *raster.Raster) *raster.Raster {
	if a == nil {
		return nil
	}
	if b == nil {
		return a
	}
	return combine(a, b, func(p, q int) int {
		if p < q {
			return q - p
		}
		return p - q
	})
}
