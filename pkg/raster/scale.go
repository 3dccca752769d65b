package raster

import (
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Fit returns a copy scaled down to fit within maxW×maxH with the aspect
// ratio kept. Rasters that already fit are returned unchanged.
func (r *Raster) Fit(maxW, maxH int) *Raster {
	w, h := r.Width(), r.Height()
	if w == 0 || h == 0 || (w <= maxW && h <= maxH) {
		return r
	}
	scale := min(float64(max(maxW, 1))/float64(w), float64(max(maxH, 1))/float64(h))
	return r.Scale(max(int(float64(w)*scale), 1), max(int(float64(h)*scale), 1))
}

// Scale returns a bilinear resampling of r at the given size
func (r *Raster) Scale(width, height int) *Raster {
	dst := New(width, height)
	xdraw.ApproxBiLinear.Scale(dst.img, dst.img.Bounds(), r.img, r.img.Bounds(), draw.Src, nil)
	return dst
}
