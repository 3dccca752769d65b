package imgrt

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/blacktop/go-imgrt/pkg/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(width, height int, c uint8) *raster.Raster {
	r := raster.New(width, height)
	for y := range height {
		for x := range width {
			r.Set(x, y, raster.RGB{R: c, G: c, B: c})
		}
	}
	return r
}

func createTestRaster(width, height int) *raster.Raster {
	r := raster.New(width, height)
	for y := range height {
		for x := range width {
			r.Set(x, y, raster.RGB{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: uint8((x*37 + y*11) % 256),
			})
		}
	}
	return r
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want uint8
	}{
		{name: "in range", in: 12, want: 12},
		{name: "truncates", in: 12.99, want: 12},
		{name: "negative fraction", in: -0.5, want: 0},
		{name: "below", in: -40, want: 0},
		{name: "above", in: 400, want: 255},
		{name: "upper edge", in: 255, want: 255},
		{name: "just below upper edge", in: 254.9, want: 254},
		{name: "NaN", in: math.NaN(), want: 0},
		{name: "+Inf", in: math.Inf(1), want: 255},
		{name: "-Inf", in: math.Inf(-1), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clamp(tt.in))
		})
	}
}

func TestLoadMissing(t *testing.T) {
	assert.Nil(t, Load(filepath.Join(t.TempDir(), "missing.png")))
	assert.Nil(t, Load(""))
}

func TestLoadUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))
	assert.Nil(t, Load(path))
}

func TestSaveNullWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, Save(nil, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file should be created")
}

func TestSaveAndLoad(t *testing.T) {
	src := createTestRaster(5, 3)
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, Save(src, path))

	got := Load(path)
	require.NotNil(t, got)
	assert.True(t, src.Equal(got))
}

func TestDimensions(t *testing.T) {
	assert.Equal(t, 0, Width(nil))
	assert.Equal(t, 0, Height(nil))
	img := raster.New(7, 3)
	assert.Equal(t, 7, Width(img))
	assert.Equal(t, 3, Height(img))
}

func TestGetPixel(t *testing.T) {
	assert.Equal(t, Color{}, GetPixel(nil, 3, 4))

	img := raster.New(2, 2)
	img.Set(1, 1, raster.RGB{R: 9, G: 8, B: 7})
	assert.Equal(t, Color{R: 9, G: 8, B: 7}, GetPixel(img, 1, 1))
}

func TestPowChannels(t *testing.T) {
	assert.Nil(t, PowChannels(nil, 2))

	img := raster.New(3, 1)
	img.Set(0, 0, raster.RGB{R: 0, G: 255, B: 128})
	img.Set(1, 0, raster.RGB{R: 64, G: 200, B: 10})

	tests := []struct {
		name  string
		gamma float64
	}{
		{name: "identity", gamma: 1},
		{name: "darken", gamma: 2.2},
		{name: "brighten", gamma: 0.5},
		{name: "zero", gamma: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := PowChannels(img, tt.gamma)
			require.NotSame(t, img, out)
			for x := 0; x < img.Width(); x++ {
				in := img.At(x, 0)
				got := out.At(x, 0)
				want := func(c uint8) uint8 {
					return clamp(255 * math.Pow(float64(c)/255, tt.gamma))
				}
				assert.Equal(t, want(in.R), got.R)
				assert.Equal(t, want(in.G), got.G)
				assert.Equal(t, want(in.B), got.B)
			}
		})
	}

	// gamma 1 keeps every channel (255*(c/255) may land just under c, but never over)
	id := PowChannels(uniform(1, 1, 255), 1)
	assert.Equal(t, raster.RGB{R: 255, G: 255, B: 255}, id.At(0, 0))

	// 0^negative is +Inf which clamps to 255
	neg := PowChannels(uniform(1, 1, 0), -1)
	assert.Equal(t, raster.RGB{R: 255, G: 255, B: 255}, neg.At(0, 0))

	// gamma 2 on 128: 255*(128/255)^2 = 64.25 -> 64
	sq := PowChannels(uniform(1, 1, 128), 2)
	assert.Equal(t, uint8(64), sq.At(0, 0).R)
}

func TestBlurSmallRadiusCopies(t *testing.T) {
	img := createTestRaster(6, 4)
	for _, radius := range []float64{0, -1, -0.5} {
		out := Blur(img, radius)
		require.NotNil(t, out)
		assert.NotSame(t, img, out, "radius %v must allocate", radius)
		assert.True(t, img.Equal(out), "radius %v must copy pixels", radius)
	}
	assert.Nil(t, Blur(nil, 3))
}

func TestBlurFractionalRadiusRoundsUp(t *testing.T) {
	img := createTestRaster(5, 5)
	assert.True(t, Blur(img, 0.2).Equal(Blur(img, 1)))
	assert.True(t, Blur(img, 1.5).Equal(Blur(img, 2)))
}

func TestBlurUniformIsStable(t *testing.T) {
	img := uniform(5, 4, 77)
	assert.True(t, img.Equal(Blur(img, 2)))
}

func TestBlurClippedWindow(t *testing.T) {
	// 3x1 strip: 0, 90, 255
	img := raster.New(3, 1)
	img.Set(0, 0, raster.RGB{R: 0})
	img.Set(1, 0, raster.RGB{R: 90})
	img.Set(2, 0, raster.RGB{R: 255})

	out := Blur(img, 1)
	// edges average over two pixels, the middle over three
	assert.Equal(t, uint8((0+90)/2), out.At(0, 0).R)
	assert.Equal(t, uint8((0+90+255)/3), out.At(1, 0).R)
	assert.Equal(t, uint8((90+255)/2), out.At(2, 0).R)

	// a window larger than the image covers everything
	huge := Blur(img, 1e9)
	for x := range 3 {
		assert.Equal(t, uint8((0+90+255)/3), huge.At(x, 0).R)
	}
	inf := Blur(img, math.Inf(1))
	assert.True(t, huge.Equal(inf))
}

func TestBlurCorner(t *testing.T) {
	img := createTestRaster(4, 4)
	out := Blur(img, 1)

	var sum int
	for y := 0; y <= 1; y++ {
		for x := 0; x <= 1; x++ {
			sum += int(img.At(x, y).B)
		}
	}
	assert.Equal(t, uint8(sum/4), out.At(0, 0).B)
}

func TestAvg(t *testing.T) {
	assert.Equal(t, 0.0, Avg(nil))
	assert.Equal(t, 0.0, Avg(raster.New(0, 5)))

	for _, c := range []uint8{0, 1, 127, 200, 255} {
		assert.Equal(t, float64(c), Avg(uniform(3, 2, c)))
	}

	// floor((1+1+2)/3) = 1 and floor((0+0+0)/3) = 0
	img := raster.New(2, 1)
	img.Set(0, 0, raster.RGB{R: 1, G: 1, B: 2})
	assert.Equal(t, 0.5, Avg(img))
}

func TestAddImages(t *testing.T) {
	a := createTestRaster(4, 4)
	assert.Nil(t, AddImages(nil, nil))
	assert.Same(t, a, AddImages(a, nil))
	assert.Same(t, a, AddImages(nil, a))

	b := uniform(4, 4, 200)
	ab := AddImages(a, b)
	ba := AddImages(b, a)
	assert.True(t, ab.Equal(ba), "addition must commute")

	for y := range 4 {
		for x := range 4 {
			p, q := a.At(x, y), b.At(x, y)
			assert.Equal(t, uint8(min(int(p.R)+int(q.R), 255)), ab.At(x, y).R)
		}
	}
}

func TestAddImagesIntersection(t *testing.T) {
	out := AddImages(raster.New(4, 4), raster.New(2, 6))
	assert.Equal(t, 2, out.Width())
	assert.Equal(t, 4, out.Height())
}

func TestSubImages(t *testing.T) {
	a := createTestRaster(4, 3)
	assert.Nil(t, SubImages(nil, a))
	assert.Nil(t, SubImages(nil, nil))
	assert.Same(t, a, SubImages(a, nil))

	b := uniform(5, 2, 100)
	ab := SubImages(a, b)
	ba := SubImages(b, a)
	assert.Equal(t, 4, ab.Width())
	assert.Equal(t, 2, ab.Height())
	assert.True(t, ab.Equal(ba), "absolute difference must be symmetric")

	self := SubImages(a, a)
	assert.Equal(t, 0.0, Avg(self))

	c := uniform(1, 1, 10)
	d := uniform(1, 1, 250)
	assert.Equal(t, raster.RGB{R: 240, G: 240, B: 240}, SubImages(c, d).At(0, 0))
}

func TestMulImageScalar(t *testing.T) {
	assert.Nil(t, MulImageScalar(nil, 2))

	out := MulImageScalar(uniform(1, 1, 200), 2.0)
	assert.Equal(t, raster.RGB{R: 255, G: 255, B: 255}, out.At(0, 0))

	half := MulImageScalar(uniform(1, 1, 101), 0.5)
	assert.Equal(t, uint8(50), half.At(0, 0).R)

	neg := MulImageScalar(uniform(1, 1, 101), -3)
	assert.Equal(t, uint8(0), neg.At(0, 0).R)
}

func TestKernelsDoNotMutateInputs(t *testing.T) {
	a := createTestRaster(5, 5)
	b := createTestRaster(5, 5)
	before := a.Clone()

	PowChannels(a, 2)
	Blur(a, 2)
	Avg(a)
	AddImages(a, b)
	SubImages(a, b)
	MulImageScalar(a, 3)

	assert.True(t, before.Equal(a))
}
