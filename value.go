package imgrt

import (
	"fmt"
	"math"
	"strconv"

	"github.com/blacktop/go-imgrt/pkg/raster"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	// NullKind is the zero Value: no image, no number
	NullKind Kind = iota
	IntegerKind
	FloatKind
	StringKind
	BooleanKind
	ImageKind
	ColorKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case IntegerKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case BooleanKind:
		return "bool"
	case ImageKind:
		return "image"
	case ColorKind:
		return "color"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Color is the channel record returned by get_pixel
type Color struct {
	R, G, B int
}

// Value is a runtime value of the scripting language. The zero Value is null.
type Value struct {
	kind  Kind
	i     int64
	f     float64
	s     string
	b     bool
	img   *raster.Raster
	color Color
}

// Null is the null value
var Null = Value{}

// Int wraps an integer
func Int(i int64) Value { return Value{kind: IntegerKind, i: i} }

// Float wraps a float
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }

// String wraps a string
func String(s string) Value { return Value{kind: StringKind, s: s} }

// Bool wraps a boolean
func Bool(b bool) Value { return Value{kind: BooleanKind, b: b} }

// ColorValue wraps a color record
func ColorValue(c Color) Value { return Value{kind: ColorKind, color: c} }

// Image wraps a raster. A nil raster yields Null.
func Image(r *raster.Raster) Value {
	if r == nil {
		return Null
	}
	return Value{kind: ImageKind, img: r}
}

// Kind returns the variant tag
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.kind == NullKind }

// AsInt returns the integer payload
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == IntegerKind }

// AsFloat returns the float payload
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == FloatKind }

// AsString returns the string payload
func (v Value) AsString() (string, bool) { return v.s, v.kind == StringKind }

// AsBool returns the boolean payload
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == BooleanKind }

// AsColor returns the color payload
func (v Value) AsColor() (Color, bool) { return v.color, v.kind == ColorKind }

// AsImage returns the raster owned by an image value
func (v Value) AsImage() (*raster.Raster, bool) { return v.img, v.kind == ImageKind }

// IsNumeric reports whether v is an integer or a float
func (v Value) IsNumeric() bool {
	return v.kind == IntegerKind || v.kind == FloatKind
}

// toFloat widens a numeric value. Anything else is not a number.
func (v Value) toFloat() (float64, bool) {
	switch v.kind {
	case IntegerKind:
		return float64(v.i), true
	case FloatKind:
		return v.f, true
	default:
		return 0, false
	}
}

// String renders v the way the language prints it
func (v Value) String() string {
	switch v.kind {
	case NullKind:
		return "null"
	case IntegerKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return formatFloat(v.f)
	case StringKind:
		return v.s
	case BooleanKind:
		if v.b {
			return "True"
		}
		return "False"
	case ImageKind:
		return fmt.Sprintf("image(%dx%d)", v.img.Width(), v.img.Height())
	case ColorKind:
		return fmt.Sprintf("color(%d, %d, %d)", v.color.R, v.color.G, v.color.B)
	default:
		return fmt.Sprintf("%%!(%s)", v.kind)
	}
}

// formatFloat prints the shortest round-trip decimal, switching to exponent
// form for very large and very small magnitudes.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs >= 1e15 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'E', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
