package imgrt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/blacktop/go-imgrt/pkg/raster"
)

// imageArg extracts an image-or-null argument; nil means null
func imageArg(fn string, v Value) (*raster.Raster, error) {
	switch v.kind {
	case ImageKind:
		return v.img, nil
	case NullKind:
		return nil, nil
	default:
		return nil, mismatchUnary(fn, v)
	}
}

func numberArg(fn string, v Value) (float64, error) {
	f, ok := v.toFloat()
	if !ok {
		return 0, mismatchUnary(fn, v)
	}
	return f, nil
}

// Load reads an image file. Every failure, a null path included, yields null.
func (rt *Runtime) Load(path Value) Value {
	if path.IsNull() {
		return Null
	}
	return Image(Load(path.String()))
}

// Save writes an image to path. Saving null does nothing.
func (rt *Runtime) Save(img, path Value) error {
	r, err := imageArg("save", img)
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}
	if path.IsNull() {
		return fmt.Errorf("save: path is null")
	}
	return Save(r, path.String())
}

// Width returns the image width as an integer
func (rt *Runtime) Width(img Value) (Value, error) {
	r, err := imageArg("width", img)
	if err != nil {
		return Null, err
	}
	return Int(int64(Width(r))), nil
}

// Height returns the image height as an integer
func (rt *Runtime) Height(img Value) (Value, error) {
	r, err := imageArg("height", img)
	if err != nil {
		return Null, err
	}
	return Int(int64(Height(r))), nil
}

// GetPixel returns the color at (x, y); coordinates are truncated to integers
func (rt *Runtime) GetPixel(img, x, y Value) (Value, error) {
	r, err := imageArg("get_pixel", img)
	if err != nil {
		return Null, err
	}
	fx, err := numberArg("get_pixel", x)
	if err != nil {
		return Null, err
	}
	fy, err := numberArg("get_pixel", y)
	if err != nil {
		return Null, err
	}
	return ColorValue(GetPixel(r, int(fx), int(fy))), nil
}

// Pow applies gamma mapping to every channel
func (rt *Runtime) Pow(img, gamma Value) (Value, error) {
	r, err := imageArg("pow_channels", img)
	if err != nil {
		return Null, err
	}
	g, err := numberArg("pow_channels", gamma)
	if err != nil {
		return Null, err
	}
	return Image(PowChannels(r, g)), nil
}

// Blur applies the box filter
func (rt *Runtime) Blur(img, radius Value) (Value, error) {
	r, err := imageArg("blur", img)
	if err != nil {
		return Null, err
	}
	rad, err := numberArg("blur", radius)
	if err != nil {
		return Null, err
	}
	return Image(Blur(r, rad)), nil
}

// Avg returns the mean brightness as a float
func (rt *Runtime) Avg(img Value) (Value, error) {
	r, err := imageArg("avg", img)
	if err != nil {
		return Null, err
	}
	return Float(Avg(r)), nil
}

// Field reads the r, g or b channel of a color
func (rt *Runtime) Field(v Value, name string) (Value, error) {
	c, ok := v.AsColor()
	if !ok {
		return Null, mismatchUnary("."+name, v)
	}
	switch name {
	case "r":
		return Int(int64(c.R)), nil
	case "g":
		return Int(int64(c.G)), nil
	case "b":
		return Int(int64(c.B)), nil
	default:
		return Null, fmt.Errorf("color has no field %q", name)
	}
}

// Write prints the text form of v followed by a newline
func (rt *Runtime) Write(v Value) error {
	_, err := fmt.Fprintln(rt.out, v.String())
	return err
}

// Read returns the next input line without surrounding spaces, or null at
// the end of input.
func (rt *Runtime) Read() (Value, error) {
	line, err := rt.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return String(strings.TrimSpace(line)), nil
		}
		if err == io.EOF {
			return Null, nil
		}
		return Null, fmt.Errorf("read: %w", err)
	}
	return String(strings.TrimSpace(line)), nil
}

// Builtin is a function callable by name from a script
type Builtin struct {
	Arity int
	Fn    func(rt *Runtime, args []Value) (Value, error)
}

// Builtins lists the functions scripts call by name
var Builtins = map[string]Builtin{
	"load": {1, func(rt *Runtime, args []Value) (Value, error) {
		return rt.Load(args[0]), nil
	}},
	"save": {2, func(rt *Runtime, args []Value) (Value, error) {
		return Null, rt.Save(args[0], args[1])
	}},
	"write": {1, func(rt *Runtime, args []Value) (Value, error) {
		return Null, rt.Write(args[0])
	}},
	"read": {0, func(rt *Runtime, args []Value) (Value, error) {
		return rt.Read()
	}},
	"pow_channels": {2, func(rt *Runtime, args []Value) (Value, error) {
		return rt.Pow(args[0], args[1])
	}},
	"blur": {2, func(rt *Runtime, args []Value) (Value, error) {
		return rt.Blur(args[0], args[1])
	}},
	"width": {1, func(rt *Runtime, args []Value) (Value, error) {
		return rt.Width(args[0])
	}},
	"height": {1, func(rt *Runtime, args []Value) (Value, error) {
		return rt.Height(args[0])
	}},
	"get_pixel": {3, func(rt *Runtime, args []Value) (Value, error) {
		return rt.GetPixel(args[0], args[1], args[2])
	}},
	"avg": {1, func(rt *Runtime, args []Value) (Value, error) {
		return rt.Avg(args[0])
	}},
	"field": {2, func(rt *Runtime, args []Value) (Value, error) {
		name, ok := args[1].AsString()
		if !ok {
			return Null, mismatchUnary("field", args[1])
		}
		return rt.Field(args[0], name)
	}},
	"string": {1, func(rt *Runtime, args []Value) (Value, error) {
		return ToString(args[0]), nil
	}},
	"float": {1, func(rt *Runtime, args []Value) (Value, error) {
		return ToFloat(args[0])
	}},
	"int": {1, func(rt *Runtime, args []Value) (Value, error) {
		return ToInt(args[0])
	}},
}

// BuiltinNames returns the registered names in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(Builtins))
	for name := range Builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes the builtin registered under name
func (rt *Runtime) Call(name string, args ...Value) (Value, error) {
	b, ok := Builtins[name]
	if !ok {
		return Null, fmt.Errorf("%s: %w", name, ErrUnknownBuiltin)
	}
	if len(args) != b.Arity {
		return Null, fmt.Errorf("%s: %w: want %d, got %d", name, ErrArity, b.Arity, len(args))
	}
	return b.Fn(rt, args)
}
