package imgrt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// arith applies a numeric operator: integers stay integers, any float
// promotes both sides to float.
func arith(op string, a, b Value, intFn func(x, y int64) int64, floatFn func(x, y float64) float64) (Value, error) {
	if a.kind == IntegerKind && b.kind == IntegerKind {
		return Int(intFn(a.i, b.i)), nil
	}
	x, okA := a.toFloat()
	y, okB := b.toFloat()
	if !okA || !okB {
		return Null, mismatch(op, a, b)
	}
	return Float(floatFn(x, y)), nil
}

// compare converts both operands to float before applying cmp
func compare(op string, a, b Value, cmp func(x, y float64) bool) (Value, error) {
	x, okA := a.toFloat()
	y, okB := b.toFloat()
	if !okA || !okB {
		return Null, mismatch(op, a, b)
	}
	return Bool(cmp(x, y)), nil
}

// Add concatenates when either side is a string, composites two images,
// and otherwise adds numbers.
func (rt *Runtime) Add(a, b Value) (Value, error) {
	if a.kind == StringKind || b.kind == StringKind {
		return String(a.String() + b.String()), nil
	}
	if a.kind == ImageKind && b.kind == ImageKind {
		return Image(AddImages(a.img, b.img)), nil
	}
	return arith("+", a, b,
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub takes the absolute difference of two images and otherwise subtracts
// numbers. An image minus null (or null minus an image) reports an
// EventNullOperand and returns the image operand itself.
func (rt *Runtime) Sub(a, b Value) (Value, error) {
	switch {
	case a.kind == ImageKind && b.kind == ImageKind:
		return Image(SubImages(a.img, b.img)), nil
	case a.kind == ImageKind && b.kind == NullKind:
		rt.emit(Event{Kind: EventNullOperand, Op: "Sub", Operand: 1, Message: "second image is null"})
		return a, nil
	case a.kind == NullKind && b.kind == ImageKind:
		rt.emit(Event{Kind: EventNullOperand, Op: "Sub", Operand: 0, Message: "first image is null"})
		return b, nil
	}
	return arith("-", a, b,
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul scales an image by a number (in either order) and otherwise multiplies
// numbers. Two images do not multiply.
func (rt *Runtime) Mul(a, b Value) (Value, error) {
	if a.kind == ImageKind && b.IsNumeric() {
		s, _ := b.toFloat()
		return Image(MulImageScalar(a.img, s)), nil
	}
	if b.kind == ImageKind && a.IsNumeric() {
		s, _ := a.toFloat()
		return Image(MulImageScalar(b.img, s)), nil
	}
	return arith("*", a, b,
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div divides numbers. Integer division truncates toward zero and stays an
// integer even for a zero divisor, where the infinite or NaN quotient maps
// to math.MinInt64. Float division by zero yields an infinity or NaN.
func (rt *Runtime) Div(a, b Value) (Value, error) {
	if a.kind == IntegerKind && b.kind == IntegerKind && b.i == 0 {
		return Int(math.MinInt64), nil
	}
	return arith("/", a, b,
		func(x, y int64) int64 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// Neg negates a number, keeping its kind
func (rt *Runtime) Neg(a Value) (Value, error) {
	switch a.kind {
	case IntegerKind:
		return Int(-a.i), nil
	case FloatKind:
		return Float(-a.f), nil
	default:
		return Null, mismatchUnary("neg", a)
	}
}

// Gt reports a > b after widening both to float
func (rt *Runtime) Gt(a, b Value) (Value, error) {
	return compare(">", a, b, func(x, y float64) bool { return x > y })
}

// Lt reports a < b after widening both to float
func (rt *Runtime) Lt(a, b Value) (Value, error) {
	return compare("<", a, b, func(x, y float64) bool { return x < y })
}

// Eq compares by kind and payload. Null equals only null, and an integer
// never equals a float even when both hold the same number. Images are
// equal only when they are the same image.
func (rt *Runtime) Eq(a, b Value) (Value, error) {
	return Bool(equal(a, b)), nil
}

func equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NullKind:
		return true
	case IntegerKind:
		return a.i == b.i
	case FloatKind:
		// NaN equals itself here, as with boxed equality
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case StringKind:
		return a.s == b.s
	case BooleanKind:
		return a.b == b.b
	case ImageKind:
		return a.img == b.img
	case ColorKind:
		return a.color == b.color
	default:
		return false
	}
}

// Ne is the negation of Eq
func (rt *Runtime) Ne(a, b Value) (Value, error) {
	return Bool(!equal(a, b)), nil
}

// Le is the negation of Gt, so NaN operands compare true
func (rt *Runtime) Le(a, b Value) (Value, error) {
	v, err := rt.Gt(a, b)
	if err != nil {
		return Null, err
	}
	return Bool(!v.b), nil
}

// Ge is the negation of Lt, so NaN operands compare true
func (rt *Runtime) Ge(a, b Value) (Value, error) {
	v, err := rt.Lt(a, b)
	if err != nil {
		return Null, err
	}
	return Bool(!v.b), nil
}

// And is boolean conjunction. Both operands are always evaluated by the caller.
func (rt *Runtime) And(a, b Value) (Value, error) {
	if a.kind != BooleanKind || b.kind != BooleanKind {
		return Null, mismatch("&&", a, b)
	}
	return Bool(a.b && b.b), nil
}

// Or is boolean disjunction
func (rt *Runtime) Or(a, b Value) (Value, error) {
	if a.kind != BooleanKind || b.kind != BooleanKind {
		return Null, mismatch("||", a, b)
	}
	return Bool(a.b || b.b), nil
}

// Not is boolean negation
func (rt *Runtime) Not(a Value) (Value, error) {
	if a.kind != BooleanKind {
		return Null, mismatchUnary("!", a)
	}
	return Bool(!a.b), nil
}

// Casts

// ToString renders any value as text
func ToString(v Value) Value {
	return String(v.String())
}

// ToFloat converts numbers, booleans, numeric strings and null to a float
func ToFloat(v Value) (Value, error) {
	switch v.kind {
	case NullKind:
		return Float(0), nil
	case IntegerKind:
		return Float(float64(v.i)), nil
	case FloatKind:
		return v, nil
	case BooleanKind:
		if v.b {
			return Float(1), nil
		}
		return Float(0), nil
	case StringKind:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return Null, fmt.Errorf("%w: cannot parse %q", mismatchUnary("float", v), v.s)
		}
		return Float(f), nil
	default:
		return Null, mismatchUnary("float", v)
	}
}

// ToInt converts to an integer. Floats round half to even.
func ToInt(v Value) (Value, error) {
	switch v.kind {
	case NullKind:
		return Int(0), nil
	case IntegerKind:
		return v, nil
	case FloatKind:
		r := math.RoundToEven(v.f)
		if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
			return Null, fmt.Errorf("int: %s: %w", v, ErrOverflow)
		}
		return Int(int64(r)), nil
	case BooleanKind:
		if v.b {
			return Int(1), nil
		}
		return Int(0), nil
	case StringKind:
		i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return Null, fmt.Errorf("%w: cannot parse %q", mismatchUnary("int", v), v.s)
		}
		return Int(i), nil
	default:
		return Null, mismatchUnary("int", v)
	}
}

// BinaryOps maps operator symbols to their dispatch
var BinaryOps = map[string]func(rt *Runtime, a, b Value) (Value, error){
	"+":  (*Runtime).Add,
	"-":  (*Runtime).Sub,
	"*":  (*Runtime).Mul,
	"/":  (*Runtime).Div,
	">":  (*Runtime).Gt,
	"<":  (*Runtime).Lt,
	"==": (*Runtime).Eq,
	"!=": (*Runtime).Ne,
	"<=": (*Runtime).Le,
	">=": (*Runtime).Ge,
	"&&": (*Runtime).And,
	"||": (*Runtime).Or,
}

// UnaryOps maps unary operator names to their dispatch
var UnaryOps = map[string]func(rt *Runtime, a Value) (Value, error){
	"neg": (*Runtime).Neg,
	"!":   (*Runtime).Not,
}
