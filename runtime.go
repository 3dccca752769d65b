package imgrt

import (
	"bufio"
	"io"
	"os"

	"github.com/apex/log"
)

// Runtime carries the collaborators the value algebra needs: a sink for
// recoverable events and the streams used by write and read.
// Operators and kernels may be called concurrently; read may not.
type Runtime struct {
	observer Observer
	out      io.Writer
	in       *bufio.Reader
}

// Option configures a Runtime
type Option func(*Runtime)

// WithObserver sets the event sink
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		if o == nil {
			o = Discard
		}
		rt.observer = o
	}
}

// WithOutput sets the stream used by write
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		if w == nil {
			w = io.Discard
		}
		rt.out = w
	}
}

// WithInput sets the stream used by read
func WithInput(r io.Reader) Option {
	return func(rt *Runtime) {
		rt.in = bufio.NewReader(r)
	}
}

// New creates a Runtime. By default events go to the apex/log default logger
// and the streams are stdin and stdout.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		observer: LogObserver(log.Log),
		out:      os.Stdout,
		in:       bufio.NewReader(os.Stdin),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Runtime) emit(e Event) {
	rt.observer.Observe(e)
}

// Default is the Runtime used by the package-level functions
var Default = New()

// Convenience functions on the default runtime

// Add applies + on the default runtime
func Add(a, b Value) (Value, error) { return Default.Add(a, b) }

// Sub applies - on the default runtime
func Sub(a, b Value) (Value, error) { return Default.Sub(a, b) }

// Mul applies * on the default runtime
func Mul(a, b Value) (Value, error) { return Default.Mul(a, b) }

// Div applies / on the default runtime
func Div(a, b Value) (Value, error) { return Default.Div(a, b) }

// Neg applies unary - on the default runtime
func Neg(a Value) (Value, error) { return Default.Neg(a) }

// Gt applies > on the default runtime
func Gt(a, b Value) (Value, error) { return Default.Gt(a, b) }

// Lt applies < on the default runtime
func Lt(a, b Value) (Value, error) { return Default.Lt(a, b) }

// Eq applies == on the default runtime
func Eq(a, b Value) (Value, error) { return Default.Eq(a, b) }
