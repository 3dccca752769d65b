// Package pipeline runs image scripts described as YAML step lists.
//
// A document binds a few variables and then calls builtins or applies
// operators in order, storing results under names later steps refer to
// with a leading '$':
//
//	vars: {radius: 2}
//	steps:
//	  - {let: img, call: load, args: [in.png]}
//	  - {let: soft, call: blur, args: [$img, $radius]}
//	  - {let: diff, op: "-", args: [$img, $soft]}
//	  - {call: save, args: [$diff, out.png]}
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/apex/log"
	imgrt "github.com/blacktop/go-imgrt"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidStep is returned for steps that are not well formed
	ErrInvalidStep = errors.New("invalid step")
	// ErrUnknownOp is returned for operator symbols with no dispatch
	ErrUnknownOp = errors.New("unknown operator")
	// ErrUnknownVariable is returned when a step refers to an unbound name
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrUnsupportedArg is returned for YAML nodes that have no Value form
	ErrUnsupportedArg = errors.New("unsupported argument")
)

// Step is one builtin call or operator application.
type Step struct {
	Let  string `yaml:"let,omitempty"`
	Call string `yaml:"call,omitempty"`
	Op   string `yaml:"op,omitempty"`
	Args []any  `yaml:"args,omitempty"`
}

// Name is the builtin or operator the step applies
func (s Step) Name() string {
	if s.Call != "" {
		return s.Call
	}
	return s.Op
}

// Document is a parsed pipeline file.
type Document struct {
	Vars  map[string]any `yaml:"vars,omitempty"`
	Steps []Step         `yaml:"steps"`
}

// StepError ties a failure to the step that produced it.
type StepError struct {
	Index int
	Name  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Env holds the variables bound while a pipeline runs
type Env map[string]imgrt.Value

// Parse decodes a pipeline document and validates it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the pipeline file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline: %w", err)
	}
	return Parse(data)
}

// Validate checks every step's shape and arity without running anything.
func (d *Document) Validate() error {
	for name := range d.Vars {
		if !validName(name) {
			return fmt.Errorf("%w: bad variable name %q", ErrInvalidStep, name)
		}
	}
	for i, s := range d.Steps {
		if err := s.validate(); err != nil {
			return &StepError{Index: i, Name: s.Name(), Err: err}
		}
	}
	return nil
}

func (s Step) validate() error {
	if s.Let != "" && !validName(s.Let) {
		return fmt.Errorf("%w: bad variable name %q", ErrInvalidStep, s.Let)
	}
	switch {
	case s.Call != "" && s.Op != "":
		return fmt.Errorf("%w: both call and op set", ErrInvalidStep)
	case s.Call != "":
		b, ok := imgrt.Builtins[s.Call]
		if !ok {
			return fmt.Errorf("%s: %w", s.Call, imgrt.ErrUnknownBuiltin)
		}
		if len(s.Args) != b.Arity {
			return fmt.Errorf("%s: %w: want %d, got %d", s.Call, imgrt.ErrArity, b.Arity, len(s.Args))
		}
	case s.Op != "":
		want := 0
		if _, ok := imgrt.BinaryOps[s.Op]; ok {
			want = 2
		} else if _, ok := imgrt.UnaryOps[s.Op]; ok {
			want = 1
		} else {
			return fmt.Errorf("%w %q", ErrUnknownOp, s.Op)
		}
		if len(s.Args) != want {
			return fmt.Errorf("%s: %w: want %d, got %d", s.Op, imgrt.ErrArity, want, len(s.Args))
		}
	default:
		return fmt.Errorf("%w: one of call or op is required", ErrInvalidStep)
	}
	return nil
}

func validName(name string) bool {
	return name != "" && !strings.HasPrefix(name, "$")
}

// Run executes the document's steps in order on rt. The context is checked
// between steps; a step in progress is never interrupted.
func Run(ctx context.Context, rt *imgrt.Runtime, doc *Document) (Env, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	env := make(Env, len(doc.Vars)+len(doc.Steps))
	for name, raw := range doc.Vars {
		v, err := literal(raw)
		if err != nil {
			return nil, fmt.Errorf("vars.%s: %w", name, err)
		}
		env[name] = v
	}

	for i, s := range doc.Steps {
		if err := ctx.Err(); err != nil {
			return env, err
		}
		log.WithFields(log.Fields{"step": i, "name": s.Name()}).Debug("running step")

		v, err := env.apply(rt, s)
		if err != nil {
			return env, &StepError{Index: i, Name: s.Name(), Err: err}
		}
		if s.Let != "" {
			env[s.Let] = v
		}
	}
	return env, nil
}

func (env Env) apply(rt *imgrt.Runtime, s Step) (imgrt.Value, error) {
	args := make([]imgrt.Value, len(s.Args))
	for i, raw := range s.Args {
		v, err := env.resolve(raw)
		if err != nil {
			return imgrt.Null, fmt.Errorf("arg %d: %w", i, err)
		}
		args[i] = v
	}

	if s.Call != "" {
		return rt.Call(s.Call, args...)
	}
	if op, ok := imgrt.BinaryOps[s.Op]; ok {
		return op(rt, args[0], args[1])
	}
	return imgrt.UnaryOps[s.Op](rt, args[0])
}

// resolve turns a YAML scalar into a Value, looking up $name references
func (env Env) resolve(raw any) (imgrt.Value, error) {
	if s, ok := raw.(string); ok && strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "$$") {
		name := s[1:]
		v, ok := env[name]
		if !ok {
			return imgrt.Null, fmt.Errorf("%w %q", ErrUnknownVariable, name)
		}
		return v, nil
	}
	return literal(raw)
}

// literal converts a YAML scalar without variable lookup. A leading "$$"
// stands for a literal '$'; a single '$' is rejected since vars are bound
// before any name exists.
func literal(raw any) (imgrt.Value, error) {
	switch x := raw.(type) {
	case nil:
		return imgrt.Null, nil
	case bool:
		return imgrt.Bool(x), nil
	case int:
		return imgrt.Int(int64(x)), nil
	case int64:
		return imgrt.Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return imgrt.Null, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedArg, x)
		}
		return imgrt.Int(int64(x)), nil
	case float64:
		return imgrt.Float(x), nil
	case string:
		if strings.HasPrefix(x, "$$") {
			return imgrt.String(x[1:]), nil
		}
		if strings.HasPrefix(x, "$") {
			return imgrt.Null, fmt.Errorf("%w %q", ErrUnknownVariable, x[1:])
		}
		return imgrt.String(x), nil
	default:
		return imgrt.Null, fmt.Errorf("%w: %T", ErrUnsupportedArg, raw)
	}
}
