package imgrt

import (
	"github.com/apex/log"
)

// EventKind classifies a recoverable runtime condition
type EventKind int

const (
	// EventNullOperand is raised when an image subtraction gets a null operand
	EventNullOperand EventKind = iota
)

func (k EventKind) String() string {
	switch k {
	case EventNullOperand:
		return "null-operand"
	default:
		return "unknown"
	}
}

// Event is a recoverable condition reported instead of an error
type Event struct {
	Kind EventKind
	// Op is the operator that raised the event
	Op string
	// Operand is 0 for the left operand and 1 for the right
	Operand int
	Message string
}

// Observer receives recoverable runtime events
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(Event)

// Observe calls f(e)
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// LogObserver reports events as warnings on l
func LogObserver(l log.Interface) Observer {
	return ObserverFunc(func(e Event) {
		l.WithFields(log.Fields{
			"event":   e.Kind.String(),
			"op":      e.Op,
			"operand": e.Operand,
		}).Warn(e.Message)
	})
}

// Discard drops every event
var Discard Observer = ObserverFunc(func(Event) {})
