// Package errors provides structured error handling for tableflow.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindIndex indicates a query addressing a section or row that does not exist.
	KindIndex
	// KindSession indicates misuse of the update session protocol.
	KindSession
	// KindBatch indicates a batch update rejected by the rendering surface.
	KindBatch
	// KindMeasure indicates a failed automatic height measurement.
	KindMeasure
	// KindRegister indicates a reuse key that could not be registered.
	KindRegister
	// KindConfig indicates an invalid configuration.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindSession:
		return "session"
	case KindBatch:
		return "batch"
	case KindMeasure:
		return "measure"
	case KindRegister:
		return "register"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// TableError represents a structured error raised while reconciling a table.
type TableError struct {
	// Op is the operation that failed (e.g., "table.Manager.HeightForRow").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// ReuseKey is the reuse key involved, if applicable.
	ReuseKey string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *TableError) Error() string {
	if e.ReuseKey != "" {
		return fmt.Sprintf("%s [%s] reuse=%s: %v", e.Op, e.Kind, e.ReuseKey, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "terminal.Surface.Render").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// IndexError describes a position that does not exist in the model.
type IndexError struct {
	Section int
	// Row is -1 when the query addressed a whole section.
	Row   int
	Count int
}

func (e *IndexError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("section %d out of range [0,%d)", e.Section, e.Count)
	}
	return fmt.Sprintf("row %d out of range [0,%d) in section %d", e.Row, e.Count, e.Section)
}

// CallbackError represents a failure inside a client lifecycle callback.
type CallbackError struct {
	// Event is the callback slot that failed (e.g., "onTap").
	Event string
	// Row is the identifier of the row, if it has one.
	Row string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *CallbackError) Error() string {
	target := e.Event
	if e.Row != "" {
		target = fmt.Sprintf("%s of row %q", e.Event, e.Row)
	}
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s: %v", target, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s: %v", target, e.Err)
	}
	return fmt.Sprintf("unknown error in %s", target)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by tableflow.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *TableError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleCallbackError is called when a client callback fails.
	HandleCallbackError(err *CallbackError)
}
