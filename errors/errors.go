package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the adaptation layer the error occurred
type Phase string

const (
	PhaseClassify Phase = "classify" // signature classification
	PhaseConvert  Phase = "convert"  // props marshaling
	PhaseInvoke   Phase = "invoke"   // component dispatch
	PhaseIterate  Phase = "iterate"  // iterator pull protocol
	PhaseRegistry Phase = "registry" // proxy handle lifetime
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidSignature  Kind = "invalid_signature"
	KindArityMismatch     Kind = "arity_mismatch"
	KindConversionFailure Kind = "conversion_failure"
	KindProtocolViolation Kind = "protocol_violation"
	KindHandleLeak        Kind = "handle_leak"
	KindUnsupported       Kind = "unsupported"
	KindInvalidInput      Kind = "invalid_input"
)

// Error is the structured error type used throughout the layer.
//
// User-code errors are never wrapped in Error: anything raised inside a
// component body crosses this layer unchanged. Error describes failures of
// the layer itself.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Callable string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Callable != "" {
		b.WriteString(": callable ")
		b.WriteString(e.Callable)
	}

	if e.Detail != "" {
		if e.Callable != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by phase and kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Match returns a probe error for use with errors.Is
func Match(phase Phase, kind Kind) *Error {
	return &Error{Phase: phase, Kind: kind}
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path for nested conversion errors
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Callable sets the identity of the offending callable
func (b *Builder) Callable(name string) *Builder {
	b.err.Callable = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidSignature reports a callable whose declared arity is outside {0,1,2}
func InvalidSignature(callable string, arity int) *Error {
	return &Error{
		Phase:    PhaseClassify,
		Kind:     KindInvalidSignature,
		Callable: callable,
		Detail:   fmt.Sprintf("declared arity %d, want 0, 1 or 2", arity),
	}
}

// ArityMismatch reports exhausted classification trials
func ArityMismatch(callable string) *Error {
	return &Error{
		Phase:    PhaseClassify,
		Kind:     KindArityMismatch,
		Callable: callable,
		Detail:   "no trial arity in {2,1,0} succeeded",
	}
}

// ConversionFailure reports a value the props bridge could not marshal
func ConversionFailure(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindConversionFailure,
		Path:   path,
		Detail: detail,
	}
}

// ProtocolViolation reports a pull-protocol call the host should not have made
func ProtocolViolation(detail string) *Error {
	return &Error{
		Phase:  PhaseIterate,
		Kind:   KindProtocolViolation,
		Detail: detail,
	}
}

// Unsupported reports an operation the active runtime profile cannot perform
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput reports a malformed argument to this layer's own API
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with layer context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
