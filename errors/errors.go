package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode Phase = "encode" // value to wire bytes
	PhaseDecode Phase = "decode" // wire bytes to value
	PhaseShape  Phase = "shape"  // shape construction and validation
	PhaseFrame  Phase = "frame"  // length-prefixed message exchange
)

// Kind categorizes the error
type Kind string

const (
	KindUnexpectedEOF  Kind = "unexpected_eof"
	KindInvalidUTF8    Kind = "invalid_utf8"
	KindInvalidChar    Kind = "invalid_char"
	KindInvalidBool    Kind = "invalid_bool"
	KindLengthOverflow Kind = "length_overflow"
	KindUnknownVariant Kind = "unknown_variant"
	KindUnsupported    Kind = "unsupported"
	KindTrailingBytes  Kind = "trailing_bytes"
	KindInvalidShape   Kind = "invalid_shape"
	KindInvalidData    Kind = "invalid_data"
	KindTypeMismatch   Kind = "type_mismatch"
	KindIO             Kind = "io"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Shape  string
	Detail string
	Path   []string
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

	if e.GoType != "" || e.Shape != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Shape != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", shape ")
			b.WriteString(e.Shape)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("shape ")
			b.WriteString(e.Shape)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Shape != "" {
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Shape sets the shape description
func (b *Builder) Shape(s string) *Builder {
	b.err.Shape = s
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// UnexpectedEOF reports that fewer bytes remained than the current read needed
func UnexpectedEOF(path []string, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnexpectedEOF,
		Path:   path,
		Detail: fmt.Sprintf("need %d more byte(s), %d remain", need, have),
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidChar reports a u32 that is not a Unicode scalar value
func InvalidChar(path []string, v uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidChar,
		Path:   path,
		Detail: fmt.Sprintf("0x%X is not a Unicode scalar value", v),
		Value:  v,
	}
}

// InvalidBool reports a strict-mode bool byte that is neither 0 nor 1
func InvalidBool(path []string, v uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidBool,
		Path:   path,
		Detail: fmt.Sprintf("bool encoded as %d, want 0 or 1", v),
		Value:  v,
	}
}

// LengthOverflow reports a string or byte blob too long for the u32 length field
func LengthOverflow(path []string, length int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindLengthOverflow,
		Path:   path,
		Detail: fmt.Sprintf("byte length %d exceeds the 32-bit length field", length),
		Value:  length,
	}
}

// UnknownVariant reports a decoded variant index outside the declared range
func UnknownVariant(path []string, index, count uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownVariant,
		Path:   path,
		Detail: fmt.Sprintf("variant index %d out of range (%d case(s) declared)", index, count),
		Value:  index,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// TrailingBytes reports unconsumed input after an end-of-message check
func TrailingBytes(remaining int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingBytes,
		Detail: fmt.Sprintf("%d byte(s) left after end of message", remaining),
		Value:  remaining,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, shape string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Shape:  shape,
	}
}

// InvalidShape reports a malformed shape descriptor
func InvalidShape(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseShape,
		Kind:   KindInvalidShape,
		Path:   path,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// IO wraps an I/O failure during framed message exchange
func IO(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseFrame,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}
