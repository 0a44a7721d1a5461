package errors

import (
	"fmt"
	"strings"
)

// Op names the bridge operation in which an error occurred
type Op string

const (
	OpCreate   Op = "create"   // bridge or backend construction
	OpUpsert   Op = "upsert"   // node insert or update
	OpRemove   Op = "remove"   // node removal
	OpFocus    Op = "focus"    // focus change
	OpNotify   Op = "notify"   // property change notification
	OpAnnounce Op = "announce" // live announcement
	OpDecode   Op = "decode"   // wire record decoding
	OpEncode   Op = "encode"   // wire record encoding
	OpAction   Op = "action"   // action routing
	OpBackend  Op = "backend"  // platform backend call
	OpConfig   Op = "config"   // configuration loading
	OpScene    Op = "scene"    // scene loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput   Kind = "invalid_input"
	KindAllocation     Kind = "allocation"
	KindNotFound       Kind = "not_found"
	KindInitialization Kind = "initialization"
	KindBackend        Kind = "backend"
	KindTruncated      Kind = "truncated"
	KindInvalidEnum    Kind = "invalid_enum"
	KindUnsupported    Kind = "unsupported"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Op     Op
	Kind   Kind
	ID     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.ID != "" {
		b.WriteString(" [node ")
		b.WriteString(e.ID)
		b.WriteByte(']')
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Is reports whether target matches this error.
// A target with an empty Op matches any Op of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// ID sets the node id the error refers to
func (b *Builder) ID(id string) *Builder {
	b.err.ID = id
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

// Sentinels for errors.Is checks that do not care about the operation.
var (
	ErrInvalidInput   = &Error{Kind: KindInvalidInput}
	ErrAllocation     = &Error{Kind: KindAllocation}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrInitialization = &Error{Kind: KindInitialization}
	ErrBackend        = &Error{Kind: KindBackend}
	ErrTruncated      = &Error{Kind: KindTruncated}
	ErrInvalidEnum    = &Error{Kind: KindInvalidEnum}
	ErrUnsupported    = &Error{Kind: KindUnsupported}
)

// Convenience constructors for common error patterns

// InvalidInput creates an invalid input error
func InvalidInput(op Op, id string, detail string, args ...any) *Error {
	return New(op, KindInvalidInput).ID(id).Detail(detail, args...).Build()
}

// Allocation creates an allocation failure error for a store at capacity
func Allocation(op Op, id string, capacity int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindAllocation,
		ID:     id,
		Detail: fmt.Sprintf("node store is at capacity (%d nodes)", capacity),
		Value:  capacity,
	}
}

// NotFound creates a not-found error for an unknown node id
func NotFound(op Op, id string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindNotFound,
		ID:     id,
		Detail: "no such node",
	}
}

// Initialization creates a backend initialization failure
func Initialization(backend string, cause error) *Error {
	return &Error{
		Op:     OpCreate,
		Kind:   KindInitialization,
		Detail: fmt.Sprintf("%s backend unavailable", backend),
		Cause:  cause,
	}
}

// Backend wraps an error returned by a platform backend call
func Backend(call string, id string, cause error) *Error {
	return &Error{
		Op:     OpBackend,
		Kind:   KindBackend,
		ID:     id,
		Detail: call,
		Cause:  cause,
	}
}

// Truncated creates a wire decoding error for a short buffer
func Truncated(field string, need, have int) *Error {
	return &Error{
		Op:     OpDecode,
		Kind:   KindTruncated,
		Detail: fmt.Sprintf("%s: need %d bytes, have %d", field, need, have),
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(op Op, value any, enumType string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidEnum,
		Detail: fmt.Sprintf("invalid %s value %v", enumType, value),
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(op Op, what string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindUnsupported,
		Detail: what,
	}
}
