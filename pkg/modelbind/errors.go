package modelbind

import (
	"errors"
	"fmt"
)

// Binding failure categories. Every error returned by a binding operation is a
// *BindingError that unwraps to exactly one of these.
var (
	ErrMissingConstructor = errors.New("no default constructor")
	ErrConversion         = errors.New("value conversion failed")
	ErrUnterminatedIndex  = errors.New("expected ']' to mark end of index")
	ErrUnparseableIndex   = errors.New("index is not a non-negative integer")
	ErrIndexGap           = errors.New("gap in array indexes")
	ErrUnnamedRoot        = errors.New("root name is required for non-record shapes")
	ErrFlatElement        = errors.New("flat array form requires a primitive element")
	ErrShapeMismatch      = errors.New("bound value does not match field type")
	ErrDepthExceeded      = errors.New("maximum binding depth exceeded")
)

// Registration and argument errors.
var (
	ErrUnsupportedType  = errors.New("unsupported type")
	ErrAlreadyDescribed = errors.New("type already has a different shape")
	ErrNilShape         = errors.New("shape is nil")
	ErrNilSource        = errors.New("value source is nil")
	ErrInvalidTarget    = errors.New("target must be a non-nil pointer")
	ErrNoResolver       = errors.New("context has no resolver for nested values")
)

// BindingError carries the fully qualified field path and the offending raw
// value of a failed binding.
type BindingError struct {
	// Field is the full path of the field being bound, e.g. "Users[0].Age".
	Field string
	// Value is the raw submitted value, or nil when not applicable.
	Value any
	// Err is one of the Err* sentinels of this package.
	Err error
	// Cause is the underlying error, if any (e.g. a strconv error).
	Cause error
}

func (e *BindingError) Error() string {
	msg := e.Err.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Value == nil {
		return fmt.Sprintf("binding failure '%s': %s", e.Field, msg)
	}
	return fmt.Sprintf("binding failure '%s' = '%v': %s", e.Field, e.Value, msg)
}

// Unwrap exposes both the category sentinel and the cause to errors.Is/As.
func (e *BindingError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func bindErr(field string, value any, kind error, cause error) *BindingError {
	return &BindingError{Field: field, Value: value, Err: kind, Cause: cause}
}
