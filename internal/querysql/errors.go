package querysql

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is wrapped by errors reporting a table node kind the
// clause collector has no rule for.
var ErrNotImplemented = errors.New("not implemented")

// TranslationErrorCode classifies translation failures.
type TranslationErrorCode string

const (
	// ErrCodeUnexpectedShape: a value's shape is neither scalar nor columnar.
	ErrCodeUnexpectedShape TranslationErrorCode = "UNEXPECTED_SHAPE"
	// ErrCodeUnsupportedNode: the node is neither a table nor a value.
	ErrCodeUnsupportedNode TranslationErrorCode = "UNSUPPORTED_NODE"
	// ErrCodeAmbiguousRoot: a value cannot be re-rooted on a single table.
	ErrCodeAmbiguousRoot TranslationErrorCode = "AMBIGUOUS_ROOT"
)

// TranslationError reports an input that cannot be compiled into a
// statement.
type TranslationError struct {
	Code    TranslationErrorCode
	Message string
	Kind    string // node kind, when known
	Err     error  // underlying cause, if any
}

func (e *TranslationError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// IsTranslationError reports whether err is or wraps a TranslationError.
func IsTranslationError(err error) bool {
	var te *TranslationError
	return errors.As(err, &te)
}

// IsTranslationErrorCode reports whether err wraps a TranslationError with
// the given code.
func IsTranslationErrorCode(err error, code TranslationErrorCode) bool {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func unexpectedShape(kind string, shape fmt.Stringer) *TranslationError {
	return &TranslationError{
		Code:    ErrCodeUnexpectedShape,
		Message: fmt.Sprintf("unexpected output shape %s", shape),
		Kind:    kind,
	}
}

func unsupportedNode(kind string) *TranslationError {
	return &TranslationError{
		Code:    ErrCodeUnsupportedNode,
		Message: "unsupported node kind",
		Kind:    kind,
	}
}

func ambiguousRoot(kind string, err error) *TranslationError {
	return &TranslationError{
		Code:    ErrCodeAmbiguousRoot,
		Message: err.Error(),
		Kind:    kind,
		Err:     err,
	}
}
