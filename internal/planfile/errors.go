package planfile

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// LoadError reports a plan document that cannot be loaded.
type LoadError struct {
	Code    string
	Message string
	Path    string    // document path, e.g. "nodes.left.predicates[0]"
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeParse       = "E002" // YAML or CUE syntax/evaluation error
	ErrCodeFormat      = "E003" // Unrecognized file extension
	ErrCodeNoRoot      = "E004" // Neither root nor value set
	ErrCodeNotFound    = "E005" // File not found
	ErrCodeUnknownRef  = "E006" // Reference to an undefined node or column
	ErrCodeCycle       = "E007" // Nodes reference each other in a cycle
	ErrCodeInvalidNode = "E008" // Bad node kind or fields
	ErrCodeInvalidExpr = "E009" // Bad expression
)

func invalidNode(path, format string, args ...any) *LoadError {
	return &LoadError{Code: ErrCodeInvalidNode, Path: path, Message: fmt.Sprintf(format, args...)}
}

func invalidExpr(path, format string, args ...any) *LoadError {
	return &LoadError{Code: ErrCodeInvalidExpr, Path: path, Message: fmt.Sprintf(format, args...)}
}
