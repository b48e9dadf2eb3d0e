package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/sqlplan/internal/planfile"
)

// CLI error codes. Plan loading reports planfile's E0xx codes.
const (
	ErrCodeGeneric     = planfile.ErrCodeGeneric
	ErrCodeCompile     = "E101" // Plan could not be compiled into a select
	ErrCodeWriteFailed = "E102" // Output file could not be written
	ErrCodeInvalidPlan = "E103" // Plan has structural problems
)

// loadPlan loads the plan document at path, reporting failures through
// formatter. The returned error is always an *ExitError.
func loadPlan(formatter *OutputFormatter, path string) (*planfile.Plan, error) {
	plan, err := planfile.LoadFile(path)
	if err == nil {
		formatter.VerboseLog("Loaded plan %s: %d node(s), fingerprint %s", path, len(plan.Nodes), plan.Fingerprint)
		return plan, nil
	}

	var loadErr *planfile.LoadError
	if !errors.As(err, &loadErr) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "loading plan", err)
	}

	var details map[string]any
	if loadErr.Path != "" || loadErr.Pos.IsValid() {
		details = make(map[string]any)
		if loadErr.Path != "" {
			details["path"] = loadErr.Path
		}
		if loadErr.Pos.IsValid() {
			details["file"] = loadErr.Pos.Filename()
			details["line"] = loadErr.Pos.Line()
			details["column"] = loadErr.Pos.Column()
		}
	}

	if !formatter.Structured() {
		if loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		} else if loadErr.Path != "" {
			fmt.Fprintf(formatter.Writer, "at %s\n", loadErr.Path)
		}
	}
	_ = formatter.Error(loadErr.Code, loadErr.Message, details)
	return nil, WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message), nil)
}
