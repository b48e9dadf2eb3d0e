package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlplan/internal/relir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid" msgpack:"valid"`
	Warnings []string `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <plan-file>",
		Short: "Validate a plan without compiling it",
		Long: `Validate a YAML or CUE plan document without compiling it.

Loads the plan, resolves node references and checks every node for
structural problems such as unknown columns, negative limits and set
operations over relations with different schemas.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	plan, err := loadPlan(formatter, path)
	if err != nil {
		return err
	}

	vr := relir.Validate(plan.Root)
	if !vr.IsValid {
		return outputValidationWarnings(formatter, vr.Warnings)
	}

	if formatter.Structured() {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ Plan valid")
	return nil
}

// outputValidationWarnings reports structural problems. Validation
// failures exit with code 1.
func outputValidationWarnings(formatter *OutputFormatter, warnings []string) error {
	failed := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d problem(s)", len(warnings)))

	if formatter.Structured() {
		resp := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Warnings: warnings},
			Error: &CLIError{
				Code:    ErrCodeInvalidPlan,
				Message: warnings[0],
			},
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
		return failed
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, w := range warnings {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeInvalidPlan, w)
	}
	return failed
}
