package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/sqlplan/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output        string // output file path
	MinDependents int    // subquery extraction threshold
}

// CompilationResult is the structured output of the compile command.
type CompilationResult struct {
	Plan            string            `json:"plan" msgpack:"plan"`
	PlanFingerprint string            `json:"plan_fingerprint" msgpack:"plan_fingerprint"`
	Fingerprint     string            `json:"fingerprint" msgpack:"fingerprint"`
	Explain         *querysql.Explain `json:"explain" msgpack:"explain"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <plan-file>",
		Short: "Compile a plan into a select statement",
		Long: `Compile a YAML or CUE plan document into a select statement.

The statement is printed as an explain document: the clauses of the
select, the extracted subqueries and the alias of every table.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().IntVar(&opts.MinDependents, "min-dependents", querysql.DefaultMinDependents,
		"number of dependents at which a shared relation becomes a subquery")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
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

	sel, err := querysql.Build(plan.Root, nil, querysql.WithMinDependents(opts.MinDependents))
	if err != nil {
		return outputCompileError(formatter, err)
	}
	formatter.VerboseLog("Compiled %s: %d subquery(ies), result %s", path, len(sel.Subqueries), sel.Result)

	fp, err := sel.Fingerprint()
	if err != nil {
		return outputCompileError(formatter, err)
	}

	result := &CompilationResult{
		Plan:            path,
		PlanFingerprint: plan.Fingerprint,
		Fingerprint:     fp,
		Explain:         sel.Explain(),
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output, opts.Format); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Structured() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %s\n\n", result.Plan)
	if err := result.Explain.WriteText(formatter.Writer); err != nil {
		return err
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "plan fingerprint:   %s\n", result.PlanFingerprint)
	fmt.Fprintf(formatter.Writer, "select fingerprint: %s\n", result.Fingerprint)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote compiled select to %s\n", outputFile)
	}
	return nil
}

// outputCompileError reports a compilation failure. Compilation errors are
// command-level errors (exit code 2).
func outputCompileError(formatter *OutputFormatter, err error) error {
	var details map[string]any
	var te *querysql.TranslationError
	if errors.As(err, &te) {
		details = map[string]any{"reason": string(te.Code)}
		if te.Kind != "" {
			details["kind"] = te.Kind
		}
	} else if errors.Is(err, querysql.ErrNotImplemented) {
		details = map[string]any{"reason": "NOT_IMPLEMENTED"}
	}
	_ = formatter.Error(ErrCodeCompile, err.Error(), details)
	return WrapExitError(ExitCommandError, "compilation failed", err)
}

// writeResultToFile writes result as indented JSON, or as msgpack when
// format is msgpack.
func writeResultToFile(result *CompilationResult, filename, format string) error {
	var (
		data []byte
		err  error
	)
	if format == "msgpack" {
		data, err = msgpack.Marshal(result)
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
